// Package tagger is the client for the statistical ingredient tagger, a separate
// service that labels the name, quantity and unit of each description.
package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/infrastructure/grammar"
	"github.com/ingredient-parser/backend/internal/logger"
)

// Client submits description batches to the tagger
type Client struct {
	httpClient *resty.Client
	log        *logger.Logger
}

// NewClient creates a tagger client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		log: log.With("component", "tagger_client"),
	}
}

type parseRequest struct {
	Descriptions []string `json:"descriptions"`
}

type taggedLine struct {
	Input string `json:"input"`
	Name  string `json:"name"`
	Qty   amount `json:"qty"`
	Unit  string `json:"unit"`
}

// Parse returns one result per description, in input order
func (c *Client) Parse(ctx context.Context, descriptions []string) ([]*domain.ParseResult, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(parseRequest{Descriptions: descriptions}).
		Post("/parse")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTaggerFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrTaggerFailure, resp.StatusCode())
	}

	var lines []taggedLine
	if err := json.Unmarshal(resp.Body(), &lines); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTaggerFailure, err)
	}
	if len(lines) != len(descriptions) {
		return nil, fmt.Errorf("%w: %d results for %d descriptions", domain.ErrTaggerFailure, len(lines), len(descriptions))
	}

	results := make([]*domain.ParseResult, len(lines))
	for i, line := range lines {
		results[i] = toParseResult(descriptions[i], line)
	}
	c.log.Debug("tagger parsed batch", "descriptions", len(descriptions))
	return results, nil
}

func toParseResult(description string, line taggedLine) *domain.ParseResult {
	result := &domain.ParseResult{Description: description, Source: domain.TagTagger}

	if name := strings.TrimSpace(line.Name); name != "" {
		result.Product = &name
	}

	unit := strings.TrimSpace(line.Unit)
	if line.Qty.value != nil || unit != "" {
		result.Fragments = []domain.QuantityFragment{{Amount: line.Qty.value, Unit: unit}}
	}
	return result
}

// amount accepts a JSON number, a numeric string ("1 1/2", "½", "0.5") or null
type amount struct {
	value *float64
}

func (a *amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.value = nil
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		a.value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("qty: %w", err)
	}
	a.value = parseQuantity(s)
	return nil
}

// parseQuantity sums whitespace-separated whole numbers, decimals and fractions.
// Unparseable text yields nil.
func parseQuantity(s string) *float64 {
	fields := strings.Fields(grammar.Normalize(s))
	if len(fields) == 0 {
		return nil
	}

	var total float64
	for _, field := range fields {
		v, ok := parseNumber(field)
		if !ok {
			return nil
		}
		total += v
	}
	return &total
}

func parseNumber(s string) (float64, bool) {
	if num, den, found := strings.Cut(s, "/"); found {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
