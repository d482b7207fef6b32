package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/logger"
)

const (
	queryPath   = "/ingredients/query"
	maxAttempts = 3
	baseBackoff = 500 * time.Millisecond
)

// Client handles communication with the ingredient knowledge service
type Client struct {
	httpClient  *resty.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         *logger.Logger
	debug       bool
}

// Options configures a knowledge client
type Options struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     int
}

// NewClient creates a new knowledge service client
func NewClient(baseURL string, opts Options, log *logger.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if log == nil {
		log = logger.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "IngredientParser/1.0").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		log:         log.With("component", "knowledge_client"),
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, keysAndValues ...interface{}) {
	if c.debug {
		c.log.Debug(msg, keysAndValues...)
	}
}

// exponentialBackoff returns the wait before the given retry attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return baseBackoff * time.Duration(1<<(attempt-1))
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// Query resolves product names in one batch. Names the service cannot resolve map to nil.
func (c *Client) Query(ctx context.Context, names []string, language string) (map[string]*domain.Resolution, error) {
	if len(names) == 0 {
		return map[string]*domain.Resolution{}, nil
	}

	form := url.Values{
		"descriptions[]": names,
		"language_code":  {language},
	}
	c.debugLog("querying knowledge service", "names", names, "language", language)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetFormDataFromValues(form).
			Post(queryPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrKnowledgeAPIFailure, err)
			}
			c.log.Warn("knowledge request error", "attempt", attempt, "error", err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrKnowledgeAPIFailure, err)
			if !c.wait(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode() != http.StatusOK {
			c.debugLog("knowledge service error", "status", resp.StatusCode(), "body", string(resp.Body()))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrKnowledgeAPIFailure, resp.StatusCode())
			if !retryable(resp.StatusCode()) || !c.wait(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}

		var body queryResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrKnowledgeAPIFailure, err)
		}

		results := mapResolutions(body, names)
		c.debugLog("knowledge service answered", "names", len(names), "resolved", countResolved(results))
		return results, nil
	}

	c.log.Warn("all knowledge retries failed", "names", len(names))
	return nil, lastErr
}

// wait sleeps before the next attempt; it reports false when no attempt is left or ctx ended
func (c *Client) wait(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return false
	}
	timer := time.NewTimer(exponentialBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func countResolved(results map[string]*domain.Resolution) int {
	n := 0
	for _, r := range results {
		if r != nil {
			n++
		}
	}
	return n
}
