package usecase

import (
	"errors"
	"fmt"

	"github.com/ingredient-parser/backend/internal/domain"
)

// DescriptionParser runs the grammar over the subtexts of a description
type DescriptionParser struct {
	grammar domain.GrammarParser
}

// NewDescriptionParser creates a description parser over the given grammar
func NewDescriptionParser(grammar domain.GrammarParser) *DescriptionParser {
	return &DescriptionParser{grammar: grammar}
}

// ParseDescription returns the first successful grammar parse among the subtexts.
// When nothing matches the result carries no product and no fragments. An error is
// returned only when the grammar failed unexpectedly on every subtext.
func (p *DescriptionParser) ParseDescription(description string) (*domain.ParseResult, error) {
	var (
		attempts int
		failures []error
	)

	for text := range GenerateSubtexts(description) {
		attempts++

		result, err := p.tryParse(text)
		if err == nil && result != nil {
			parsed := *result
			parsed.Description = description
			if parsed.Source == "" {
				parsed.Source = domain.TagGrammar
			}
			return &parsed, nil
		}
		if err == nil || errors.Is(err, domain.ErrNoMatch) {
			continue
		}
		failures = append(failures, err)
	}

	if attempts > 0 && len(failures) == attempts {
		return nil, &domain.DescriptionError{
			Description: description,
			Err:         fmt.Errorf("%w: %w", domain.ErrParseFailure, errors.Join(failures...)),
		}
	}

	return &domain.ParseResult{Description: description, Source: domain.TagGrammar}, nil
}

// tryParse turns a grammar panic into an error for that subtext
func (p *DescriptionParser) tryParse(text string) (result *domain.ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("grammar panicked on %q: %v", text, r)
		}
	}()
	return p.grammar.Parse(text)
}
