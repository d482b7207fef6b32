package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// GrammarParser extracts a product and quantity fragments from one line of text.
// Implementations return ErrNoMatch when no grammar rule matches.
type GrammarParser interface {
	Parse(text string) (*ParseResult, error)
}

// UnitConverter converts an amount in a named unit into its canonical unit.
// The canonical unit is unique per dimensionality, so equal Units means compatible.
type UnitConverter interface {
	Convert(amount float64, unit string) (Quantity, error)
}

// KnowledgeClient resolves product names against the knowledge service in one batch.
// Unresolved names map to nil.
type KnowledgeClient interface {
	Query(ctx context.Context, names []string, language string) (map[string]*Resolution, error)
}

// TaggerClient submits a batch of descriptions to the statistical ingredient tagger.
// Results are parallel to the input.
type TaggerClient interface {
	Parse(ctx context.Context, descriptions []string) ([]*ParseResult, error)
}
