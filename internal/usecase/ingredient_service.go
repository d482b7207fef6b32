package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/logger"
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// IngredientServiceConfig holds configuration for the ingredient service
type IngredientServiceConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}

// IngredientService runs the parse, merge, resolve, scale and render pipeline
type IngredientService struct {
	parser    *DescriptionParser
	merger    *MergeEngine
	scaler    *NutritionScaler
	tagger    domain.TaggerClient
	knowledge domain.KnowledgeClient
	cache     domain.CacheRepository
	log       *logger.Logger

	cacheTTL    time.Duration
	concurrency int
}

// IngredientServiceDeps are the collaborators of the ingredient service.
// Tagger, Knowledge and Cache are optional.
type IngredientServiceDeps struct {
	Grammar   domain.GrammarParser
	Converter domain.UnitConverter
	Tagger    domain.TaggerClient
	Knowledge domain.KnowledgeClient
	Cache     domain.CacheRepository
	Log       *logger.Logger
}

// NewIngredientService creates a new ingredient service with dependencies
func NewIngredientService(deps IngredientServiceDeps, config IngredientServiceConfig) *IngredientService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	return &IngredientService{
		parser:      NewDescriptionParser(deps.Grammar),
		merger:      NewMergeEngine(NewQuantityNormalizer(deps.Converter)),
		scaler:      NewNutritionScaler(deps.Converter),
		tagger:      deps.Tagger,
		knowledge:   deps.Knowledge,
		cache:       deps.Cache,
		log:         log.With("component", "ingredient_service"),
		cacheTTL:    cacheTTL,
		concurrency: concurrency,
	}
}

// ParseIngredients returns one ingredient record per description, in order.
// The first description that cannot be parsed fails the whole batch.
func (s *IngredientService) ParseIngredients(ctx context.Context, descriptions []string, language string) ([]*domain.Ingredient, error) {
	if len(descriptions) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if language == "" {
		language = domain.DefaultLanguage
	}

	tagged := s.tag(ctx, descriptions)

	ingredients := make([]*domain.Ingredient, len(descriptions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, description := range descriptions {
		g.Go(func() error {
			// stop early once another description failed or the request is gone
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed, err := s.parser.ParseDescription(description)
			if err != nil {
				return err
			}
			ingredients[i] = s.merger.Merge(description, parsed, tagged[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.resolve(ctx, ingredients, language)

	for _, ingredient := range ingredients {
		s.scaleNutrition(ingredient)

		markup, err := RenderMarkup(ingredient.Span, ingredient.Magnitude, ingredient.Units)
		if err != nil {
			return nil, &domain.DescriptionError{Description: ingredient.Description, Err: err}
		}
		ingredient.Markup = markup
	}

	return ingredients, nil
}

// tag returns the statistical tagger's parses parallel to descriptions; entries are nil
// when the tagger is not configured or its answer cannot be used.
func (s *IngredientService) tag(ctx context.Context, descriptions []string) []*domain.ParseResult {
	tagged := make([]*domain.ParseResult, len(descriptions))
	if s.tagger == nil {
		return tagged
	}

	results, err := s.tagger.Parse(ctx, descriptions)
	if err != nil {
		s.log.Warn("tagger unavailable, using grammar only", "error", err)
		return tagged
	}
	if len(results) != len(descriptions) {
		s.log.Warn("tagger returned mismatched batch", "want", len(descriptions), "got", len(results))
		return tagged
	}
	return results
}

// resolve replaces products with knowledge service resolutions. Any failure of the
// lookup leaves every record as parsed.
func (s *IngredientService) resolve(ctx context.Context, ingredients []*domain.Ingredient, language string) {
	if s.knowledge == nil {
		return
	}

	var names []string
	seen := make(map[string]bool)
	for _, ingredient := range ingredients {
		name := ingredient.Product.Product
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	resolutions := make(map[string]*domain.Resolution, len(names))
	var missing []string
	for _, name := range names {
		if cached, err := s.getFromCache(ctx, generateCacheKey(name, language)); err == nil {
			resolutions[name] = cached
			continue
		}
		missing = append(missing, name)
	}

	if len(missing) > 0 {
		results, err := s.knowledge.Query(ctx, missing, language)
		if err != nil {
			s.log.Warn("knowledge resolution skipped", "error", err, "products", len(missing))
			return
		}
		for _, name := range missing {
			resolution := results[name]
			resolutions[name] = resolution
			if resolution == nil {
				continue
			}
			if err := s.setInCache(ctx, generateCacheKey(name, language), resolution); err != nil {
				s.log.Warn("failed to cache resolution", "product", name, "error", err)
			}
		}
	}

	for _, ingredient := range ingredients {
		resolution := resolutions[ingredient.Product.Product]
		if resolution == nil || resolution.Product == "" {
			continue
		}
		ingredient.Product = domain.Product{
			Product: resolution.Product,
			Parser:  stringPtr(domain.TagKnowledge),
			ID:      resolution.ID,
		}
		ingredient.Nutrition = resolution.Nutrition
		if resolution.Markup != "" {
			ingredient.Span = resolution.Markup
		}
	}
}

// scaleNutrition replaces per-100 nutrition with per-ingredient values. A failure only
// drops the nutrition of that record.
func (s *IngredientService) scaleNutrition(ingredient *domain.Ingredient) {
	scaled, density, err := s.scaler.Scale(ingredient.Product.Product, ingredient.Magnitude, ingredient.Units, ingredient.Nutrition)
	if err != nil {
		s.log.Warn("nutrition not scaled", "description", ingredient.Description, "error", err)
	}
	ingredient.Nutrition = scaled
	ingredient.RelativeDensity = density
}

// generateCacheKey creates a cache key for a product resolution.
// Format: "knowledge:{language}:{normalized_product}"
func generateCacheKey(product, language string) string {
	return fmt.Sprintf("knowledge:%s:%s", language, normalizeForCacheKey(product))
}

// normalizeForCacheKey lowercases and collapses whitespace
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a resolution stored as JSON
func (s *IngredientService) getFromCache(ctx context.Context, key string) (*domain.Resolution, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	encoded, ok := value.(string)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var resolution domain.Resolution
	if err := json.Unmarshal([]byte(encoded), &resolution); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &resolution, nil
}

// setInCache stores a resolution as JSON
func (s *IngredientService) setInCache(ctx context.Context, key string, resolution *domain.Resolution) error {
	if s.cache == nil {
		return nil
	}

	encoded, err := json.Marshal(resolution)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, string(encoded), s.cacheTTL)
}
