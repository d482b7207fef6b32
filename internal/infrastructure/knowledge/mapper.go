package knowledge

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ingredient-parser/backend/internal/domain"
)

// Nutrient names the knowledge service reports in calories; everything else is grams
var calorieNutrients = map[string]bool{
	"energy":   true,
	"calories": true,
	"kcal":     true,
}

type queryResponse struct {
	Results map[string]*queryResult `json:"results"`
}

type queryResult struct {
	Product *productResult `json:"product"`
	Query   *queryMarkup   `json:"query"`
}

type productResult struct {
	Product   string             `json:"product"`
	ID        *string            `json:"id"`
	Nutrition map[string]float64 `json:"nutrition"`
}

type queryMarkup struct {
	Markup string `json:"markup"`
}

// mapResolutions converts a service response into resolutions keyed by the requested
// names. Missing names, null entries and entries without a product map to nil.
func mapResolutions(resp queryResponse, names []string) map[string]*domain.Resolution {
	out := make(map[string]*domain.Resolution, len(names))
	for _, name := range names {
		out[name] = mapResolution(resp.Results[name])
	}
	return out
}

func mapResolution(result *queryResult) *domain.Resolution {
	if result == nil || result.Product == nil || result.Product.Product == "" {
		return nil
	}

	resolution := &domain.Resolution{
		Product:   result.Product.Product,
		ID:        result.Product.ID,
		Nutrition: extractNutrition(result.Product.Nutrition),
	}
	if result.Query != nil && marksText(result.Query.Markup) {
		resolution.Markup = result.Query.Markup
	}
	return resolution
}

// marksText reports whether markup has a <mark> element with non-blank text.
// Markup without one would lose the product span, so it is dropped.
func marksText(markup string) bool {
	if markup == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false
	}
	found := false
	doc.Find("mark").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.TrimSpace(s.Text()) != ""
		return !found
	})
	return found
}

// extractNutrition attaches units to per-100 nutrient values
func extractNutrition(values map[string]float64) domain.Nutrition {
	if len(values) == 0 {
		return nil
	}

	nutrition := make(domain.Nutrition, len(values))
	for name, amount := range values {
		units := domain.NutrientUnitGrams
		if calorieNutrients[strings.ToLower(name)] {
			units = domain.NutrientUnitCalories
		}
		nutrition[name] = domain.Nutrient{Amount: amount, Units: units}
	}
	return nutrition
}
