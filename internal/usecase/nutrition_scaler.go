package usecase

import (
	"fmt"
	"strings"

	"github.com/ingredient-parser/backend/internal/domain"
)

// defaultRelativeDensity is used for products without a density entry (water)
const defaultRelativeDensity = 1.0

type densityEntry struct {
	fragment string
	density  float64
}

// relativeDensities is searched in order; the first fragment contained in the product wins
var relativeDensities = []densityEntry{
	{"flour", 0.593},
	{"sugar", 0.850},
	{"milk", 1.030},
	{"cream", 1.010},
	{"oil", 0.900},
	{"butter", 0.911},
}

// RelativeDensity returns the density of a product relative to water
func RelativeDensity(product string) float64 {
	product = strings.ToLower(product)
	for _, entry := range relativeDensities {
		if strings.Contains(product, entry.fragment) {
			return entry.density
		}
	}
	return defaultRelativeDensity
}

// NutritionScaler converts per-100g/ml nutrition into per-ingredient nutrition
type NutritionScaler struct {
	converter domain.UnitConverter
}

// NewNutritionScaler creates a scaler over the shared unit converter
func NewNutritionScaler(converter domain.UnitConverter) *NutritionScaler {
	return &NutritionScaler{converter: converter}
}

// Scale returns nutrition scaled to the ingredient's magnitude, plus the relative density
// used when the magnitude is a volume. Missing magnitude, units or nutrition yield nil
// without error; units that are neither mass nor volume yield ErrUnsupportedUnits.
func (s *NutritionScaler) Scale(product string, magnitude *float64, units *string, per100 domain.Nutrition) (domain.Nutrition, *float64, error) {
	if magnitude == nil || units == nil || *units == "" || len(per100) == 0 {
		return nil, nil, nil
	}

	quantity, err := s.converter.Convert(*magnitude, *units)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedUnits, err)
	}

	var (
		grams   float64
		density *float64
	)
	switch quantity.Units {
	case domain.UnitGrams:
		grams = quantity.Magnitude
	case domain.UnitMilliliters:
		d := RelativeDensity(product)
		grams = quantity.Magnitude * d
		density = &d
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedUnits, *units)
	}

	scaled := make(domain.Nutrition, len(per100))
	for name, nutrient := range per100 {
		scaled[name] = domain.Nutrient{
			Amount: round2(nutrient.Amount * grams / 100),
			Units:  nutrient.Units,
		}
	}
	return scaled, density, nil
}
