package domain

// Nutrient units as reported by the knowledge service
const (
	NutrientUnitGrams    = "g"
	NutrientUnitCalories = "cal"
)

// Nutrient is a single nutrient amount
type Nutrient struct {
	Amount float64 `json:"amount"`
	Units  string  `json:"units"`
}

// Nutrition maps nutrient names (protein, fat, energy, ...) to amounts.
// Values from the knowledge service are per 100g/ml; scaled values are per ingredient.
type Nutrition map[string]Nutrient
