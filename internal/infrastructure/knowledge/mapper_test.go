package knowledge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingredient-parser/backend/internal/domain"
)

func TestMapResolutions(t *testing.T) {
	var resp queryResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"results": {
			"olive oil": {"product": {"product": "olive oil", "nutrition": {"fat": 100, "Calories": 884}}},
			"water": {"product": {"product": "water"}, "query": {"markup": "<mark>water</mark>"}},
			"blank": {"product": {"product": ""}},
			"no product": {"query": {"markup": "<mark>x</mark>"}},
			"null": null
		}
	}`), &resp))

	got := mapResolutions(resp, []string{"olive oil", "water", "blank", "no product", "null", "absent"})

	require.Len(t, got, 6)

	oil := got["olive oil"]
	require.NotNil(t, oil)
	assert.Nil(t, oil.ID)
	assert.Empty(t, oil.Markup)
	assert.Equal(t, domain.NutrientUnitGrams, oil.Nutrition["fat"].Units)
	assert.Equal(t, domain.Nutrient{Amount: 884, Units: domain.NutrientUnitCalories}, oil.Nutrition["Calories"])

	water := got["water"]
	require.NotNil(t, water)
	assert.Nil(t, water.Nutrition)
	assert.Equal(t, "<mark>water</mark>", water.Markup)

	for _, name := range []string{"blank", "no product", "null", "absent"} {
		assert.Nil(t, got[name], name)
	}
}

func TestExtractNutrition(t *testing.T) {
	assert.Nil(t, extractNutrition(nil))
	assert.Equal(t, domain.Nutrition{
		"kcal":    {Amount: 52, Units: domain.NutrientUnitCalories},
		"protein": {Amount: 0.3, Units: domain.NutrientUnitGrams},
	}, extractNutrition(map[string]float64{"kcal": 52, "protein": 0.3}))
}

func TestMapResolution_DropsMarkupWithoutMark(t *testing.T) {
	resolution := mapResolution(&queryResult{
		Product: &productResult{Product: "beef"},
		Query:   &queryMarkup{Markup: "beef mince"},
	})
	require.NotNil(t, resolution)
	assert.Equal(t, "beef", resolution.Product)
	assert.Empty(t, resolution.Markup)
}

func TestMarksText(t *testing.T) {
	tests := []struct {
		markup string
		want   bool
	}{
		{"<mark>beef</mark> mince", true},
		{"ground <mark>beef</mark>", true},
		{"<mark> </mark><mark>salt</mark>", true},
		{"<MARK>salt</MARK>", true},
		{"<mark>  </mark> salt", false},
		{"beef mince", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, tt.want, marksText(tt.markup))
		})
	}
}
