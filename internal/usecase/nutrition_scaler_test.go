package usecase

import (
	"errors"
	"testing"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/infrastructure/units"
)

func TestRelativeDensity(t *testing.T) {
	tests := []struct {
		product string
		want    float64
	}{
		{"plain flour", 0.593},
		{"Caster Sugar", 0.850},
		{"whole milk", 1.030},
		{"double cream", 1.010},
		{"olive oil", 0.900},
		{"unsalted butter", 0.911},
		{"buttermilk", 1.030},
		{"water", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			if got := RelativeDensity(tt.product); got != tt.want {
				t.Errorf("RelativeDensity(%q) = %v, want %v", tt.product, got, tt.want)
			}
		})
	}
}

func TestNutritionScaler_Scale(t *testing.T) {
	scaler := NewNutritionScaler(units.NewRegistry())
	per100 := domain.Nutrition{
		"protein":  {Amount: 10, Units: domain.NutrientUnitGrams},
		"calories": {Amount: 200, Units: domain.NutrientUnitCalories},
	}

	t.Run("scales mass directly", func(t *testing.T) {
		got, density, err := scaler.Scale("rice", floatPtr(250), stringPtr("g"), per100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if density != nil {
			t.Errorf("density = %v, want nil", *density)
		}
		if got["protein"].Amount != 25 || got["protein"].Units != domain.NutrientUnitGrams {
			t.Errorf("protein = %+v, want 25 g", got["protein"])
		}
		if got["calories"].Amount != 500 || got["calories"].Units != domain.NutrientUnitCalories {
			t.Errorf("calories = %+v, want 500 cal", got["calories"])
		}
	})

	t.Run("scales volume by density", func(t *testing.T) {
		got, density, err := scaler.Scale("olive oil", floatPtr(100), stringPtr("ml"), per100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if density == nil || *density != 0.9 {
			t.Errorf("density = %v, want 0.9", density)
		}
		if got["protein"].Amount != 9 {
			t.Errorf("protein = %v, want 9", got["protein"].Amount)
		}
	})

	t.Run("does not modify the per-100 values", func(t *testing.T) {
		if _, _, err := scaler.Scale("rice", floatPtr(50), stringPtr("g"), per100); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if per100["protein"].Amount != 10 {
			t.Errorf("per100 protein = %v, want 10", per100["protein"].Amount)
		}
	})

	t.Run("missing inputs yield no nutrition", func(t *testing.T) {
		cases := []struct {
			name      string
			magnitude *float64
			units     *string
			per100    domain.Nutrition
		}{
			{"no magnitude", nil, stringPtr("g"), per100},
			{"no units", floatPtr(1), nil, per100},
			{"empty units", floatPtr(1), stringPtr(""), per100},
			{"no nutrition", floatPtr(1), stringPtr("g"), nil},
		}
		for _, c := range cases {
			got, density, err := scaler.Scale("rice", c.magnitude, c.units, c.per100)
			if err != nil || got != nil || density != nil {
				t.Errorf("%s: Scale = %v, %v, %v, want nil, nil, nil", c.name, got, density, err)
			}
		}
	})

	t.Run("length is unsupported", func(t *testing.T) {
		_, _, err := scaler.Scale("ginger", floatPtr(5), stringPtr("cm"), per100)
		if !errors.Is(err, domain.ErrUnsupportedUnits) {
			t.Errorf("error = %v, want ErrUnsupportedUnits", err)
		}
	})

	t.Run("unknown unit is unsupported", func(t *testing.T) {
		_, _, err := scaler.Scale("ginger", floatPtr(5), stringPtr("knob"), per100)
		if !errors.Is(err, domain.ErrUnsupportedUnits) {
			t.Errorf("error = %v, want ErrUnsupportedUnits", err)
		}
	})
}
