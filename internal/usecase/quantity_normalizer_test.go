package usecase

import (
	"errors"
	"testing"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/infrastructure/units"
)

func TestQuantityNormalizer_Normalize(t *testing.T) {
	normalizer := NewQuantityNormalizer(units.NewRegistry())

	tests := []struct {
		name      string
		fragments []domain.QuantityFragment
		magnitude float64
		units     string
	}{
		{"kilogram to grams", []domain.QuantityFragment{{Amount: floatPtr(1), Unit: "kilogram"}}, 1000, "g"},
		{"pounds and ounces sum", []domain.QuantityFragment{
			{Amount: floatPtr(2), Unit: "lb"},
			{Amount: floatPtr(4), Unit: "oz"},
		}, 1020.58, "g"},
		{"bare pinch", []domain.QuantityFragment{{Unit: "pinch"}}, 0.35, "g"},
		{"two pinches", []domain.QuantityFragment{{Amount: floatPtr(2), Unit: "pinch"}}, 0.7, "g"},
		{"teaspoon rounds to two places", []domain.QuantityFragment{{Amount: floatPtr(1), Unit: "tsp"}}, 4.93, "ml"},
		{"inches to centimeters", []domain.QuantityFragment{{Amount: floatPtr(2), Unit: "in"}}, 5.08, "cm"},
		{"dimensionless is not rounded", []domain.QuantityFragment{{Amount: floatPtr(1.0 / 3)}}, 1.0 / 3, ""},
		{"zero", []domain.QuantityFragment{{Amount: floatPtr(0), Unit: "g"}}, 0, "g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizer.Normalize(tt.fragments)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Magnitude != tt.magnitude {
				t.Errorf("magnitude = %v, want %v", got.Magnitude, tt.magnitude)
			}
			if got.Units != tt.units {
				t.Errorf("units = %q, want %q", got.Units, tt.units)
			}
		})
	}

	t.Run("no fragments", func(t *testing.T) {
		got, err := normalizer.Normalize(nil)
		if err != nil || got != nil {
			t.Errorf("Normalize(nil) = %v, %v, want nil, nil", got, err)
		}
	})

	t.Run("mixed dimensionalities abort", func(t *testing.T) {
		_, err := normalizer.Normalize([]domain.QuantityFragment{
			{Amount: floatPtr(1), Unit: "cup"},
			{Amount: floatPtr(2), Unit: "oz"},
		})
		if !errors.Is(err, domain.ErrIncompatibleUnits) {
			t.Errorf("error = %v, want ErrIncompatibleUnits", err)
		}
	})

	t.Run("unknown unit aborts", func(t *testing.T) {
		_, err := normalizer.Normalize([]domain.QuantityFragment{
			{Amount: floatPtr(1), Unit: "kg"},
			{Amount: floatPtr(1), Unit: "handful"},
		})
		if !errors.Is(err, domain.ErrUnknownUnit) {
			t.Errorf("error = %v, want ErrUnknownUnit", err)
		}
	})

	t.Run("missing amount on a measured unit aborts", func(t *testing.T) {
		_, err := normalizer.Normalize([]domain.QuantityFragment{{Unit: "dash"}})
		if !errors.Is(err, domain.ErrUnknownUnit) {
			t.Errorf("error = %v, want ErrUnknownUnit", err)
		}
	})
}
