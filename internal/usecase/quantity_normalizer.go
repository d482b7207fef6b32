package usecase

import (
	"fmt"
	"math"

	"github.com/ingredient-parser/backend/internal/domain"
)

// pinchGrams is the mass of one pinch. The unit table has no pinch, so it is
// converted here before the registry is consulted.
const pinchGrams = 0.35

// QuantityNormalizer sums quantity fragments into one canonical magnitude and unit
type QuantityNormalizer struct {
	converter domain.UnitConverter
}

// NewQuantityNormalizer creates a normalizer over the shared unit converter
func NewQuantityNormalizer(converter domain.UnitConverter) *QuantityNormalizer {
	return &QuantityNormalizer{converter: converter}
}

// Normalize converts every fragment to its canonical unit and sums them.
// It returns nil without error when there are no fragments, and an error when any
// fragment fails to convert or the fragments have different dimensionalities.
func (n *QuantityNormalizer) Normalize(fragments []domain.QuantityFragment) (*domain.Quantity, error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	var total *domain.Quantity
	for _, fragment := range fragments {
		q, err := n.convert(fragment)
		if err != nil {
			return nil, err
		}
		if total == nil {
			total = &q
			continue
		}
		if q.Units != total.Units {
			return nil, fmt.Errorf("%w: %q and %q", domain.ErrIncompatibleUnits, total.Units, q.Units)
		}
		total.Magnitude += q.Magnitude
	}

	if total.Magnitude != 0 && total.Units != "" {
		total.Magnitude = round2(total.Magnitude)
	}
	return total, nil
}

func (n *QuantityNormalizer) convert(fragment domain.QuantityFragment) (domain.Quantity, error) {
	if fragment.Unit == "pinch" {
		amount := 1.0
		if fragment.Amount != nil {
			amount = *fragment.Amount
		}
		return n.converter.Convert(amount*pinchGrams, domain.UnitGrams)
	}

	if fragment.Amount == nil {
		return domain.Quantity{}, fmt.Errorf("%w: %q has no amount", domain.ErrUnknownUnit, fragment.Unit)
	}
	return n.converter.Convert(*fragment.Amount, fragment.Unit)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
