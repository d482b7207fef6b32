package usecase

import (
	"regexp"
	"strconv"

	"github.com/ingredient-parser/backend/internal/domain"
)

var digitSequenceRegex = regexp.MustCompile(`\d+`)

// MergeEngine builds an ingredient record from one or two independent parses of the
// same description, picking each field from one of the candidates.
type MergeEngine struct {
	normalizer *QuantityNormalizer
}

// NewMergeEngine creates a merge engine that normalizes the winning quantity
func NewMergeEngine(normalizer *QuantityNormalizer) *MergeEngine {
	return &MergeEngine{normalizer: normalizer}
}

// Merge reconciles candidates a and b; either may be nil. Ties go to a.
func (e *MergeEngine) Merge(description string, a, b *domain.ParseResult) *domain.Ingredient {
	ingredient := &domain.Ingredient{
		Description: description,
		Product:     domain.Product{Product: description},
	}

	if winner := productWinner(a, b); winner != nil {
		ingredient.Product = domain.Product{
			Product: *winner.Product,
			Parser:  stringPtr(winner.Source),
		}
	}
	ingredient.Span = defaultSpan(ingredient.Product.Product)

	winner, loser := quantityWinner(description, a, b)
	if winner == nil {
		return ingredient
	}

	fragments, unitSource := borrowUnit(winner, loser)
	if e.applyQuantity(ingredient, fragments, winner.Source, unitSource) {
		return ingredient
	}
	if loser != nil && len(loser.Fragments) > 0 {
		e.applyQuantity(ingredient, loser.Fragments, loser.Source, loser.Source)
	}
	return ingredient
}

// applyQuantity normalizes fragments onto the record and reports whether it succeeded
func (e *MergeEngine) applyQuantity(ingredient *domain.Ingredient, fragments []domain.QuantityFragment, magnitudeSource, unitSource string) bool {
	quantity, err := e.normalizer.Normalize(fragments)
	if err != nil || quantity == nil {
		return false
	}

	suffix := "+" + domain.TagUnits
	magnitude := quantity.Magnitude
	ingredient.Magnitude = &magnitude
	ingredient.MagnitudeParser = stringPtr(magnitudeSource + suffix)
	ingredient.Units = nil
	ingredient.UnitsParser = nil
	if quantity.Units != "" {
		ingredient.Units = stringPtr(quantity.Units)
		ingredient.UnitsParser = stringPtr(unitSource + suffix)
	}
	return true
}

// productWinner prefers the shorter product; a missing product always loses
func productWinner(a, b *domain.ParseResult) *domain.ParseResult {
	switch {
	case !a.HasProduct() && !b.HasProduct():
		return nil
	case !a.HasProduct():
		return b
	case !b.HasProduct():
		return a
	case len(*a.Product) <= len(*b.Product):
		return a
	default:
		return b
	}
}

// quantityWinner prefers the candidate whose amounts appear as digit sequences in the
// description when the other's do not, and otherwise any candidate with a quantity.
func quantityWinner(description string, a, b *domain.ParseResult) (winner, loser *domain.ParseResult) {
	digits := make(map[string]bool)
	for _, d := range digitSequenceRegex.FindAllString(description, -1) {
		digits[d] = true
	}

	aMatches := amountsInDescription(a, digits)
	bMatches := amountsInDescription(b, digits)
	switch {
	case aMatches && !bMatches:
		return a, b
	case bMatches && !aMatches:
		return b, a
	case a != nil && len(a.Fragments) > 0:
		return a, b
	case b != nil && len(b.Fragments) > 0:
		return b, a
	default:
		return nil, nil
	}
}

func amountsInDescription(candidate *domain.ParseResult, digits map[string]bool) bool {
	if !candidate.HasAmount() {
		return false
	}
	for _, f := range candidate.Fragments {
		if f.Amount != nil && !digits[formatAmount(*f.Amount)] {
			return false
		}
	}
	return true
}

// borrowUnit lends the loser's unit to a winner holding a single unitless amount.
// The resulting pair may combine numbers and units the description never paired.
func borrowUnit(winner, loser *domain.ParseResult) ([]domain.QuantityFragment, string) {
	if loser == nil || len(winner.Fragments) != 1 || winner.Fragments[0].Unit != "" {
		return winner.Fragments, winner.Source
	}
	for _, f := range loser.Fragments {
		if f.Unit != "" {
			return []domain.QuantityFragment{{Amount: winner.Fragments[0].Amount, Unit: f.Unit}}, loser.Source
		}
	}
	return winner.Fragments, winner.Source
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringPtr(s string) *string {
	return &s
}
