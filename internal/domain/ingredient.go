package domain

// Provenance tags recorded on parsed fields
const (
	TagGrammar   = "ingreedypy"
	TagTagger    = "nyt"
	TagKnowledge = "knowledge-graph"
	TagUnits     = "pint"
)

// Canonical unit symbols per dimensionality
const (
	UnitCentimeters = "cm"
	UnitMilliliters = "ml"
	UnitGrams       = "g"
)

// DefaultLanguage is used when a request does not carry a language tag
const DefaultLanguage = "en"

// QuantityFragment is one atomic quantity mention, e.g. "2 lb" in "2lb 4oz potatoes".
// Amount is nil for bare imprecise units such as "pinch salt".
type QuantityFragment struct {
	Amount *float64 `json:"amount"`
	Unit   string   `json:"unit,omitempty"`
}

// ParseResult is the raw output of one parser for one description
type ParseResult struct {
	Description string             `json:"description"`
	Product     *string            `json:"product"`
	Fragments   []QuantityFragment `json:"quantity_fragments"`
	Source      string             `json:"source"`
}

// HasAmount reports whether any fragment carries an amount
func (r *ParseResult) HasAmount() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Fragments {
		if f.Amount != nil {
			return true
		}
	}
	return false
}

// HasProduct reports whether the parser identified a non-empty product
func (r *ParseResult) HasProduct() bool {
	return r != nil && r.Product != nil && *r.Product != ""
}

// Quantity is a magnitude expressed in a canonical unit. Units is empty for dimensionless values.
type Quantity struct {
	Magnitude float64
	Units     string
}

// Product identifies the product named by a description
type Product struct {
	Product string  `json:"product"`
	Parser  *string `json:"product_parser"`
	ID      *string `json:"id"`
}

// Ingredient is the structured record returned for one description
type Ingredient struct {
	Description     string    `json:"description"`
	Product         Product   `json:"product"`
	Magnitude       *float64  `json:"magnitude"`
	MagnitudeParser *string   `json:"magnitude_parser"`
	Units           *string   `json:"units"`
	UnitsParser     *string   `json:"units_parser"`
	Markup          string    `json:"markup"`
	Nutrition       Nutrition `json:"nutrition"`
	RelativeDensity *float64  `json:"relative_density"`

	// Span is the tracked markup span: the product text wrapped in a <mark> element.
	Span string `json:"-"`
}

// Resolution is the knowledge service's answer for one product name
type Resolution struct {
	Product   string    `json:"product"`
	ID        *string   `json:"id,omitempty"`
	Nutrition Nutrition `json:"nutrition,omitempty"`
	Markup    string    `json:"markup,omitempty"`
}
