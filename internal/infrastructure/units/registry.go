package units

import (
	"fmt"
	"strings"

	"github.com/ingredient-parser/backend/internal/domain"
)

// Dimension is the physical kind of a unit
type Dimension int

const (
	Dimensionless Dimension = iota
	Length
	Volume
	Mass
)

// Canonical unit symbols per dimensionality
const (
	SymbolLength = domain.UnitCentimeters
	SymbolVolume = domain.UnitMilliliters
	SymbolMass   = domain.UnitGrams
)

func (d Dimension) String() string {
	switch d {
	case Length:
		return "length"
	case Volume:
		return "volume"
	case Mass:
		return "mass"
	default:
		return "dimensionless"
	}
}

// Symbol returns the canonical unit symbol for the dimension, empty when dimensionless
func (d Dimension) Symbol() string {
	switch d {
	case Length:
		return SymbolLength
	case Volume:
		return SymbolVolume
	case Mass:
		return SymbolMass
	default:
		return ""
	}
}

type definition struct {
	dimension Dimension
	factor    float64 // size of one unit in the canonical unit
}

// US customary definitions, expressed in grams, milliliters and centimeters
var definitions = map[string]definition{
	"gram":      {Mass, 1},
	"kilogram":  {Mass, 1000},
	"milligram": {Mass, 0.001},
	"pound":     {Mass, 453.59237},
	"ounce":     {Mass, 453.59237 / 16},

	"milliliter":  {Volume, 1},
	"centiliter":  {Volume, 10},
	"deciliter":   {Volume, 100},
	"liter":       {Volume, 1000},
	"teaspoon":    {Volume, 4.92892159375},
	"tablespoon":  {Volume, 14.78676478125},
	"fluid ounce": {Volume, 29.5735295625},
	"cup":         {Volume, 236.5882365},
	"pint":        {Volume, 473.176473},
	"quart":       {Volume, 946.352946},
	"gallon":      {Volume, 3785.411784},

	"millimeter": {Length, 0.1},
	"centimeter": {Length, 1},
	"meter":      {Length, 100},
	"inch":       {Length, 2.54},
	"foot":       {Length, 30.48},
}

// aliases maps spellings, abbreviations and plurals to unit names
var aliases = map[string][]string{
	"gram":        {"g", "gr", "grs", "gram", "grams", "gramme", "grammes"},
	"kilogram":    {"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "kilogramme", "kilogrammes"},
	"milligram":   {"mg", "milligram", "milligrams"},
	"pound":       {"lb", "lbs", "pound", "pounds"},
	"ounce":       {"oz", "ounce", "ounces"},
	"milliliter":  {"ml", "mls", "milliliter", "milliliters", "millilitre", "millilitres"},
	"centiliter":  {"cl", "centiliter", "centiliters", "centilitre", "centilitres"},
	"deciliter":   {"dl", "deciliter", "deciliters", "decilitre", "decilitres"},
	"liter":       {"l", "liter", "liters", "litre", "litres"},
	"teaspoon":    {"tsp", "tsps", "teaspoon", "teaspoons"},
	"tablespoon":  {"tbsp", "tbsps", "tbs", "tbl", "tablespoon", "tablespoons"},
	"fluid ounce": {"fl oz", "floz", "fluid ounce", "fluid ounces"},
	"cup":         {"c", "cup", "cups"},
	"pint":        {"pt", "pint", "pints"},
	"quart":       {"qt", "quart", "quarts"},
	"gallon":      {"gal", "gallon", "gallons"},
	"millimeter":  {"mm", "millimeter", "millimeters", "millimetre", "millimetres"},
	"centimeter":  {"cm", "centimeter", "centimeters", "centimetre", "centimetres"},
	"meter":       {"meter", "meters", "metre", "metres"},
	"inch":        {"in", "inch", "inches"},
	"foot":        {"ft", "foot", "feet"},
}

// Registry is the process-wide unit table. It is read-only after NewRegistry.
type Registry struct {
	names map[string]string
}

// NewRegistry builds the unit registry
func NewRegistry() *Registry {
	names := make(map[string]string)
	for name, spellings := range aliases {
		names[name] = name
		for _, s := range spellings {
			names[s] = name
		}
	}
	return &Registry{names: names}
}

// Lexicon returns every known spelling mapped to its unit name
func (r *Registry) Lexicon() map[string]string {
	out := make(map[string]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

// Lookup resolves a unit spelling to its dimension and canonical factor
func (r *Registry) Lookup(unit string) (Dimension, float64, bool) {
	name, ok := r.names[normalize(unit)]
	if !ok {
		return Dimensionless, 0, false
	}
	def := definitions[name]
	return def.dimension, def.factor, true
}

// Convert converts amount of unit into the canonical unit of its dimensionality.
// An empty unit is dimensionless and returned unchanged.
func (r *Registry) Convert(amount float64, unit string) (domain.Quantity, error) {
	if strings.TrimSpace(unit) == "" {
		return domain.Quantity{Magnitude: amount}, nil
	}

	dim, factor, ok := r.Lookup(unit)
	if !ok {
		return domain.Quantity{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, unit)
	}

	return domain.Quantity{
		Magnitude: amount * factor,
		Units:     dim.Symbol(),
	}, nil
}

func normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, ".")
	return strings.Join(strings.Fields(u), " ")
}
