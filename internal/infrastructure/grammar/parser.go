// Package grammar implements the ingredient line grammar:
//
//	ingredient = { quantity break } [ "," ] [ "of" ] product
//	quantity   = amount [ unit ] | [ "a" | "an" ] imprecise-unit
//	amount     = mixed-number | fraction | decimal | number-word
//
// A quantity must be followed by whitespace, a comma or the end of the text, and the
// product must start with a letter or digit; anything else does not match.
package grammar

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ingredient-parser/backend/internal/domain"
)

var (
	mixedNumberRegex = regexp.MustCompile(`^(\d+)(?:\s+|-)(\d+)/(\d+)`)
	fractionRegex    = regexp.MustCompile(`^(\d+)/(\d+)`)
	decimalRegex     = regexp.MustCompile(`^(?:\d*\.\d+|\d+)`)
	wordRegex        = regexp.MustCompile(`(?i)^[a-z]+`)
)

var numberWords = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "dozen": 12,
}

// imprecise units may appear without an amount ("pinch of salt")
var impreciseUnits = map[string]string{
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"handful": "handful", "handfuls": "handful",
	"touch": "touch",
}

type lexeme struct {
	spelling  string
	name      string
	imprecise bool
}

// Parser parses ingredient lines. It is safe for concurrent use.
type Parser struct {
	lexemes []lexeme
}

// New creates a parser recognising the given unit spellings (spelling -> unit name)
// in addition to the imprecise units.
func New(lexicon map[string]string) *Parser {
	lexemes := make([]lexeme, 0, len(lexicon)+len(impreciseUnits))
	for spelling, name := range lexicon {
		lexemes = append(lexemes, lexeme{spelling: spelling, name: name})
	}
	for spelling, name := range impreciseUnits {
		lexemes = append(lexemes, lexeme{spelling: spelling, name: name, imprecise: true})
	}

	// longest spelling first so "fl oz" wins over "fl" and "inch" over "in"
	sort.Slice(lexemes, func(i, j int) bool {
		if len(lexemes[i].spelling) != len(lexemes[j].spelling) {
			return len(lexemes[i].spelling) > len(lexemes[j].spelling)
		}
		return lexemes[i].spelling < lexemes[j].spelling
	})

	return &Parser{lexemes: lexemes}
}

// Parse extracts the product and quantity fragments from text.
// Quantities are read from the normalized text; the product is cut from text as written.
// It returns domain.ErrNoMatch when the text does not follow the grammar.
func (p *Parser) Parse(text string) (*domain.ParseResult, error) {
	normalized, origin := normalizeWithOffsets(text)
	rest := strings.TrimLeftFunc(normalized, unicode.IsSpace)
	if strings.TrimSpace(rest) == "" {
		return nil, domain.ErrNoMatch
	}

	var fragments []domain.QuantityFragment
	for {
		fragment, n, ok, err := p.quantity(rest)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		fragments = append(fragments, fragment)
		rest = strings.TrimLeftFunc(rest[n:], unicode.IsSpace)
	}

	if len(fragments) > 0 {
		rest = trimSeparators(rest)
	}

	first, _ := utf8.DecodeRuneInString(rest)
	if strings.TrimSpace(rest) == "" || !(unicode.IsLetter(first) || unicode.IsDigit(first)) {
		return nil, domain.ErrNoMatch
	}

	// rest is always a suffix of normalized
	product := strings.TrimSpace(text[origin[len(normalized)-len(rest)]:])

	return &domain.ParseResult{
		Description: text,
		Product:     &product,
		Fragments:   fragments,
		Source:      domain.TagGrammar,
	}, nil
}

// quantity reads one quantity fragment at the start of s and returns the number of bytes consumed
func (p *Parser) quantity(s string) (domain.QuantityFragment, int, bool, error) {
	amount, n, hasAmount, article := parseAmount(s)

	end := n
	var unit string
	if hasAmount {
		gap := len(s[n:]) - len(strings.TrimLeftFunc(s[n:], unicode.IsSpace))
		if lx, m, ok := p.unit(s[n+gap:]); ok {
			unit = lx.name
			end = n + gap + m
		} else if article {
			// "a" and "an" only count as an amount in front of a unit
			return domain.QuantityFragment{}, 0, false, nil
		}
	} else {
		lx, m, ok := p.unit(s)
		if !ok || !lx.imprecise {
			return domain.QuantityFragment{}, 0, false, nil
		}
		unit = lx.name
		end = m
	}

	if end < len(s) {
		next, _ := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsSpace(next) && next != ',' {
			return domain.QuantityFragment{}, 0, false, domain.ErrNoMatch
		}
	}

	fragment := domain.QuantityFragment{Unit: unit}
	if hasAmount {
		fragment.Amount = &amount
	}
	return fragment, end, true, nil
}

// unit matches the longest unit spelling at the start of s
func (p *Parser) unit(s string) (lexeme, int, bool) {
	for _, lx := range p.lexemes {
		n := len(lx.spelling)
		if len(s) < n || !strings.EqualFold(s[:n], lx.spelling) || !unitBoundary(s[n:]) {
			continue
		}
		// abbreviations may carry a period: "tbsp."
		if strings.HasPrefix(s[n:], ".") && unitBoundary(s[n+1:]) {
			n++
		}
		return lx, n, true
	}
	return lexeme{}, 0, false
}

func unitBoundary(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r) || unicode.IsDigit(r) || strings.ContainsRune(",./()", r)
}

// parseAmount reads a numeric amount at the start of s. article reports "a"/"an".
func parseAmount(s string) (amount float64, n int, ok bool, article bool) {
	if m := mixedNumberRegex.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		if frac, ok := ratio(m[2], m[3]); ok {
			return whole + frac, len(m[0]), true, false
		}
		return 0, 0, false, false
	}
	if m := fractionRegex.FindStringSubmatch(s); m != nil {
		if frac, ok := ratio(m[1], m[2]); ok {
			return frac, len(m[0]), true, false
		}
		return 0, 0, false, false
	}
	if m := decimalRegex.FindString(s); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, 0, false, false
		}
		return v, len(m), true, false
	}

	match := wordRegex.FindString(s)
	if match == "" || !wordBoundary(s[len(match):]) {
		return 0, 0, false, false
	}
	word := strings.ToLower(match)
	if word == "a" || word == "an" {
		return 1, len(match), true, true
	}
	if v, found := numberWords[word]; found {
		return v, len(match), true, false
	}
	return 0, 0, false, false
}

func wordBoundary(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func ratio(numerator, denominator string) (float64, bool) {
	num, err := strconv.ParseFloat(numerator, 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(denominator, 64)
	if err != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// trimSeparators drops the comma and "of" between the quantities and the product
func trimSeparators(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimPrefix(s, ",")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(s) > 3 && strings.EqualFold(s[:2], "of") && unicode.IsSpace(rune(s[2])) {
		s = strings.TrimLeftFunc(s[2:], unicode.IsSpace)
	}
	return s
}
