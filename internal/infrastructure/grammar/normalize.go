package grammar

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fractionSlash is what NFKC turns vulgar fractions into: "½" -> "1⁄2"
const fractionSlash = '⁄'

// Normalize applies compatibility normalization so that vulgar fractions, full-width
// digits and ligatures read as plain ASCII. A vulgar fraction directly after a digit is
// separated from it first, so "1½" becomes "1 1/2" rather than "11/2".
func Normalize(text string) string {
	normalized, _ := normalizeWithOffsets(text)
	return normalized
}

// normalizeWithOffsets normalizes text rune by rune. origin[i] is the byte offset in text
// of the rune that produced byte i of the result; origin[len(result)] is len(text).
func normalizeWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	origin := make([]int, 0, len(text)+1)

	var prev rune
	for i, r := range text {
		if unicode.IsDigit(prev) && isVulgarFraction(r) {
			b.WriteByte(' ')
			origin = append(origin, i)
		}
		s := strings.ReplaceAll(norm.NFKC.String(string(r)), string(fractionSlash), "/")
		b.WriteString(s)
		for range len(s) {
			origin = append(origin, i)
		}
		prev = r
	}

	return b.String(), append(origin, len(text))
}

func isVulgarFraction(r rune) bool {
	if !unicode.Is(unicode.No, r) {
		return false
	}
	return strings.ContainsRune(norm.NFKD.String(string(r)), fractionSlash)
}
