package usecase

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GenerateSubtexts yields the rewrites of a description to try, in priority order:
//
//  1. the description itself
//  2. for dual-unit notation ("1kg/2lb 4oz potatoes"), the prefix amount joined with the
//     suffix minus its leading quantities ("1kg potatoes"), then the suffix alone
//  3. the description without commas
//
// The sequence is finite and can be ranged over any number of times.
func GenerateSubtexts(description string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(description) {
			return
		}

		if prefix, suffix, found := strings.Cut(description, "/"); found {
			if prefix != "" {
				rest := dropLeadingQuantities(strings.Split(suffix, " "))
				if !yield(prefix + " " + strings.Join(rest, " ")) {
					return
				}
			}
			if !yield(suffix) {
				return
			}
		}

		yield(strings.ReplaceAll(description, ",", ""))
	}
}

// dropLeadingQuantities removes the first token and every quantity token after it.
// A bare number also takes the word that follows it as its unit: "2 lb 4 oz".
func dropLeadingQuantities(tokens []string) []string {
	i := 0
	for i < len(tokens) && (i == 0 || startsWithNumber(tokens[i])) {
		bare := isNumber(tokens[i])
		i++
		if bare && i < len(tokens) && !startsWithNumber(tokens[i]) {
			i++
		}
	}
	return tokens[i:]
}

func startsWithNumber(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsNumber(r)
}

func isNumber(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsNumber(r) && !strings.ContainsRune("./-", r) {
			return false
		}
	}
	return true
}
