package usecase

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const (
	spanTag       = "mark"
	ingredientTag = "ingredient"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	entityRegex = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
)

// defaultSpan marks the whole product text
func defaultSpan(product string) string {
	return "<" + spanTag + ">" + textEscaper.Replace(product) + "</" + spanTag + ">"
}

// RenderMarkup renames the <mark> tags of span to <ingredient> and prefixes an
// <amt> annotation holding whichever of quantity and units are present.
// Other tags are copied byte for byte; text is escaped.
func RenderMarkup(span string, magnitude *float64, units *string) (string, error) {
	var b strings.Builder
	b.WriteString(renderAmount(magnitude, units))

	z := html.NewTokenizer(strings.NewReader(span))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("failed to parse markup %q: %w", span, z.Err())
		case html.TextToken:
			b.WriteString(escapeText(string(z.Raw())))
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			if string(name) != spanTag {
				b.WriteString(raw)
				continue
			}
			// the raw tag name sits right after "<" or "</"
			offset := 1
			if tt == html.EndTagToken {
				offset = 2
			}
			b.WriteString(raw[:offset] + ingredientTag + raw[offset+len(spanTag):])
		default:
			b.WriteString(string(z.Raw()))
		}
	}
}

func renderAmount(magnitude *float64, units *string) string {
	var amt strings.Builder
	if magnitude != nil && *magnitude != 0 {
		amt.WriteString("<qty>" + formatAmount(*magnitude) + "</qty>")
	}
	if units != nil && *units != "" {
		amt.WriteString("<unit>" + textEscaper.Replace(*units) + "</unit>")
	}
	if amt.Len() == 0 {
		return ""
	}
	return "<amt>" + amt.String() + "</amt>"
}

// escapeText escapes angle brackets and bare ampersands; character references are kept as written
func escapeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			if n := entityLength(raw[i:]); n > 0 {
				b.WriteString(raw[i : i+n])
				i += n - 1
			} else {
				b.WriteString("&amp;")
			}
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

func entityLength(s string) int {
	ref := entityRegex.FindString(s)
	if ref == "" || html.UnescapeString(ref) == ref {
		return 0
	}
	return len(ref)
}
