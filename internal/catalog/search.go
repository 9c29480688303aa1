package catalog

import (
	"strings"
	"unicode/utf8"

	"gadgetshelf/internal/domain"
)

const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Query is the search box: a term and the product field it targets.
type Query struct {
	Term  string
	Field domain.SearchField
}

func (q Query) term() string { return strings.TrimSpace(q.Term) }

func (q Query) active() bool {
	return q.term() != "" && q.Field != domain.FieldUndefined
}

func (q Query) Matches(p domain.Product) bool {
	if !q.active() {
		return true
	}
	var text string
	switch q.Field {
	case domain.FieldBrand:
		text = p.Brand
	case domain.FieldDescription:
		text = p.ProductDescription
	case domain.FieldType:
		text = p.ProductType.String()
	default:
		return true
	}
	start, _ := indexFold(text, q.term())
	return start >= 0
}

// Apply keeps the matching products in their original order.
func (q Query) Apply(ps []domain.Product) []domain.Product {
	if !q.active() {
		return ps
	}
	return Keep(ps, q.Matches)
}

func (q Query) HighlightBrand(text string) string {
	return q.highlight(domain.FieldBrand, text)
}

func (q Query) HighlightDescription(text string) string {
	return q.highlight(domain.FieldDescription, text)
}

func (q Query) HighlightType(text string) string {
	return q.highlight(domain.FieldType, text)
}

// highlight marks the first occurrence only.
func (q Query) highlight(field domain.SearchField, text string) string {
	if text == "" || q.Field != field || !q.active() {
		return text
	}
	start, end := indexFold(text, q.term())
	if start < 0 {
		return text
	}
	return text[:start] + MarkOpen + text[start:end] + MarkClose + text[end:]
}

func (q Query) Placeholder() string {
	switch q.Field {
	case domain.FieldBrand:
		return "Search Brands..."
	case domain.FieldDescription:
		return "Search Descriptions..."
	case domain.FieldType:
		return "Search Types..."
	default:
		return "Search..."
	}
}

// indexFold returns the byte span of the first case-insensitive occurrence
// of sub in s, or -1, -1. Matching is rune by rune so folded forms with a
// different byte length still line up with the original text.
func indexFold(s, sub string) (int, int) {
	if sub == "" {
		return 0, 0
	}
	for i := 0; i < len(s); {
		if end, ok := prefixFold(s[i:], sub); ok {
			return i, i + end
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

func prefixFold(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[n:])
		if !strings.EqualFold(string(sr), string(pr)) {
			return 0, false
		}
		n += size
	}
	return n, true
}
