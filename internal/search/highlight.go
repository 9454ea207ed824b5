package search

import (
	"strings"
	"unicode"
)

// Span is a byte range [Start, End) of a matched substring.
type Span struct {
	Start, End int
}

// Highlights returns the non-overlapping, case-insensitive occurrences of query
// in text, left to right. Expression queries and blank queries highlight
// nothing.
func Highlights(text, query string) []Span {
	q := strings.TrimSpace(query)
	if q == "" || text == "" || strings.HasPrefix(q, ExprPrefix) {
		return nil
	}
	needle := []rune(strings.ToLower(q))

	// byte offset of every rune, plus the end of text
	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		runes = append(runes, unicode.ToLower(r))
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	var spans []Span
	for i := 0; i+len(needle) <= len(runes); {
		if equalRunes(runes[i:i+len(needle)], needle) {
			spans = append(spans, Span{Start: offsets[i], End: offsets[i+len(needle)]})
			i += len(needle)
			continue
		}
		i++
	}
	return spans
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Split cuts text at the spans, returning alternating plain and matched
// segments starting with a plain one (possibly empty).
func Split(text string, spans []Span) []string {
	if len(spans) == 0 {
		return []string{text}
	}
	out := make([]string, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) {
			continue
		}
		out = append(out, text[pos:s.Start], text[s.Start:s.End])
		pos = s.End
	}
	return append(out, text[pos:])
}
