package openai

import (
	"strings"
	"unicode"
)

// scrubString strips punctuation from caption text and collapses runs of
// whitespace, so stray markup in a catalog caption never leaks into a
// prompt.
func scrubString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
