package utils

import (
	"strings"
	"unicode"
)

// CleanText drops icon-font glyphs (private use code points) and control
// characters, then collapses runs of whitespace.
func CleanText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.In(r, unicode.Co):
			return ' '
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}
