package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, drops control characters, and caps the result
// at maxRunes characters when maxRunes is positive. Names and references may
// carry non-ASCII text, so the cap counts runes rather than bytes.
func SanitizeString(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxRunes <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxRunes {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxRunes]))
}
