package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lower-cases s and joins its ASCII alphanumeric runs with dashes.
func Slugify(parts ...string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(strings.Join(parts, " ")) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.Is(unicode.Mn, r):
			// accents dropped after decomposition
		default:
			dash = true
		}
	}
	return b.String()
}
