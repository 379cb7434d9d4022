package text

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes free text for answer comparison: lower-case,
// drop every rune that is neither alphanumeric nor whitespace, collapse
// whitespace runs to single spaces. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
