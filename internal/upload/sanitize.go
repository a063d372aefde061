package upload

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sanitize turns a client supplied filename into a safe single path element.
// Accents are folded to ASCII, separators and whitespace become underscores,
// anything outside [A-Za-z0-9_.-] is dropped and leading/trailing dots and
// underscores are trimmed.
func Sanitize(name string) string {
	var b strings.Builder

	underscore := false
	for _, r := range norm.NFKD.String(name) {
		switch {
		case r == '/' || r == '\\' || unicode.IsSpace(r):
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
			continue
		case r > unicode.MaxASCII:
			continue
		case isSafe(r):
			b.WriteRune(r)
		default:
			continue
		}
		underscore = false
	}

	return strings.Trim(b.String(), "._")
}

func isSafe(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '.' || r == '-'
}
