package postarch

import (
	"strings"
	"unicode"
)

// Slugify converts a string to a filesystem- and URL-safe slug:
// lowercase ASCII letters and digits, words joined by single hyphens.
// Deterministic: the same input always yields the same slug.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			// Non-ASCII letters and punctuation are dropped. A word
			// consisting only of them collapses into the surrounding
			// hyphen.
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > 100 {
		out = strings.TrimRight(out[:100], "-")
	}
	return out
}
