package match

import (
	"strings"
	"unicode"
)

// Normalize folds a name for fuzzy matching: CamelCase boundaries and the
// separators '_', '-' and ' ' are dropped and everything is lower-cased, so
// "JUnitPatterns", "junit-patterns" and "junit_patterns" all normalize to
// "junitpatterns".
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
