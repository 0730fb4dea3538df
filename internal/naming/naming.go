// Package naming holds the identifier casing rules of the target language.
package naming

import (
	"strings"
	"unicode"
)

// Kebab converts a camelCase identifier to kebab-case: every upper-case
// letter after the first position starts a new hyphen-separated segment.
// Names made only of upper-case letters, digits and underscores (constants
// such as MAX_SUPPLY) are returned unchanged.
func Kebab(name string) string {
	if isConstantCase(name) {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range []rune(name) {
		if unicode.IsUpper(r) {
			if i != 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isConstantCase(name string) bool {
	for _, r := range name {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
