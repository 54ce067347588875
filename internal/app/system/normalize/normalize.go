// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims whitespace from an address as entered. The display form
// keeps the user's casing; use EmailCI for lookups.
func Email(s string) string {
	return strings.TrimSpace(s)
}

// EmailCI folds an address for case-insensitive matching: trimmed,
// lowercased, diacritics stripped. This is the value stored in the
// directory's unique index.
func EmailCI(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// AuthMethod canonicalizes an auth method name to its stored form.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Digits strips everything but ASCII digits from an identifier as
// typed. Sponsor, child, and center ids are digits-only strings where
// leading zeros are significant, so they never pass through number
// parsing.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
