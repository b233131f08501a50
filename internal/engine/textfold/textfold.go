// Package textfold folds text for accent- and case-insensitive matching.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize removes diacritics and lowercases s, so "Zürich" matches "zurich".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// Words splits a normalized query into match terms.
func Words(s string) []string {
	return strings.Fields(Normalize(s))
}

// ContainsAll reports whether every word occurs in the normalized haystack.
func ContainsAll(haystack string, words []string) bool {
	h := Normalize(haystack)
	for _, w := range words {
		if !strings.Contains(h, w) {
			return false
		}
	}
	return true
}
