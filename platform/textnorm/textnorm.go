// Package textnorm provides text normalization for fuzzy matching.
// This is part of the platform layer and contains no business logic.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases the input, strips diacritics and trims whitespace.
// "Médina" and "medina" fold to the same string.
func Fold(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return ""
	}

	folded, _, err := transform.String(stripAccents, trimmed)
	if err != nil {
		return trimmed
	}

	return folded
}

// ContainsFold reports whether either folded string contains the other.
// Empty inputs never match.
func ContainsFold(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}

	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// EqualFold reports whether two strings are equal after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
