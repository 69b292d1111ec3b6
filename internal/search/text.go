// Package search builds the facet/search view over portfolio items:
// per-item index records, weighted free-text scoring with highlights,
// facet filters, and distribution stats.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SearchableText flattens the given parts into one lowercase,
// punctuation-stripped, whitespace-collapsed string. Accented characters
// are decomposed and their combining marks dropped so "café" matches
// "cafe". Non-Latin scripts pass through untouched.
func SearchableText(parts ...string) string {
	s := strings.Join(parts, " ")

	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)

	// Collapse whitespace and trim.
	return strings.Join(strings.Fields(s), " ")
}
