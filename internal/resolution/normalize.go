// Package resolution matches recorded predictions against settlement outcomes.
package resolution

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// OtherSentinel is the normalized label of the catch-all side of a market that was
// collapsed from multi-way into "this option" vs "other".
const OtherSentinel = "other"

// NormalizeLabel canonicalizes an outcome label for comparison: NFC composition,
// surrounding whitespace removed, lower case.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(norm.NFC.String(label))
	if label == "" {
		return ""
	}
	// Casers hold state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(label)
}

// SameLabel reports whether two labels are equal after normalization
func SameLabel(a, b string) bool {
	return NormalizeLabel(a) == NormalizeLabel(b)
}
