package analyzer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalize puts text into NFC so precomposed and decomposed accents
// match the same patterns.
func normalize(s string) string {
	return norm.NFC.String(s)
}

// fold returns the NFC, case-folded form of s. A new Caser is built per
// call since Casers carry state and are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(normalize(s))
}

// foldJoin folds and joins parts with a single space.
func foldJoin(parts []string) string {
	return fold(strings.Join(parts, " "))
}
