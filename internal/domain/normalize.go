package domain

import "strings"

// NormalizeText folds a term for case-insensitive matching: surrounding
// whitespace is dropped, inner whitespace runs collapse to one space and
// letters are lower-cased. Diacritics, hyphens and apostrophes are kept.
// Stores persist the folded form next to the source term so prefix scans
// can run on it.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
