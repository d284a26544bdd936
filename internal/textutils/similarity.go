// Package textutils provides the text normalization and similarity helpers
// used to break ties between candidate rows.
package textutils

import (
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Normalize lower-cases s, trims it and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

// Similarity returns a case-insensitive ratio in [0,1] based on the longest
// common subsequence of a and b: 2*LCS/(len(a)+len(b)). Two empty strings
// are identical.
func Similarity(a, b string) float64 {
	ra, rb := []rune(Normalize(a)), []rune(Normalize(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return levenshtein.RatioForStrings(ra, rb, levenshtein.DefaultOptions)
}

// MostSimilar returns the index of the candidate most similar to text. Ties
// go to the earliest candidate; -1 is returned for an empty list.
func MostSimilar(text string, candidates []string) int {
	best, bestScore := -1, -1.0
	for i, c := range candidates {
		if score := Similarity(text, c); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// TrimLabel drops the first n runes of a "Label: value" cell and trims the
// remainder.
func TrimLabel(cell string, n int) string {
	r := []rune(cell)
	if len(r) <= n {
		return ""
	}
	return strings.TrimSpace(string(r[n:]))
}
