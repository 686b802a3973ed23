package similarity

import "github.com/agnivade/levenshtein"

// Distance wraps the pack's Levenshtein implementation so callers never
// import it directly; used for name validation suggestions (C7).
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// NormalizedDistance maps the raw edit distance to a [0,1] similarity score
// against the longer of the two strings. Two empty strings are identical.
func NormalizedDistance(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	d := Distance(a, b)
	sim := 1.0 - float64(d)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}
