package similarity

import "strings"

// tokenSeparators lists the characters a fully-qualified test/method name is
// split on before computing name-token similarity (spec §4.1).
const tokenSeparators = "._- "

// minTokenLength discards short, low-signal tokens (e.g. "a", "Id") before
// comparing token sets.
const minTokenLength = 2

// Tokenize splits a name on '.', '_', '-', and space, lower-cases each piece,
// and discards tokens of length <= minTokenLength.
func Tokenize(name string) map[string]bool {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return strings.ContainsRune(tokenSeparators, r)
	})
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f) <= minTokenLength {
			continue
		}
		out[strings.ToLower(f)] = true
	}
	return out
}

// NameTokenSimilarity is the unweighted Jaccard similarity of the two names'
// token sets. Two empty token sets are considered identical (1.0); one empty
// and one non-empty set is maximally dissimilar (0.0).
func NameTokenSimilarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	return WeightedJaccard(ta, tb, UnitWeight)
}
