package textutil

// Trigrams returns the distinct word-padded 3-grams of text.
func Trigrams(text string) map[string]struct{} {
	words := Words(text)
	set := make(map[string]struct{}, len(words)*4)
	for _, word := range words {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// Similarity returns the trigram Jaccard similarity of a and b in [0, 1].
// Returns 0 when either side has no trigrams.
func Similarity(a, b string) float64 {
	return SetSimilarity(Trigrams(a), Trigrams(b))
}

// SetSimilarity scores two precomputed trigram sets. Callers that compare one
// term against many titles compute the term set once.
func SetSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for gram := range small {
		if _, ok := large[gram]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
