package analyzer

import "strings"

// JaroWinkler computes Jaro-Winkler similarity between two tokens, used as
// the typo-tolerance fallback in keyword matching. Scores are in [0,1];
// comparison is case-insensitive.
type JaroWinkler struct{}

// NewJaroWinkler creates a new Jaro-Winkler scorer.
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{}
}

// Similarity returns the Jaro-Winkler similarity of a and b.
func (j *JaroWinkler) Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	jaro := jaroSimilarity(a, b)
	if jaro == 0 {
		return 0
	}

	// Winkler prefix bonus: up to 4 leading characters in common.
	prefix := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}

	const scaling = 0.1
	return jaro + float64(prefix)*scaling*(1-jaro)
}

func jaroSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	window := maxInt(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		lo := maxInt(0, i-window)
		hi := minInt(lb-1, i+window)
		for k := lo; k <= hi; k++ {
			if bMatched[k] || a[i] != b[k] {
				continue
			}
			aMatched[i] = true
			bMatched[k] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions among matched characters.
	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
