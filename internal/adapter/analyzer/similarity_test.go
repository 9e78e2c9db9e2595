package analyzer

import "testing"

func TestJaroWinkler_IdenticalAndDisjoint(t *testing.T) {
	j := NewJaroWinkler()

	if got := j.Similarity("earnings", "earnings"); got != 1 {
		t.Errorf("identical tokens should score 1, got %f", got)
	}
	if got := j.Similarity("call", "xyz"); got != 0 {
		t.Errorf("disjoint tokens should score 0, got %f", got)
	}
}

func TestJaroWinkler_CaseInsensitive(t *testing.T) {
	j := NewJaroWinkler()

	if a, b := j.Similarity("Revenue", "revenue"), 1.0; a != b {
		t.Errorf("case should not matter, got %f", a)
	}
	if a, b := j.Similarity("MARGIN", "margin"), j.Similarity("margin", "margin"); a != b {
		t.Errorf("case should not matter: %f vs %f", a, b)
	}
}

func TestJaroWinkler_TypoTolerance(t *testing.T) {
	j := NewJaroWinkler()

	// A single trailing typo should stay above the matching threshold.
	if got := j.Similarity("earnings", "earningss"); got <= 0.9 {
		t.Errorf("expected near-duplicate to score above 0.9, got %f", got)
	}
	// Unrelated words with some shared letters should fall well below it.
	if got := j.Similarity("margin", "filing"); got > 0.9 {
		t.Errorf("expected unrelated words below 0.9, got %f", got)
	}
}

func TestJaroWinkler_Bounds(t *testing.T) {
	j := NewJaroWinkler()

	pairs := [][2]string{
		{"revenue", "revenues"},
		{"profit", "profits"},
		{"guidance", "guide"},
		{"", "revenue"},
		{"", ""},
	}
	for _, p := range pairs {
		got := j.Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %f out of [0,1]", p[0], p[1], got)
		}
	}
}
