package analyzer

import "testing"

func TestPorterStemmer_CommonForms(t *testing.T) {
	s := NewPorterStemmer()

	tests := []struct {
		word string
		stem string
	}{
		{"earnings", "earn"},
		{"earning", "earn"},
		{"running", "run"},
		{"mentioned", "mention"},
		{"estimates", "estim"},
		{"calls", "call"},
	}

	for _, tt := range tests {
		if got := s.Stem(tt.word); got != tt.stem {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.stem)
		}
	}
}

func TestPorterStemmer_Deterministic(t *testing.T) {
	s := NewPorterStemmer()

	words := []string{"nationalization", "conference", "profitability", "regulatory"}
	for _, w := range words {
		first := s.Stem(w)
		for i := 0; i < 10; i++ {
			if got := s.Stem(w); got != first {
				t.Fatalf("Stem(%q) not deterministic: %q vs %q", w, first, got)
			}
		}
	}
}

func TestPorterStemmer_ShortWords(t *testing.T) {
	s := NewPorterStemmer()

	for _, w := range []string{"go", "ai", "q3"} {
		if got := s.Stem(w); got != w {
			t.Errorf("Stem(%q) = %q, want word unchanged", w, got)
		}
	}
}

func TestPorterStemmer_StemAll(t *testing.T) {
	s := NewPorterStemmer()

	words := []string{"earnings", "calls", "margins"}
	stems := s.StemAll(words)

	if len(stems) != len(words) {
		t.Fatalf("StemAll changed length: %d != %d", len(stems), len(words))
	}
	for i, w := range words {
		if stems[i] != s.Stem(w) {
			t.Errorf("StemAll[%d] = %q, want %q", i, stems[i], s.Stem(w))
		}
	}
}
