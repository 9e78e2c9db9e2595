package analyzer

import "testing"

func TestDictLemmatizer_KnownForms(t *testing.T) {
	l := NewDictLemmatizer()

	tests := []struct {
		word  string
		lemma string
	}{
		{"said", "say"},
		{"SAID", "say"},
		{"mentioned", "mention"},
		{"deals", "deal"},
		{"companies", "company"},
	}

	for _, tt := range tests {
		if got := l.Lemma(tt.word); got != tt.lemma {
			t.Errorf("Lemma(%q) = %q, want %q", tt.word, got, tt.lemma)
		}
	}
}

func TestDictLemmatizer_MissFallsBackToIdentity(t *testing.T) {
	l := NewDictLemmatizer()

	for _, w := range []string{"spotify", "zxqv", "nvda"} {
		if got := l.Lemma(w); got != w {
			t.Errorf("Lemma(%q) = %q, want identity on dictionary miss", w, got)
		}
	}
}

func TestDictLemmatizer_LemmaAll(t *testing.T) {
	l := NewDictLemmatizer()

	words := []string{"said", "spotify", "deals"}
	lemmas := l.LemmaAll(words)

	if len(lemmas) != len(words) {
		t.Fatalf("LemmaAll changed length: %d != %d", len(lemmas), len(words))
	}
	want := []string{"say", "spotify", "deal"}
	for i := range want {
		if lemmas[i] != want[i] {
			t.Errorf("LemmaAll[%d] = %q, want %q", i, lemmas[i], want[i])
		}
	}
}
