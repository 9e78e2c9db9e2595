package analyzer

import (
	"testing"
)

func TestTokenizer_Lowercases(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("Summarize Spotify's LATEST Conference Call")
	for _, token := range tokens {
		if token != "" && token[0] >= 'A' && token[0] <= 'Z' {
			t.Errorf("expected lowercase tokens, got %v", tokens)
		}
	}

	hasCall := false
	for _, token := range tokens {
		if token == "call" {
			hasCall = true
		}
	}
	if !hasCall {
		t.Errorf("expected 'call' among tokens, got %v", tokens)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("what did they say on the call")
	for _, token := range tokens {
		switch token {
		case "what", "did", "they", "on", "the":
			t.Errorf("stopword %q should be removed, got %v", token, tokens)
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("a I q revenue")
	for _, token := range tokens {
		if len(token) < 2 {
			t.Errorf("short word should be removed: %s", token)
		}
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()

	if tokens := tok.Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d", len(tokens))
	}
	if tokens := tok.Tokenize("   \t\n "); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for whitespace input, got %d", len(tokens))
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"profit-margin", 2},
		{"Q3 2024 earnings?", 3},
		{"What's new", 3},
		{"revenue, profit; margin", 3},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}
