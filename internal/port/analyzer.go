package port

// Tokenizer splits raw text into normalized word tokens.
type Tokenizer interface {
	// Tokenize returns lowercase word tokens with stopwords removed.
	// Empty or whitespace-only input yields an empty slice.
	Tokenize(text string) []string
}

// Stemmer reduces words to rule-derived root forms.
type Stemmer interface {
	// Stem returns the stem of a single word.
	Stem(word string) string

	// StemAll maps Stem over words, preserving order and length.
	StemAll(words []string) []string
}

// Lemmatizer reduces words to dictionary-derived canonical forms.
// A word without a dictionary entry lemmatizes to itself.
type Lemmatizer interface {
	// Lemma returns the lemma of a single word.
	Lemma(word string) string

	// LemmaAll maps Lemma over words, preserving order and length.
	LemmaAll(words []string) []string
}

// Scorer computes normalized string similarity between two tokens.
type Scorer interface {
	// Similarity returns a score in [0,1], case-insensitive.
	Similarity(a, b string) float64
}
