package analyzer

import (
	"bufio"
	"bytes"
	"embed"
	"strings"
)

//go:embed data/lemmas.txt
var lemmaData embed.FS

// DictLemmatizer maps inflected word forms to canonical lemmas using an
// embedded word-relations dictionary. A word without an entry lemmatizes
// to itself; a failed dictionary load degrades every lookup to identity
// rather than failing the caller.
type DictLemmatizer struct {
	forms map[string]string
}

// NewDictLemmatizer creates a lemmatizer backed by the embedded dictionary.
func NewDictLemmatizer() *DictLemmatizer {
	return &DictLemmatizer{forms: loadLemmaForms()}
}

// Lemma returns the canonical form of a word, or the word itself when the
// dictionary has no entry.
func (l *DictLemmatizer) Lemma(word string) string {
	word = strings.ToLower(word)
	if lemma, ok := l.forms[word]; ok {
		return lemma
	}
	return word
}

// LemmaAll maps Lemma over words, preserving order and length.
func (l *DictLemmatizer) LemmaAll(words []string) []string {
	lemmas := make([]string, len(words))
	for i, w := range words {
		lemmas[i] = l.Lemma(w)
	}
	return lemmas
}

// loadLemmaForms parses the embedded dictionary. Each line holds an
// inflected form and its lemma separated by whitespace; malformed lines
// and load errors are ignored so lookups fall back to identity.
func loadLemmaForms() map[string]string {
	forms := make(map[string]string)

	data, err := lemmaData.ReadFile("data/lemmas.txt")
	if err != nil {
		return forms
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		forms[strings.ToLower(fields[0])] = strings.ToLower(fields[1])
	}

	return forms
}
