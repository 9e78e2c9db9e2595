package usecase

import (
	"sort"
	"strings"

	"finsight/internal/adapter/catalog"
	"finsight/internal/domain"
	"finsight/internal/port"
)

// FuzzyThreshold is the similarity score a token pair must exceed to count
// as a fuzzy match. The boundary is exclusive: exactly 0.9 does not match.
const FuzzyThreshold = 0.9

// Matcher scores the keyword catalogue against a query and ranks categories
// by match strength. Four strategies are tried per (token, keyword) pair in
// fixed precedence: exact, stem, lemma, then fuzzy similarity.
type Matcher struct {
	tokenizer  port.Tokenizer
	stemmer    port.Stemmer
	lemmatizer port.Lemmatizer
	scorer     port.Scorer
	catalog    *catalog.Catalog
	threshold  float64
}

// NewMatcher creates a matcher over the given catalogue.
func NewMatcher(
	tokenizer port.Tokenizer,
	stemmer port.Stemmer,
	lemmatizer port.Lemmatizer,
	scorer port.Scorer,
	cat *catalog.Catalog,
) *Matcher {
	return &Matcher{
		tokenizer:  tokenizer,
		stemmer:    stemmer,
		lemmatizer: lemmatizer,
		scorer:     scorer,
		catalog:    cat,
		threshold:  FuzzyThreshold,
	}
}

// FindRelevantCategories returns the IDs of categories with at least one
// matched keyword, sorted descending by matched-keyword count. Ties keep
// catalogue declaration order. An empty query matches nothing.
func (m *Matcher) FindRelevantCategories(query string) []string {
	results := m.Match(query)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.CategoryID
	}
	return ids
}

// Match returns the ranked match results including the matched keywords.
func (m *Matcher) Match(query string) []domain.MatchResult {
	queryTokens := m.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	queryStems := m.stemmer.StemAll(queryTokens)
	queryLemmas := m.lemmatizer.LemmaAll(queryTokens)

	var results []domain.MatchResult
	for _, cat := range m.catalog.Categories() {
		matched := m.matchKeywords(queryTokens, queryStems, queryLemmas, cat.Keywords)
		if len(matched) > 0 {
			results = append(results, domain.MatchResult{CategoryID: cat.ID, Matched: matched})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].Matched) > len(results[j].Matched)
	})
	return results
}

// keywordForms holds the precomputed reductions of one catalogue keyword.
// A keyword may be a multi-word phrase; each constituent word contributes
// its own stem and lemma.
type keywordForms struct {
	original string
	words    []string
	stems    []string
	lemmas   []string
}

func (m *Matcher) matchKeywords(tokens, stems, lemmas []string, keywords []string) []string {
	forms := make([]keywordForms, len(keywords))
	for i, kw := range keywords {
		words := m.tokenizer.Tokenize(kw)
		forms[i] = keywordForms{
			original: kw,
			words:    strings.Fields(strings.ToLower(kw)),
			stems:    m.stemmer.StemAll(words),
			lemmas:   m.lemmatizer.LemmaAll(words),
		}
	}

	hit := make(map[string]bool, len(keywords))
	for i, token := range tokens {
		for _, kw := range forms {
			if hit[kw.original] {
				continue
			}
			if m.tokenMatches(token, stems[i], lemmas[i], kw) {
				hit[kw.original] = true
			}
		}
	}

	// Report matched keywords in declaration order.
	matched := make([]string, 0, len(hit))
	for _, kw := range keywords {
		if hit[kw] {
			matched = append(matched, kw)
		}
	}
	return matched
}

// tokenMatches tests one query token against one keyword. First hit wins;
// the precedence order is part of the matching contract.
func (m *Matcher) tokenMatches(token, stem, lemma string, kw keywordForms) bool {
	if token == kw.original {
		return true
	}

	for _, s := range kw.stems {
		if stem == s {
			return true
		}
	}

	for _, l := range kw.lemmas {
		if lemma == l {
			return true
		}
	}

	for _, word := range kw.words {
		if m.scorer.Similarity(token, word) > m.threshold {
			return true
		}
	}

	return false
}
