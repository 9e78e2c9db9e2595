package usecase

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"finsight/internal/domain"
)

// PromptBuilder fits fetched company data and prior conversation turns into
// a hard character budget before the completion call. It never fails on
// oversized input; the only caller error is a non-positive budget.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build produces [system] + selected prior turns + [user], with the user
// message embedding the (possibly trimmed) company data and the query.
// The total content length of the result never exceeds totalBudget.
func (b *PromptBuilder) Build(
	query string,
	companies []domain.CompanyData,
	priorTurns []domain.Turn,
	totalBudget int,
	systemInstruction string,
) ([]domain.Turn, error) {
	if totalBudget <= 0 {
		return nil, domain.ErrInvalidBudget
	}

	reserved := len(systemInstruction)
	for _, turn := range priorTurns {
		reserved += len(turn.Content)
	}

	available := totalBudget - reserved
	if available < 0 {
		available = 0
	}

	trimmed := companies
	if len(companies) > 0 {
		perCompany := available / len(companies)
		trimmed = make([]domain.CompanyData, 0, len(companies))
		for _, c := range companies {
			trimmed = append(trimmed, b.trimCompany(c, perCompany))
		}
	}

	userContent := renderUserMessage(query, trimmed)

	historyBudget := totalBudget - len(systemInstruction) - len(userContent)
	selected := selectRecentTurns(priorTurns, historyBudget)

	turns := make([]domain.Turn, 0, len(selected)+2)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: systemInstruction})
	turns = append(turns, selected...)
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: userContent})

	return clampTurns(turns, totalBudget), nil
}

// trimCompany reduces a blob to the per-company allowance. Blobs already
// within the allowance pass through unchanged.
func (b *PromptBuilder) trimCompany(c domain.CompanyData, allowance int) domain.CompanyData {
	if c.SerializedSize <= allowance || len(c.Payloads) == 0 {
		return c
	}

	perPayload := allowance / len(c.Payloads)
	out := domain.CompanyData{
		Company:  c.Company,
		Payloads: make(map[string]domain.CategoryPayload, len(c.Payloads)),
	}
	for id, p := range c.Payloads {
		out.Payloads[id] = trimPayload(p, perPayload)
	}
	out.Recompute()
	return out
}

// trimPayload applies the most specific policy available. Transcript-shaped
// payloads are trimmed per entry; anything else falls back to truncating
// the serialized form, which may cut mid-field. The size guarantee is the
// primary invariant; well-formedness of the truncated fragment is not.
// Mixed payloads trim the entries to half the allowance and give the
// opaque part what remains.
func trimPayload(p domain.CategoryPayload, allowance int) domain.CategoryPayload {
	if p.Size() <= allowance {
		return p
	}
	if allowance < 0 {
		allowance = 0
	}
	if p.Entries == nil {
		return domain.CategoryPayload{Raw: json.RawMessage(truncateBytes(p.Raw, allowance))}
	}

	entryAllowance := allowance
	if len(p.Raw) > 0 {
		entryAllowance = allowance / 2
	}
	out := domain.CategoryPayload{Entries: trimEntries(p.Entries, entryAllowance)}
	if len(p.Raw) > 0 {
		// -1 covers the separator Serialize inserts between the parts.
		remaining := allowance - out.Size() - 1
		if remaining < 0 {
			remaining = 0
		}
		if raw := truncateBytes(p.Raw, remaining); len(raw) > 0 {
			out.Raw = json.RawMessage(raw)
		}
	}
	return out
}

// trimEntries sorts time-ordered records newest-first, reserves each
// entry's metadata overhead, and truncates each entry's free text to an
// even share of what remains. Entries are never dropped, and their order
// is not changed after truncation.
func trimEntries(entries []domain.TranscriptEntry, allowance int) []domain.TranscriptEntry {
	if len(entries) == 0 {
		return entries
	}
	out := make([]domain.TranscriptEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})

	overhead := 0
	for _, e := range out {
		e.Content = ""
		meta, err := json.Marshal(e)
		if err != nil {
			continue
		}
		// +1 covers the array separator for this entry.
		overhead += len(meta) + 1
	}

	remaining := allowance - overhead
	if remaining < 0 {
		remaining = 0
	}
	share := remaining / len(out)

	for i := range out {
		if len(out[i].Content) > share {
			out[i].Content = truncateString(out[i].Content, share)
		}
	}
	return out
}

// truncateString cuts s at or before n bytes without splitting a UTF-8
// rune; a split rune would re-serialize as a replacement character.
func truncateString(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// truncateBytes is truncateString for raw serialized payloads.
func truncateBytes(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if len(b) <= n {
		return b
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}

// selectRecentTurns walks prior turns newest-first, greedily keeping turns
// until the first one that would overflow the budget, then restores
// chronological order. Only the oldest turns are ever dropped; the kept
// subsequence is a contiguous most-recent suffix.
func selectRecentTurns(priorTurns []domain.Turn, budget int) []domain.Turn {
	var kept []domain.Turn
	running := 0
	for i := len(priorTurns) - 1; i >= 0; i-- {
		if running+len(priorTurns[i].Content) > budget {
			break
		}
		running += len(priorTurns[i].Content)
		kept = append(kept, priorTurns[i])
	}

	// Reverse back to chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// clampTurns is the final safety backstop: if rounding slack pushed the
// assembled content past the budget, the overall prompt is truncated at
// the budget boundary, cutting from the tail.
func clampTurns(turns []domain.Turn, budget int) []domain.Turn {
	total := 0
	for _, t := range turns {
		total += len(t.Content)
	}
	if total <= budget {
		return turns
	}

	out := make([]domain.Turn, 0, len(turns))
	remaining := budget
	for _, t := range turns {
		if remaining <= 0 {
			break
		}
		if len(t.Content) > remaining {
			t.Content = truncateString(t.Content, remaining)
		}
		remaining -= len(t.Content)
		out = append(out, t)
	}
	return out
}

// renderUserMessage embeds the company data sections and the query. With no
// data it degrades to the query alone.
func renderUserMessage(query string, companies []domain.CompanyData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s", query)

	if len(companies) == 0 {
		return sb.String()
	}

	sb.WriteString("\nPlease analyze the following info and provide a clear, concise response to the query. ")
	sb.WriteString("If specific data related to the query is not available, acknowledge that in your response.\n")
	sb.WriteString("Available Data:\n")

	for _, c := range companies {
		fmt.Fprintf(&sb, "%s (%s)\n", c.Company.Name, c.Company.Symbol)
		for _, id := range sortedPayloadIDs(c.Payloads) {
			fmt.Fprintf(&sb, "%s:\n%s\n", strings.ToUpper(strings.ReplaceAll(id, "_", " ")), c.Payloads[id].Serialize())
		}
	}
	return sb.String()
}

func sortedPayloadIDs(payloads map[string]domain.CategoryPayload) []string {
	ids := make([]string, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
