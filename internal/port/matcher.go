package port

import "finsight/internal/domain"

// Matcher ranks catalogue categories by relevance to a query.
type Matcher interface {
	// FindRelevantCategories returns category IDs with at least one
	// keyword match, ordered by match strength.
	FindRelevantCategories(query string) []string
}

// PromptBuilder assembles a size-bounded message sequence for completion.
type PromptBuilder interface {
	// Build produces a message sequence whose total content length does
	// not exceed totalBudget characters.
	Build(query string, companies []domain.CompanyData, priorTurns []domain.Turn, totalBudget int, systemInstruction string) ([]domain.Turn, error)
}
