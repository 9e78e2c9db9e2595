package port

import (
	"context"
	"encoding/json"

	"finsight/internal/domain"
)

// MarketData provides company resolution and per-category data retrieval.
type MarketData interface {
	// Search resolves a company name or ticker to a CompanyRef.
	Search(ctx context.Context, name string) (domain.CompanyRef, error)

	// Fetch retrieves one category of data for a symbol. The zero
	// TimePeriod means no period constraint; a period with only a year
	// requests a year-level batch.
	Fetch(ctx context.Context, symbol string, category domain.KeywordCategory, period domain.TimePeriod) (json.RawMessage, error)
}
