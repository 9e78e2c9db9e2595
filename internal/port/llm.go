package port

import (
	"context"

	"finsight/internal/domain"
)

// Completer represents a language model for text generation.
type Completer interface {
	// Complete generates a response to the given message sequence.
	Complete(ctx context.Context, turns []domain.Turn) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// Extractor pulls company identifiers and time periods out of a query.
type Extractor interface {
	// Extract returns the companies and time periods mentioned in the
	// query. An empty result is not an error.
	Extract(ctx context.Context, query string) (domain.Extraction, error)
}
