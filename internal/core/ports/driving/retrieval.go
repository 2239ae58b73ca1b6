package driving

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// RetrievalService answers queries from the loaded vector store.
type RetrievalService interface {
	// Retrieve returns the most relevant context for query. It never fails:
	// errors and weak matches both produce the fallback result.
	Retrieve(ctx context.Context, query string) domain.RetrievalResult
}
