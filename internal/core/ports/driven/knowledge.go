package driven

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// KnowledgeSource loads the curated knowledge base.
type KnowledgeSource interface {
	// Load reads and decodes the knowledge base.
	Load(ctx context.Context) (*domain.KnowledgeBase, error)

	// Path returns the location of the knowledge base, for watchers and logs.
	Path() string
}
