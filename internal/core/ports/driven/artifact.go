package driven

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// ArtifactStore persists the vector store built by the indexer.
//
// Save must be atomic from a reader's point of view: a failed save leaves
// any previous artifact intact. Load reads the whole artifact into memory
// and returns domain.ErrArtifactNotFound when nothing has been built yet.
type ArtifactStore interface {
	// Save writes the store, replacing any previous artifact.
	Save(ctx context.Context, store *domain.VectorStore) error

	// Load reads the full store.
	Load(ctx context.Context) (*domain.VectorStore, error)

	// Path returns where the artifact lives.
	Path() string
}
