package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// IndexProgress is called after each embedded batch with the number of
// chunks done so far and the total.
type IndexProgress func(done, total int)

// IndexReport summarises a completed indexing run.
type IndexReport struct {
	// Chunks is how many chunks were embedded and persisted.
	Chunks int

	// Model is the embedding model stamped into the artifact.
	Model string

	// Dimensions is the vector size.
	Dimensions int

	// ArtifactPath is where the store was written.
	ArtifactPath string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// IndexService builds the vector store artifact. It is an offline operation
// and is never invoked while serving queries.
type IndexService interface {
	// Embed embeds chunks in order, aborting on the first failure.
	Embed(ctx context.Context, chunks []domain.Chunk, progress IndexProgress) (*domain.VectorStore, error)

	// Run loads the knowledge base, builds chunks, embeds them and persists
	// the artifact. Nothing is written if any step fails.
	Run(ctx context.Context, progress IndexProgress) (*IndexReport, error)
}
