package driven

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// PostProcessor transforms chunks after the chunk builder has produced them.
// PostProcessors are chained in a pipeline (e.g., splitting, identification).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process receives chunks in builder order and returns the transformed
	// chunks. Processors must be deterministic and keep relative order.
	Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the chunks through all processors in order.
	Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
}
