// Package identifier assigns deterministic IDs to chunks.
package identifier

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// Namespace scopes chunk IDs so they never collide with other SHA-1 UUIDs.
var Namespace = uuid.MustParse("6f1c5a2e-8d4b-4c3a-9e7f-2b1d0c9a8e71")

// Processor sets each chunk ID to a name-based UUID of its category and
// content, so re-running the builder on unchanged input yields the same IDs.
type Processor struct{}

// New creates a new identifier processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "identifier"
}

// Process assigns IDs in place on a copy of the input.
func (p *Processor) Process(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, len(chunks))
	for i, chunk := range chunks {
		chunk.ID = ID(chunk.Category, chunk.Content)
		out[i] = chunk
	}
	return out, nil
}

// ID returns the deterministic ID for a category and content pair.
func ID(category, content string) string {
	return uuid.NewSHA1(Namespace, []byte(category+"\x00"+content)).String()
}
