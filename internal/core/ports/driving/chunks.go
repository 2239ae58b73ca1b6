package driving

import "github.com/custodia-labs/portfolio-rag/internal/core/domain"

// ChunkBuilder turns a knowledge base into retrievable chunks.
type ChunkBuilder interface {
	// Build returns chunks in a stable order derived from the knowledge base
	// field order. Identical input yields byte-identical output.
	Build(kb *domain.KnowledgeBase) ([]domain.Chunk, error)
}
