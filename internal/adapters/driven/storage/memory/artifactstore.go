package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is an in-memory implementation of driven.ArtifactStore for testing.
// Saved stores are deep-copied so callers cannot mutate what was persisted.
type ArtifactStore struct {
	mu    sync.RWMutex
	store *domain.VectorStore
}

// NewArtifactStore creates a new in-memory artifact store.
// An optional initial store is copied in.
func NewArtifactStore(initial *domain.VectorStore) *ArtifactStore {
	s := &ArtifactStore{}
	if initial != nil {
		s.store = cloneStore(initial)
	}
	return s
}

// Save replaces the held store.
func (s *ArtifactStore) Save(ctx context.Context, store *domain.VectorStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if store == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = cloneStore(store)
	return nil
}

// Load returns a copy of the held store, or ErrArtifactNotFound.
func (s *ArtifactStore) Load(ctx context.Context) (*domain.VectorStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, domain.ErrArtifactNotFound
	}
	return cloneStore(s.store), nil
}

// Path returns a pseudo path for log output.
func (s *ArtifactStore) Path() string {
	return ":memory:"
}

func cloneStore(in *domain.VectorStore) *domain.VectorStore {
	out := &domain.VectorStore{
		StoreStamp: in.StoreStamp,
		Chunks:     make([]domain.EmbeddedChunk, len(in.Chunks)),
	}
	for i, c := range in.Chunks {
		out.Chunks[i] = domain.EmbeddedChunk{
			Chunk:     c.Chunk,
			Embedding: append([]float32(nil), c.Embedding...),
		}
	}
	return out
}
