package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

func TestRuntime_Load(t *testing.T) {
	store := storeWith("mock-embed", embedded(domain.CategoryPersonal, "Perfil", 1, 0))
	embedder := &mockEmbeddingService{fallback: []float32{1, 0}, dims: 2}
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(store),
		embedder,
		domain.DefaultAppSettings().Retrieval,
		nil,
	)

	_, err := rt.Retrieval()
	assert.ErrorIs(t, err, domain.ErrStoreNotLoaded)
	assert.Nil(t, rt.KnowledgeBase())
	assert.Nil(t, rt.Store())

	require.NoError(t, rt.Load(context.Background()))

	retrieval, err := rt.Retrieval()
	require.NoError(t, err)
	assert.Equal(t, 1, rt.Store().Len())
	assert.Equal(t, "Miguel Chumacero", rt.KnowledgeBase().Personal.Name)

	result := retrieval.Retrieve(context.Background(), "perfil")
	assert.False(t, result.Fallback)
	assert.Equal(t, "Perfil", result.Context)
}

// countingArtifactStore counts loads.
type countingArtifactStore struct {
	*memory.ArtifactStore
	mu    sync.Mutex
	loads int
}

func (c *countingArtifactStore) Load(ctx context.Context) (*domain.VectorStore, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.ArtifactStore.Load(ctx)
}

func TestRuntime_Load_OnceUnderConcurrency(t *testing.T) {
	artifacts := &countingArtifactStore{
		ArtifactStore: memory.NewArtifactStore(storeWith("mock-embed", embedded("a", "a", 1, 0))),
	}
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		artifacts,
		&mockEmbeddingService{},
		domain.RetrievalSettings{},
		nil,
	)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rt.Load(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, artifacts.loads)
}

func TestRuntime_GettersDuringLoad(t *testing.T) {
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(storeWith("mock-embed", embedded("a", "a", 1, 0))),
		&mockEmbeddingService{},
		domain.RetrievalSettings{},
		nil,
	)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, rt.Load(context.Background()))
		}()
		go func() {
			defer wg.Done()
			if svc, err := rt.Retrieval(); err == nil {
				assert.NotNil(t, svc)
				assert.NotNil(t, rt.Store())
				assert.NotNil(t, rt.KnowledgeBase())
			} else {
				assert.ErrorIs(t, err, domain.ErrStoreNotLoaded)
			}
		}()
	}
	wg.Wait()

	_, err := rt.Retrieval()
	assert.NoError(t, err)
}

func TestRuntime_Load_ModelMismatch(t *testing.T) {
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(storeWith("text-embedding-3-small", embedded("a", "a", 1, 0))),
		&mockEmbeddingService{model: "nomic-embed-text"},
		domain.RetrievalSettings{},
		nil,
	)

	err := rt.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelMismatch)

	_, err = rt.Retrieval()
	assert.ErrorIs(t, err, domain.ErrModelMismatch)

	// The failure is sticky.
	assert.ErrorIs(t, rt.Load(context.Background()), domain.ErrModelMismatch)
}

func TestRuntime_Load_DimensionMismatch(t *testing.T) {
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(storeWith("mock-embed", embedded("a", "a", 1, 0))),
		&mockEmbeddingService{dims: 768},
		domain.RetrievalSettings{},
		nil,
	)

	assert.ErrorIs(t, rt.Load(context.Background()), domain.ErrDimensionMismatch)
}

func TestRuntime_Load_MissingArtifact(t *testing.T) {
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(nil),
		&mockEmbeddingService{},
		domain.RetrievalSettings{},
		nil,
	)

	assert.ErrorIs(t, rt.Load(context.Background()), domain.ErrArtifactNotFound)
}

func TestRuntime_Load_CorruptArtifact(t *testing.T) {
	store := storeWith("mock-embed", embedded("a", "a", 1, 0), embedded("b", "b", 1, 0, 0))
	rt := NewRuntime(
		memory.NewKnowledgeSource(testKnowledgeBase()),
		memory.NewArtifactStore(store),
		&mockEmbeddingService{},
		domain.RetrievalSettings{},
		nil,
	)

	assert.ErrorIs(t, rt.Load(context.Background()), domain.ErrDimensionMismatch)
}
