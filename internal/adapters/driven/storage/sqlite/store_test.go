package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testVectorStore() *domain.VectorStore {
	return &domain.VectorStore{
		StoreStamp: domain.StoreStamp{
			SchemaVersion: domain.ArtifactSchemaVersion,
			Model:         "text-embedding-3-small",
			Dimensions:    3,
			CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Chunks: []domain.EmbeddedChunk{
			{
				Chunk:     domain.Chunk{ID: "id-1", Content: "Miguel es ingeniero.", Category: domain.CategoryPersonal},
				Embedding: []float32{0.1, -0.2, 0.3},
			},
			{
				Chunk:     domain.Chunk{ID: "id-2", Content: "Habilidades: Go.", Category: "skills_backend"},
				Embedding: []float32{1, 0, float32(1e-7)},
			},
			{
				Chunk:     domain.Chunk{ID: "id-2", Content: "Habilidades: Go.", Category: "skills_backend"},
				Embedding: []float32{1, 0, float32(1e-7)},
			},
		},
	}
}

func TestNewStore_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "embeddings.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
}

func TestStore_LoadEmpty(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := setupTestStore(t)
	original := testVectorStore()

	require.NoError(t, store.Save(context.Background(), original))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, original, loaded)
	require.NoError(t, loaded.Validate())
}

func TestStore_SaveReplaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testVectorStore()))

	smaller := testVectorStore()
	smaller.Model = "nomic-embed-text"
	smaller.Chunks = smaller.Chunks[:1]
	require.NoError(t, store.Save(ctx, smaller))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", loaded.Model)
	assert.Equal(t, 1, loaded.Len())
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), testVectorStore()))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
}

func TestStore_SaveNil(t *testing.T) {
	store := setupTestStore(t)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}

func TestStore_CorruptBlob(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testVectorStore()))

	_, err := store.db.ExecContext(ctx, "UPDATE chunks SET embedding = ? WHERE position = 0", []byte{1, 2, 3})
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactCorrupt)
}

func TestFloat32BlobConversion(t *testing.T) {
	floats := []float32{0, 1.5, -2.25, float32(1e-30)}

	assert.Equal(t, floats, bytesToFloat32Slice(float32SliceToBytes(floats)))
	assert.Nil(t, bytesToFloat32Slice(nil))
	assert.Empty(t, float32SliceToBytes(nil))
}
