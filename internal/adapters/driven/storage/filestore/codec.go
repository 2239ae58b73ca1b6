package filestore

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// Codec encodes a vector store to and from bytes.
type Codec interface {
	Name() string
	Encode(w io.Writer, store *domain.VectorStore) error
	Decode(r io.Reader) (*domain.VectorStore, error)
}

// LegacyModel is assumed for unstamped JSON artifacts, which were always
// produced with this model.
const LegacyModel = "text-embedding-3-small"

// JSONCodec writes the artifact as indented JSON.
type JSONCodec struct{}

// Name returns the codec name.
func (JSONCodec) Name() string { return "json" }

// Encode writes store as JSON.
func (JSONCodec) Encode(w io.Writer, store *domain.VectorStore) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(store)
}

// Decode reads a stamped object or a legacy bare array of chunks.
func (JSONCodec) Decode(r io.Reader) (*domain.VectorStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var chunks []domain.EmbeddedChunk
		if err := json.Unmarshal(trimmed, &chunks); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrArtifactCorrupt, err)
		}
		return legacyStore(chunks), nil
	}

	var store domain.VectorStore
	if err := json.Unmarshal(trimmed, &store); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArtifactCorrupt, err)
	}
	return &store, nil
}

func legacyStore(chunks []domain.EmbeddedChunk) *domain.VectorStore {
	dims := 0
	if len(chunks) > 0 {
		dims = len(chunks[0].Embedding)
	}
	return &domain.VectorStore{
		StoreStamp: domain.StoreStamp{
			SchemaVersion: domain.ArtifactSchemaVersion,
			Model:         LegacyModel,
			Dimensions:    dims,
		},
		Chunks: chunks,
	}
}

// GobCodec writes the artifact in encoding/gob, which is several times
// smaller and faster to load than JSON for float-heavy payloads.
type GobCodec struct{}

// Name returns the codec name.
func (GobCodec) Name() string { return "gob" }

// Encode writes store as gob.
func (GobCodec) Encode(w io.Writer, store *domain.VectorStore) error {
	return gob.NewEncoder(w).Encode(store)
}

// Decode reads a gob-encoded store.
func (GobCodec) Decode(r io.Reader) (*domain.VectorStore, error) {
	var store domain.VectorStore
	if err := gob.NewDecoder(r).Decode(&store); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArtifactCorrupt, err)
	}
	return &store, nil
}
