package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or artifact format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyQuery indicates a query with no searchable text.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmbeddingMismatch indicates a provider returned a different number of
	// vectors than texts requested, or vectors of inconsistent length.
	ErrEmbeddingMismatch = errors.New("embedding response mismatch")

	// Artifact Errors.

	// ErrArtifactNotFound indicates the vector store artifact has not been built.
	ErrArtifactNotFound = errors.New("vector store artifact not found")

	// ErrArtifactCorrupt indicates the artifact could not be decoded in full.
	ErrArtifactCorrupt = errors.New("vector store artifact corrupt")

	// ErrModelMismatch indicates the artifact was built with a different
	// embedding model than the one configured for queries.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrDimensionMismatch indicates the artifact vectors differ in size from
	// what the configured embedding model produces.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreNotLoaded indicates retrieval was attempted before the runtime
	// loaded its vector store.
	ErrStoreNotLoaded = errors.New("vector store not loaded")

	// Tool Errors.

	// ErrUnknownSection indicates a navigation target outside the page sections.
	ErrUnknownSection = errors.New("unknown section")
)

// IndexError reports the chunk that aborted an indexing run.
type IndexError struct {
	// Index is the position of the first chunk in the failed request.
	Index int

	// Category is the category of that chunk.
	Category string

	// Err is the underlying provider error.
	Err error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("embedding chunk %d (%s): %v", e.Index, e.Category, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}
