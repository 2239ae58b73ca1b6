// Package storage selects the vector store artifact backend for a path.
package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage/filestore"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Artifact is an artifact store that may hold resources.
type Artifact interface {
	driven.ArtifactStore
	io.Closer
}

// OpenArtifact returns the artifact store for path, chosen by extension:
//
//	.json            JSON file
//	.gob             gob file
//	.db, .sqlite     SQLite database
func OpenArtifact(path string) (Artifact, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return nopCloser{filestore.New(path, filestore.JSONCodec{})}, nil
	case ".gob":
		return nopCloser{filestore.New(path, filestore.GobCodec{})}, nil
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(path)
	default:
		return nil, fmt.Errorf("%w: artifact extension %q (use .json, .gob or .db)",
			domain.ErrUnsupportedType, filepath.Ext(path))
	}
}

type nopCloser struct {
	*filestore.Store
}

func (nopCloser) Close() error { return nil }
