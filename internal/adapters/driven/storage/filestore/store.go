// Package filestore persists the vector store artifact as a single file.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ArtifactStore = (*Store)(nil)

// Store reads and writes an artifact file through a Codec.
type Store struct {
	path  string
	codec Codec
}

// New creates a file store for path using codec.
func New(path string, codec Codec) *Store {
	return &Store{path: path, codec: codec}
}

// Save writes store to a temp file in the target directory and renames it
// into place, so a failed write never replaces a good artifact.
func (s *Store) Save(ctx context.Context, store *domain.VectorStore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if store == nil {
		return domain.ErrInvalidInput
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	w := bufio.NewWriter(tmp)
	if err := s.codec.Encode(w, store); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("encoding %s artifact: %w", s.codec.Name(), err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gosec // artifact is public data
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Load decodes the artifact file.
func (s *Store) Load(ctx context.Context) (*domain.VectorStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, s.path)
		}
		return nil, err
	}
	defer f.Close()

	return s.codec.Decode(bufio.NewReader(f))
}

// Path returns the artifact file path.
func (s *Store) Path() string {
	return s.path
}
