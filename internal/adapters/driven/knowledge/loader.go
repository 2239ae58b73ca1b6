// Package knowledge loads the curated knowledge base from disk.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.KnowledgeSource = (*Loader)(nil)

// Loader reads a knowledge base file. The extension selects the format:
// .toml is TOML, anything else is JSON.
type Loader struct {
	path string
}

// NewLoader creates a loader for path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the knowledge base. It is re-read on every call
// so an indexing run always sees the current file.
func (l *Loader) Load(ctx context.Context) (*domain.KnowledgeBase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: knowledge base %s", domain.ErrNotFound, l.path)
		}
		return nil, err
	}

	kb, err := Decode(data, l.format())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	if err := kb.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return kb, nil
}

// Path returns the knowledge base file path.
func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) format() string {
	if strings.EqualFold(filepath.Ext(l.path), ".toml") {
		return "toml"
	}
	return "json"
}

// Decode parses a knowledge base in the given format ("json" or "toml").
// Fields the chunk builder does not use are ignored.
func Decode(data []byte, format string) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &kb); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	case "json":
		if err := json.Unmarshal(data, &kb); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: knowledge base format %q", domain.ErrUnsupportedType, format)
	}
	return &kb, nil
}
