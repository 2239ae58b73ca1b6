// Package pdf inspects PDF documents.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.DocumentInspector = (*Inspector)(nil)

// Inspector reads PDF metadata from local files.
type Inspector struct{}

// NewInspector creates a PDF inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// PageCount opens the PDF at path and returns its page count.
// Malformed files yield domain.ErrInvalidInput.
func (i *Inspector) PageCount(ctx context.Context, path string) (pages int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: opening %s: %w", domain.ErrInvalidInput, path, err)
	}
	defer f.Close()

	return r.NumPage(), nil
}
