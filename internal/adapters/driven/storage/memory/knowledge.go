package memory

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.KnowledgeSource = (*KnowledgeSource)(nil)

// KnowledgeSource serves a fixed knowledge base.
type KnowledgeSource struct {
	kb  *domain.KnowledgeBase
	err error
}

// NewKnowledgeSource creates a source that always returns kb.
func NewKnowledgeSource(kb *domain.KnowledgeBase) *KnowledgeSource {
	return &KnowledgeSource{kb: kb}
}

// NewFailingKnowledgeSource creates a source whose Load always fails with err.
func NewFailingKnowledgeSource(err error) *KnowledgeSource {
	return &KnowledgeSource{err: err}
}

// Load returns the knowledge base.
func (s *KnowledgeSource) Load(ctx context.Context) (*domain.KnowledgeBase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.kb == nil {
		return nil, domain.ErrNotFound
	}
	return s.kb, nil
}

// Path returns a pseudo path for log output.
func (s *KnowledgeSource) Path() string {
	return ":memory:"
}
