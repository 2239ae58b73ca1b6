package driving

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// ToolService implements the tools offered to an agent runtime.
type ToolService interface {
	// SearchKnowledge runs retrieval for query.
	SearchKnowledge(ctx context.Context, query string) domain.SearchResult

	// NavigateToSection validates a section and returns a navigation result.
	NavigateToSection(ctx context.Context, section string) (domain.NavigateResult, error)

	// ContactInfo returns public contact fields.
	ContactInfo(ctx context.Context) domain.ContactResult

	// DownloadCV returns the CV download descriptor.
	DownloadCV(ctx context.Context) domain.DownloadResult
}
