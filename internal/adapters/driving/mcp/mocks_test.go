package mcp

import (
	"context"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// mockToolService implements driving.ToolService for testing.
type mockToolService struct {
	search  domain.RetrievalResult
	queries []string
}

func (m *mockToolService) SearchKnowledge(_ context.Context, query string) domain.SearchResult {
	m.queries = append(m.queries, query)
	return domain.SearchResult{Query: query, Result: m.search}
}

func (m *mockToolService) NavigateToSection(_ context.Context, section string) (domain.NavigateResult, error) {
	parsed, err := domain.ParseSection(section)
	if err != nil {
		return domain.NavigateResult{}, err
	}
	return domain.NavigateResult{Section: parsed, Label: parsed.Label()}, nil
}

func (m *mockToolService) ContactInfo(_ context.Context) domain.ContactResult {
	return domain.ContactResult{
		Name:     "Miguel Chumacero",
		Email:    "miguel@example.com",
		Location: "Lima, Perú",
	}
}

func (m *mockToolService) DownloadCV(_ context.Context) domain.DownloadResult {
	return domain.DownloadResult{
		Filename: domain.DefaultCVFilename,
		Path:     domain.DefaultCVPath,
		Pages:    2,
	}
}
