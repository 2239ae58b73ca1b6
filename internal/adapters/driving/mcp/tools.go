package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
)

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the visitor question about Miguel's profile, education, skills, experience or projects"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Context    string         `json:"context"`
	Categories []string       `json:"categories"`
	Sources    []SourceOutput `json:"sources"`
	Fallback   bool           `json:"fallback"`

	// Sections lists page sections showing the matched content, in rank
	// order without duplicates. Useful for a follow-up navigate call.
	Sections []string `json:"sections,omitempty"`
}

// SourceOutput is one ranked chunk behind a search answer.
type SourceOutput struct {
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"preview"`
}

// NavigateInput is the input schema for the navigate_to_section tool.
type NavigateInput struct {
	Section string `json:"section" jsonschema:"one of hero, education, skills, experience, projects, contact, footer"`
}

// NavigateOutput is the output schema for the navigate_to_section tool.
type NavigateOutput struct {
	Action  string `json:"action"`
	Section string `json:"section"`
	Label   string `json:"label"`
}

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// DownloadOutput is the output schema for the download_cv tool.
type DownloadOutput struct {
	Action   string `json:"action"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Pages    int    `json:"pages,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolSearchKnowledge,
		Description: "Search Miguel Chumacero's portfolio knowledge base and return the most relevant context",
	}, s.handleSearchKnowledge)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolNavigateToSection,
		Description: "Scroll the portfolio page to a section",
	}, s.handleNavigate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolGetContactInfo,
		Description: "Return Miguel's public contact information",
	}, s.handleContact)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolDownloadCV,
		Description: "Offer Miguel's CV as a PDF download",
	}, s.handleDownloadCV)
}

// handleSearchKnowledge handles the search_knowledge tool invocation.
func (s *Server) handleSearchKnowledge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	res := s.ports.Tools.SearchKnowledge(ctx, input.Query).Result

	output := SearchOutput{
		Context:    res.Context,
		Categories: append([]string{}, res.Categories...),
		Sources:    make([]SourceOutput, len(res.Sources)),
		Fallback:   res.Fallback,
	}

	seen := make(map[domain.Section]bool)
	for i, src := range res.Sources {
		output.Sources[i] = SourceOutput{
			Category:   src.Category,
			Similarity: src.Similarity,
			Preview:    src.Preview,
		}
		section := domain.SectionForCategory(src.Category)
		if !seen[section] {
			seen[section] = true
			output.Sections = append(output.Sections, section.String())
		}
	}

	log.Debug("search_knowledge %q: %d sources, fallback=%t", input.Query, len(res.Sources), res.Fallback)
	return nil, output, nil
}

// handleNavigate handles the navigate_to_section tool invocation.
func (s *Server) handleNavigate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NavigateInput,
) (*mcp.CallToolResult, NavigateOutput, error) {
	res, err := s.ports.Tools.NavigateToSection(ctx, input.Section)
	if err != nil {
		return nil, NavigateOutput{}, err
	}
	return nil, NavigateOutput{
		Action:  string(res.Kind()),
		Section: res.Section.String(),
		Label:   res.Label,
	}, nil
}

// handleContact handles the get_contact_info tool invocation.
func (s *Server) handleContact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, domain.ContactResult, error) {
	return nil, s.ports.Tools.ContactInfo(ctx), nil
}

// handleDownloadCV handles the download_cv tool invocation.
func (s *Server) handleDownloadCV(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, DownloadOutput, error) {
	res := s.ports.Tools.DownloadCV(ctx)
	return nil, DownloadOutput{
		Action:   string(res.Kind()),
		Filename: res.Filename,
		Path:     res.Path,
		Pages:    res.Pages,
	}, nil
}
