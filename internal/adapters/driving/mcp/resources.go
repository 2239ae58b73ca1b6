package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for portfolio resources.
	uriScheme = "portfolio://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sections",
		Name:        "sections",
		Description: "Navigable portfolio page sections, in page order",
		MIMEType:    "application/json",
	}, s.handleSectionsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "contact",
		Name:        "contact",
		Description: "Public contact information",
		MIMEType:    "application/json",
	}, s.handleContactResource)
}

// handleSectionsResource lists the page sections with their headings.
func (s *Server) handleSectionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sectionInfo struct {
		Section string `json:"section"`
		Label   string `json:"label"`
	}

	sections := domain.AllSections()
	infos := make([]sectionInfo, len(sections))
	for i, sec := range sections {
		infos[i] = sectionInfo{Section: sec.String(), Label: sec.Label()}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleContactResource returns the contact card.
func (s *Server) handleContactResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Tools.ContactInfo(ctx))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
