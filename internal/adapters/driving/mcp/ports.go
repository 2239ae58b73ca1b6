package mcp

import (
	"net/http"

	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Tools implements the assistant tools.
	Tools driving.ToolService

	// Routes optionally registers extra HTTP routes (such as /metrics)
	// next to the MCP endpoint when serving over HTTP.
	Routes func(mux *http.ServeMux)
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tools == nil {
		return ErrMissingToolService
	}
	return nil
}
