// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// portfolio assistant. It exposes the assistant tools to agent runtimes.
package mcp

import "errors"

// ErrMissingToolService is returned when the tool service is not provided.
var ErrMissingToolService = errors.New("mcp: tool service is required")
