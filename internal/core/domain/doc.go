// Package domain defines the core business entities for portfolio-rag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - KnowledgeBase: The curated profile record that feeds the index
//   - Chunk: A short, self-contained unit of retrievable text
//   - VectorStore: The immutable set of embedded chunks loaded at start
//   - RetrievalResult: Context and provenance returned for a query
//   - ToolResult: The closed set of results an agent runtime can receive
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
