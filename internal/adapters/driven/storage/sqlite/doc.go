// Package sqlite provides a SQLite-backed vector store artifact.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. The artifact is selected by a .db or
// .sqlite extension on the configured artifact path.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Embeddings are stored as little-endian float32 blobs, one row per chunk,
// keyed by builder position.
//
// # Thread Safety
//
// All operations are thread-safe. Save replaces the whole artifact inside a
// single transaction, so readers see either the old or the new index.
package sqlite
