// Package file stores application settings in a TOML file.
//
// Nested tables are flattened to dotted keys ("retrieval.top_k") on load and
// rebuilt on save. Writes go through a temp file and rename.
package file
