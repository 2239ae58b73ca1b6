// Package ollama provides an embedding service adapter using Ollama.
//
// Ollama serves an OpenAI-compatible API under /v1, so this adapter is the
// OpenAI adapter pointed at a local server with a placeholder key.
package ollama

import (
	"strings"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// apiKey is sent because the client requires one; Ollama ignores it.
const apiKey = "ollama"

// Model dimensions for common Ollama embedding models.
var modelDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama server URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	*openai.EmbeddingService
	dimensions int
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = modelDimensions[cfg.Model]
	}

	inner, err := openai.NewEmbeddingService(openai.Config{
		APIKey:   apiKey,
		BaseURL:  compatURL(cfg.BaseURL),
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
		Provider: "ollama",
	})
	if err != nil {
		return nil, err
	}

	return &EmbeddingService{EmbeddingService: inner, dimensions: cfg.Dimensions}, nil
}

// Dimensions returns the embedding vector size, or 0 when the model is unknown.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// compatURL returns the OpenAI-compatible endpoint for a server URL,
// accepting URLs that already end in /v1.
func compatURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}
