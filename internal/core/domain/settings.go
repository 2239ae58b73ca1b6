package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHash is the offline hashing embedder used for fixtures and
	// development without network access.
	AIProviderHash AIProvider = "hash"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHash:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without a cloud account.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHash
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHash:
		return "Hash (offline, deterministic)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. It is stamped into the artifact.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the vector size for models that support it.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings tunes the online retrieval engine.
type RetrievalSettings struct {
	// TopK is how many ranked chunks survive truncation.
	TopK int

	// Threshold is the relevance floor for the best similarity score.
	Threshold float64

	// PreviewLength bounds source previews, in characters.
	PreviewLength int

	// QueryTimeout bounds the query embedding call.
	QueryTimeout time.Duration
}

// IndexSettings tunes the offline indexer.
type IndexSettings struct {
	// BatchSize is how many chunks are embedded per provider request.
	BatchSize int

	// RequestsPerSecond throttles provider requests. Zero disables throttling.
	RequestsPerSecond float64

	// Processors names the chunk post-processors in order.
	// Empty selects the built-in pipeline.
	Processors []string

	// ChunkMaxWords is the chunker's word budget. Zero keeps MaxChunkWords.
	ChunkMaxWords int

	// ChunkOverlap is how many words split pieces share.
	ChunkOverlap int
}

// PathSettings locates the files the application reads and writes.
type PathSettings struct {
	// KnowledgeBase is the curated profile file (JSON or TOML).
	KnowledgeBase string

	// Artifact is the vector store file. Its extension selects the codec.
	Artifact string

	// CV is an optional local copy of the downloadable CV.
	CV string
}

// ServerSettings configures the MCP server.
type ServerSettings struct {
	// Port is the HTTP port for the streamable transport. Zero means stdio.
	Port int

	// Metrics exposes Prometheus metrics at /metrics when serving HTTP.
	Metrics bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Retrieval holds retrieval engine settings.
	Retrieval RetrievalSettings

	// Index holds indexer settings.
	Index IndexSettings

	// Paths holds file locations.
	Paths PathSettings

	// Server holds MCP server settings.
	Server ServerSettings
}

// Retrieval defaults.
const (
	DefaultTopK          = 4
	DefaultThreshold     = 0.3
	DefaultPreviewLength = 100
	DefaultQueryTimeout  = 5 * time.Second
	DefaultBatchSize     = 16
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		Retrieval: RetrievalSettings{
			TopK:          DefaultTopK,
			Threshold:     DefaultThreshold,
			PreviewLength: DefaultPreviewLength,
			QueryTimeout:  DefaultQueryTimeout,
		},
		Index: IndexSettings{
			BatchSize: DefaultBatchSize,
		},
		Paths: PathSettings{
			KnowledgeBase: "data/knowledge-base.json",
			Artifact:      "data/embeddings.json",
		},
	}
}

// Validate checks value ranges.
func (s AppSettings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Embedding.Model == "" {
		return fmt.Errorf("%w: embedding model is required", ErrInvalidInput)
	}
	if s.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: retrieval.top_k must be at least 1", ErrInvalidInput)
	}
	if s.Retrieval.Threshold < -1 || s.Retrieval.Threshold > 1 {
		return fmt.Errorf("%w: retrieval.threshold must be within [-1, 1]", ErrInvalidInput)
	}
	if s.Retrieval.PreviewLength < 1 {
		return fmt.Errorf("%w: retrieval.preview_length must be positive", ErrInvalidInput)
	}
	if s.Retrieval.QueryTimeout <= 0 {
		return fmt.Errorf("%w: retrieval.query_timeout must be positive", ErrInvalidInput)
	}
	if s.Index.BatchSize < 1 {
		return fmt.Errorf("%w: index.batch_size must be at least 1", ErrInvalidInput)
	}
	if s.Index.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: index.requests_per_second cannot be negative", ErrInvalidInput)
	}
	if s.Index.ChunkMaxWords < 0 || s.Index.ChunkOverlap < 0 {
		return fmt.Errorf("%w: index chunk sizes cannot be negative", ErrInvalidInput)
	}
	maxWords := s.Index.ChunkMaxWords
	if maxWords == 0 {
		maxWords = MaxChunkWords
	}
	if s.Index.ChunkOverlap >= maxWords {
		return fmt.Errorf("%w: index.chunk_overlap must be below the chunk word budget", ErrInvalidInput)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderHash,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderHash:   "hash-256",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"hash-256": 256,
	}
}
