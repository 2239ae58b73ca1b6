// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	hashembed "github.com/custodia-labs/portfolio-rag/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/custodia-labs/portfolio-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/portfolio-rag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// APIKeyEnv is read when no OpenAI key is configured.
//
//nolint:gosec // G101: environment variable name, not a credential.
const APIKeyEnv = "OPENAI_API_KEY"

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'portfolio-rag settings validate' for details",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// Unconfigured settings are not an error.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	resolved := withEnvAPIKey(settings)
	if resolved == nil || !resolved.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(resolved)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// An OpenAI key missing from settings is taken from OPENAI_API_KEY.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	resolved := withEnvAPIKey(settings)
	if resolved == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if !resolved.Provider.IsValid() {
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, resolved.Provider)
	}
	if !resolved.IsConfigured() {
		return nil, fmt.Errorf("%w: %s requires an API key (set %s or embedding.api_key)",
			domain.ErrEmbeddingUnavailable, resolved.Provider, APIKeyEnv)
	}

	switch resolved.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(resolved)

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(resolved)

	case domain.AIProviderHash:
		return createHashEmbedding(resolved), nil

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, resolved.Provider)
	}
}

// Throttle wraps svc with a client-side rate limit. A non-positive rate
// returns svc unchanged.
func Throttle(svc driven.EmbeddingService, requestsPerSecond float64) driven.EmbeddingService {
	return ratelimit.New(svc, ratelimit.Config{
		RequestsPerSecond: requestsPerSecond,
		MaxRetries:        ratelimit.DefaultMaxRetries,
	})
}

// withEnvAPIKey returns a copy of settings with the environment key filled in.
func withEnvAPIKey(settings *domain.EmbeddingSettings) *domain.EmbeddingSettings {
	if settings == nil {
		return nil
	}
	resolved := *settings
	if resolved.Provider == domain.AIProviderOpenAI && resolved.APIKey == "" {
		resolved.APIKey = os.Getenv(APIKeyEnv)
	}
	return &resolved
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	svc, err := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createHashEmbedding creates the offline hashing embedder. The dimension
// count comes from settings, or from a "hash-<n>" model name.
func createHashEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		_, _ = fmt.Sscanf(settings.Model, "hash-%d", &dimensions)
	}
	return hashembed.NewEmbeddingService(dimensions)
}
