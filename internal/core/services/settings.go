package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyTopK            = "retrieval.top_k"
	keyThreshold       = "retrieval.threshold"
	keyPreviewLength   = "retrieval.preview_length"
	keyQueryTimeout    = "retrieval.query_timeout"
	keyBatchSize       = "index.batch_size"
	keyRequestsPerSec  = "index.requests_per_second"
	keyProcessors      = "index.processors"
	keyChunkMaxWords   = "index.chunk_max_words"
	keyChunkOverlap    = "index.chunk_overlap"
	keyKnowledgePath   = "paths.knowledge_base"
	keyArtifactPath    = "paths.artifact"
	keyCVPath          = "paths.cv"
	keyServerPort      = "server.port"
	keyServerMetrics   = "server.metrics"
)

// SettingKeys lists every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedDimensions,
		keyTopK, keyThreshold, keyPreviewLength, keyQueryTimeout,
		keyBatchSize, keyRequestsPerSec, keyProcessors, keyChunkMaxWords, keyChunkOverlap,
		keyKnowledgePath, keyArtifactPath, keyCVPath,
		keyServerPort, keyServerMetrics,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	model := s.configStore.GetString(keyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      model,
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.configStore.GetInt(keyEmbedDimensions),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:          s.getInt(keyTopK, defaults.Retrieval.TopK),
			Threshold:     s.getFloat(keyThreshold, defaults.Retrieval.Threshold),
			PreviewLength: s.getInt(keyPreviewLength, defaults.Retrieval.PreviewLength),
			QueryTimeout:  s.getDuration(keyQueryTimeout, defaults.Retrieval.QueryTimeout),
		},
		Index: domain.IndexSettings{
			BatchSize:         s.getInt(keyBatchSize, defaults.Index.BatchSize),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Index.RequestsPerSecond),
			Processors:        s.configStore.GetStringSlice(keyProcessors),
			ChunkMaxWords:     s.configStore.GetInt(keyChunkMaxWords),
			ChunkOverlap:      s.configStore.GetInt(keyChunkOverlap),
		},
		Paths: domain.PathSettings{
			KnowledgeBase: s.getString(keyKnowledgePath, defaults.Paths.KnowledgeBase),
			Artifact:      s.getString(keyArtifactPath, defaults.Paths.Artifact),
			CV:            s.configStore.GetString(keyCVPath),
		},
		Server: domain.ServerSettings{
			Port:    s.getInt(keyServerPort, defaults.Server.Port),
			Metrics: s.getBool(keyServerMetrics, defaults.Server.Metrics),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyTopK, settings.Retrieval.TopK},
		{keyThreshold, settings.Retrieval.Threshold},
		{keyPreviewLength, settings.Retrieval.PreviewLength},
		{keyQueryTimeout, settings.Retrieval.QueryTimeout.String()},
		{keyBatchSize, settings.Index.BatchSize},
		{keyRequestsPerSec, settings.Index.RequestsPerSecond},
		{keyChunkMaxWords, settings.Index.ChunkMaxWords},
		{keyChunkOverlap, settings.Index.ChunkOverlap},
		{keyKnowledgePath, settings.Paths.KnowledgeBase},
		{keyArtifactPath, settings.Paths.Artifact},
		{keyCVPath, settings.Paths.CV},
		{keyServerPort, settings.Server.Port},
		{keyServerMetrics, settings.Server.Metrics},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if len(settings.Index.Processors) > 0 {
		if err := s.configStore.Set(keyProcessors, settings.Index.Processors); err != nil {
			return fmt.Errorf("save %s: %w", keyProcessors, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	return nil
}

// Set updates a single setting from its string form, converting it to the
// type the key expects and validating the result before saving.
func (s *SettingsService) Set(key, value string) error {
	var typed any
	var err error

	switch key {
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, value)
		}
		typed = value
	case keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyKnowledgePath, keyArtifactPath, keyCVPath:
		typed = value
	case keyEmbedDimensions, keyTopK, keyPreviewLength, keyBatchSize, keyServerPort,
		keyChunkMaxWords, keyChunkOverlap:
		typed, err = strconv.Atoi(value)
	case keyThreshold, keyRequestsPerSec:
		typed, err = strconv.ParseFloat(value, 64)
	case keyQueryTimeout:
		var d time.Duration
		d, err = time.ParseDuration(value)
		typed = d.String()
	case keyServerMetrics:
		typed, err = strconv.ParseBool(value)
	case keyProcessors:
		typed = splitList(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	previous, existed := s.configStore.Get(key)
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	if err := s.Validate(); err != nil {
		if existed {
			_ = s.configStore.Set(key, previous) //nolint:errcheck
		} else {
			_ = s.configStore.Delete(key) //nolint:errcheck
		}
		return err
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Set base URL based on provider type
	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey
	settings.Embedding.Dimensions = 0

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
