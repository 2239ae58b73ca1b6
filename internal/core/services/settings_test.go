package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err    error
	called bool
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.called = true
	return m.err
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("retrieval.top_k", 6)
	_ = store.Set("retrieval.threshold", 0.45)
	_ = store.Set("retrieval.query_timeout", "2s")
	_ = store.Set("paths.artifact", "data/embeddings.db")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 6, settings.Retrieval.TopK)
	assert.InDelta(t, 0.45, settings.Retrieval.Threshold, 1e-9)
	assert.Equal(t, 2*time.Second, settings.Retrieval.QueryTimeout)
	assert.Equal(t, "data/embeddings.db", settings.Paths.Artifact)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("retrieval.query_timeout", "soon")

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultQueryTimeout, settings.Retrieval.QueryTimeout)
}

func TestSettingsService_Get_ZeroThresholdIsKept(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("retrieval.threshold", 0.0)

	settings, err := NewSettingsService(store, nil).Get()
	require.NoError(t, err)

	assert.Zero(t, settings.Retrieval.Threshold)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set("retrieval.top_k", "8"))
	require.NoError(t, service.Set("retrieval.threshold", "0.25"))
	require.NoError(t, service.Set("retrieval.query_timeout", "1500ms"))
	require.NoError(t, service.Set("server.metrics", "true"))
	require.NoError(t, service.Set("paths.cv", "public/cv.pdf"))
	require.NoError(t, service.Set("index.processors", " chunker, ,identifier "))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.InDelta(t, 0.25, settings.Retrieval.Threshold, 1e-9)
	assert.Equal(t, 1500*time.Millisecond, settings.Retrieval.QueryTimeout)
	assert.True(t, settings.Server.Metrics)
	assert.Equal(t, "public/cv.pdf", settings.Paths.CV)
	assert.Equal(t, []string{"chunker", "identifier"}, settings.Index.Processors)
}

func TestSettingsService_Set_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	tests := []struct {
		key, value string
	}{
		{"unknown.key", "1"},
		{"retrieval.top_k", "many"},
		{"retrieval.threshold", "high"},
		{"retrieval.query_timeout", "5"},
		{"server.metrics", "maybe"},
		{"embedding.provider", "anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.ErrorIs(t, service.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Set_RollsBackInvalidValue(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set("retrieval.threshold", "0.5"))
	assert.ErrorIs(t, service.Set("retrieval.threshold", "3"), domain.ErrInvalidInput)
	assert.InDelta(t, 0.5, store.GetFloat("retrieval.threshold"), 1e-9)

	assert.ErrorIs(t, service.Set("index.requests_per_second", "-1"), domain.ErrInvalidInput)
	_, exists := store.Get("index.requests_per_second")
	assert.False(t, exists)
}

func TestSettingsService_Set_ChunkSizes(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set("index.chunk_max_words", "20"))
	require.NoError(t, service.Set("index.chunk_overlap", "5"))
	assert.ErrorIs(t, service.Set("index.chunk_overlap", "20"), domain.ErrInvalidInput)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 20, settings.Index.ChunkMaxWords)
	assert.Equal(t, 5, settings.Index.ChunkOverlap)
}

func TestSettingsService_SettingKeysAreAccepted(t *testing.T) {
	for _, key := range SettingKeys() {
		assert.NotEqual(t, "", key)
	}
	assert.Contains(t, SettingKeys(), "retrieval.threshold")
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-large", "sk-test"))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Error(t, service.SetEmbeddingProvider("invalid", "", ""))
	assert.Error(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""))
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.Validate())

	_ = store.Set("retrieval.threshold", 2.0)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	defaults := NewSettingsService(memory.NewConfigStore(), nil).GetDefaults()

	assert.Equal(t, domain.DefaultTopK, defaults.Retrieval.TopK)
	assert.InDelta(t, domain.DefaultThreshold, defaults.Retrieval.Threshold, 1e-9)
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	assert.NoError(t, NewSettingsService(memory.NewConfigStore(), nil).ValidateEmbeddingConfig())

	validator := &mockAIValidator{err: errors.New("unreachable")}
	err := NewSettingsService(memory.NewConfigStore(), validator).ValidateEmbeddingConfig()
	assert.Error(t, err)
	assert.True(t, validator.called)
}
