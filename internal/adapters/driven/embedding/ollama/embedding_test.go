package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", compatURL("http://localhost:11434"))
	assert.Equal(t, "http://localhost:11434/v1", compatURL("http://localhost:11434/"))
	assert.Equal(t, "http://gpu:11434/v1", compatURL("http://gpu:11434/v1"))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 768, svc.Dimensions())

	unknown, err := NewEmbeddingService(Config{Model: "custom-embed"})
	require.NoError(t, err)
	assert.Zero(t, unknown.Dimensions())
}

func TestEmbeddingService_UsesCompatibleAPI(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/embeddings":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"data": []map[string]any{
					{"object": "embedding", "index": 0, "embedding": []float32{0.5, 0.5}},
				},
			})
		case "/v1/models":
			_, _ = w.Write([]byte(`{"object": "list", "data": []}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL})
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vec)
	require.NoError(t, svc.Ping(context.Background()))

	assert.Equal(t, []string{"/v1/embeddings", "/v1/models"}, paths)
}

func TestEmbeddingService_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	svc, err := NewEmbeddingService(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama")
}
