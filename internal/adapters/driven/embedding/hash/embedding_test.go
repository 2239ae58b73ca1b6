package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestEmbeddingService_Deterministic(t *testing.T) {
	svc := NewEmbeddingService(0)

	a, err := svc.Embed(context.Background(), "Experiencia en Go y PostgreSQL")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "Experiencia en Go y PostgreSQL")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, "hash-256", svc.ModelName())
}

func TestEmbeddingService_UnitLength(t *testing.T) {
	vec, err := NewEmbeddingService(64).Embed(context.Background(), "Ingeniero de Software")
	require.NoError(t, err)

	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestEmbeddingService_LexicalSimilarity(t *testing.T) {
	svc := NewEmbeddingService(512)
	ctx := context.Background()

	doc, _ := svc.Embed(ctx, "Habilidades de backend: Go, PostgreSQL, Kafka")
	related, _ := svc.Embed(ctx, "¿Qué habilidades de backend tiene?")
	unrelated, _ := svc.Embed(ctx, "receta de ceviche con limón")

	assert.Greater(t, cosine(doc, related), cosine(doc, unrelated))
}

func TestEmbeddingService_AccentInsensitive(t *testing.T) {
	svc := NewEmbeddingService(128)

	a, _ := svc.Embed(context.Background(), "Educación")
	b, _ := svc.Embed(context.Background(), "educacion")
	assert.InDelta(t, 1.0, cosine(a, b), 1e-6)
}

func TestEmbeddingService_EmptyText(t *testing.T) {
	vec, err := NewEmbeddingService(16).Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, vec, 16)
	for _, x := range vec {
		assert.Zero(t, x)
	}
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	svc := NewEmbeddingService(32)
	ctx := context.Background()

	batch, err := svc.EmbedBatch(ctx, []string{"uno", "dos"})
	require.NoError(t, err)
	single, _ := svc.Embed(ctx, "dos")

	require.Len(t, batch, 2)
	assert.Equal(t, single, batch[1])
	assert.NoError(t, svc.Ping(ctx))
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbeddingService(0).EmbedBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"hola", "como", "estas", "2024"}, tokens("¡Hola! ¿Cómo estás? 2024"))
}
