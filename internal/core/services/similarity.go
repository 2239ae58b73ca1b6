package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|) in [-1, 1].
// Vectors of different length, empty vectors and zero-norm vectors have no
// defined direction and score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(sim):
		return 0
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// ScoredChunk is a stored chunk with its similarity to a query.
type ScoredChunk struct {
	// Index is the chunk position in the store.
	Index int

	// Chunk points into the store and must not be modified.
	Chunk *domain.EmbeddedChunk

	// Score is the cosine similarity to the query.
	Score float64
}

// Rank scores every chunk against query and sorts by descending score.
// Ties keep store order.
func Rank(chunks []domain.EmbeddedChunk, query []float32) []ScoredChunk {
	scored := make([]ScoredChunk, len(chunks))
	for i := range chunks {
		scored[i] = ScoredChunk{
			Index: i,
			Chunk: &chunks[i],
			Score: CosineSimilarity(query, chunks[i].Embedding),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TopK returns at most k leading entries of a ranked list.
func TopK(ranked []ScoredChunk, k int) []ScoredChunk {
	if k < 0 {
		k = 0
	}
	if len(ranked) > k {
		return ranked[:k]
	}
	return ranked
}
