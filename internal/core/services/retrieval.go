package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

var retrievalLog = logger.For("retrieval")

// debugPreviewLength bounds previews in verbose logs.
const debugPreviewLength = 80

// RetrievalService ranks stored chunks against a query.
//
// The store is an immutable handle shared by all callers; the service holds
// no mutable state and is safe for concurrent use.
type RetrievalService struct {
	store    *domain.VectorStore
	personal domain.Personal
	embedder driven.EmbeddingService
	settings domain.RetrievalSettings
	metrics  driven.MetricsRecorder
}

// NewRetrievalService creates a retrieval service over a loaded store.
// personal supplies the fallback summary. The metrics parameter is optional.
func NewRetrievalService(
	store *domain.VectorStore,
	personal domain.Personal,
	embedder driven.EmbeddingService,
	settings domain.RetrievalSettings,
	metrics driven.MetricsRecorder,
) *RetrievalService {
	defaults := domain.DefaultAppSettings().Retrieval
	if settings.TopK < 1 {
		settings.TopK = defaults.TopK
	}
	if settings.PreviewLength < 1 {
		settings.PreviewLength = defaults.PreviewLength
	}
	if settings.QueryTimeout <= 0 {
		settings.QueryTimeout = defaults.QueryTimeout
	}
	return &RetrievalService{
		store:    store,
		personal: personal,
		embedder: embedder,
		settings: settings,
		metrics:  metricsOrNoop(metrics),
	}
}

// Settings returns the effective retrieval settings.
func (s *RetrievalService) Settings() domain.RetrievalSettings {
	return s.settings
}

// Retrieve embeds query, ranks every chunk, keeps the top K and applies the
// relevance floor. Every failure converges on the fallback result.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (result domain.RetrievalResult) {
	began := time.Now()
	logger.Section("Retrieval")
	retrievalLog.Debug("Query: %q", query)

	defer func() {
		if r := recover(); r != nil {
			retrievalLog.Error("recovered from panic during retrieval: %v", r)
			result = s.fallback()
			s.observe(driven.OutcomeError, 0, began)
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		retrievalLog.Debug("Empty query, returning fallback")
		s.observe(driven.OutcomeEmpty, 0, began)
		return s.fallback()
	}

	ranked, err := s.rank(ctx, query)
	if err != nil {
		retrievalLog.Warn("semantic search failed, using fallback: %v", err)
		s.observe(driven.OutcomeError, 0, began)
		return s.fallback()
	}

	top := TopK(ranked, s.settings.TopK)
	s.logTop(top)

	if len(top) == 0 || top[0].Score < s.settings.Threshold {
		best := 0.0
		if len(top) > 0 {
			best = top[0].Score
		}
		retrievalLog.Debug("Best similarity %.3f below threshold %.3f, returning fallback",
			best, s.settings.Threshold)
		s.observe(driven.OutcomeBelow, best, began)
		return s.fallback()
	}

	s.observe(driven.OutcomeHit, top[0].Score, began)
	return s.assemble(top)
}

// observe records a retrieval outcome. A panicking recorder is logged and
// ignored so it cannot change the result.
func (s *RetrievalService) observe(outcome string, best float64, began time.Time) {
	defer func() {
		if r := recover(); r != nil {
			retrievalLog.Warn("metrics recorder failed: %v", r)
		}
	}()
	s.metrics.ObserveRetrieval(outcome, best, time.Since(began))
}

// rank embeds the query under the configured timeout and scores all chunks.
func (s *RetrievalService) rank(ctx context.Context, query string) ([]ScoredChunk, error) {
	if s.store == nil {
		return nil, domain.ErrStoreNotLoaded
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.settings.QueryTimeout)
	defer cancel()

	began := time.Now()
	vec, err := s.embedder.Embed(embedCtx, query)
	s.metrics.ObserveEmbedding(s.embedder.ModelName(), 1, err == nil, time.Since(began))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vec) != s.store.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrDimensionMismatch, len(vec), s.store.Dimensions)
	}

	return Rank(s.store.Chunks, vec), nil
}

func (s *RetrievalService) assemble(top []ScoredChunk) domain.RetrievalResult {
	contents := make([]string, len(top))
	categories := make([]domain.Category, len(top))
	sources := make([]domain.Source, len(top))

	for i, sc := range top {
		contents[i] = sc.Chunk.Content
		categories[i] = sc.Chunk.Category
		sources[i] = domain.Source{
			Category:   sc.Chunk.Category,
			Similarity: sc.Score,
			Preview:    domain.Preview(sc.Chunk.Content, s.settings.PreviewLength),
		}
	}

	return domain.RetrievalResult{
		Context:    strings.Join(contents, domain.ContextSeparator),
		Categories: categories,
		Sources:    sources,
	}
}

func (s *RetrievalService) fallback() domain.RetrievalResult {
	return domain.FallbackResult(s.personal)
}

func (s *RetrievalService) logTop(top []ScoredChunk) {
	if !logger.IsVerbose() {
		return
	}
	for i, sc := range top {
		retrievalLog.Debug("#%d %s similarity=%.3f preview=%q...", i+1, sc.Chunk.Category, sc.Score,
			domain.Preview(sc.Chunk.Content, debugPreviewLength))
	}
}
