package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

var indexLog = logger.For("indexer")

// IndexService builds and persists the vector store artifact.
type IndexService struct {
	knowledge driven.KnowledgeSource
	builder   driving.ChunkBuilder
	embedder  driven.EmbeddingService
	artifacts driven.ArtifactStore
	metrics   driven.MetricsRecorder
	batchSize int
	now       func() time.Time
}

// NewIndexService creates a new index service.
// The metrics parameter is optional (can be nil).
func NewIndexService(
	knowledge driven.KnowledgeSource,
	builder driving.ChunkBuilder,
	embedder driven.EmbeddingService,
	artifacts driven.ArtifactStore,
	settings domain.IndexSettings,
	metrics driven.MetricsRecorder,
) *IndexService {
	batchSize := settings.BatchSize
	if batchSize < 1 {
		batchSize = domain.DefaultBatchSize
	}
	return &IndexService{
		knowledge: knowledge,
		builder:   builder,
		embedder:  embedder,
		artifacts: artifacts,
		metrics:   metricsOrNoop(metrics),
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Embed embeds chunks in batches, preserving order. The first failed batch
// aborts the whole run; no partial store is ever returned.
func (s *IndexService) Embed(
	ctx context.Context, chunks []domain.Chunk, progress driving.IndexProgress,
) (*domain.VectorStore, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to embed", domain.ErrInvalidInput)
	}

	model := s.embedder.ModelName()
	out := make([]domain.EmbeddedChunk, 0, len(chunks))
	dims := 0

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		indexLog.Debug("embedding chunks %d-%d of %d", start, end-1, len(chunks))
		began := time.Now()
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		s.metrics.ObserveEmbedding(model, len(texts), err == nil, time.Since(began))
		if err != nil {
			return nil, &domain.IndexError{Index: start, Category: batch[0].Category, Err: err}
		}
		if len(vectors) != len(batch) {
			return nil, &domain.IndexError{
				Index:    start,
				Category: batch[0].Category,
				Err: fmt.Errorf("%w: requested %d embeddings, got %d",
					domain.ErrEmbeddingMismatch, len(batch), len(vectors)),
			}
		}

		for i, vec := range vectors {
			if dims == 0 {
				dims = len(vec)
			}
			if len(vec) == 0 || len(vec) != dims {
				return nil, &domain.IndexError{
					Index:    start + i,
					Category: batch[i].Category,
					Err: fmt.Errorf("%w: vector has %d dimensions, expected %d",
						domain.ErrEmbeddingMismatch, len(vec), dims),
				}
			}
			out = append(out, domain.EmbeddedChunk{Chunk: batch[i], Embedding: vec})
		}

		if progress != nil {
			progress(end, len(chunks))
		}
	}

	return &domain.VectorStore{
		StoreStamp: domain.StoreStamp{
			SchemaVersion: domain.ArtifactSchemaVersion,
			Model:         model,
			Dimensions:    dims,
			CreatedAt:     s.now().UTC().Truncate(time.Second),
		},
		Chunks: out,
	}, nil
}

// Run performs a full indexing run: load, chunk, embed, persist.
func (s *IndexService) Run(ctx context.Context, progress driving.IndexProgress) (*driving.IndexReport, error) {
	logger.Section("Index Build")
	began := time.Now()

	report, err := s.run(ctx, progress)
	chunks := 0
	if report != nil {
		chunks = report.Chunks
	}
	s.metrics.ObserveIndexRun(chunks, err == nil, time.Since(began))
	if err != nil {
		indexLog.Error("indexing aborted: %v", err)
		return nil, err
	}

	report.Duration = time.Since(began)
	indexLog.Info("indexed %d chunks with %s (%d dims) into %s",
		report.Chunks, report.Model, report.Dimensions, report.ArtifactPath)
	return report, nil
}

func (s *IndexService) run(ctx context.Context, progress driving.IndexProgress) (*driving.IndexReport, error) {
	kb, err := s.knowledge.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	chunks, err := s.builder.Build(kb)
	if err != nil {
		return nil, fmt.Errorf("building chunks: %w", err)
	}
	indexLog.Debug("built %d chunks from %s", len(chunks), s.knowledge.Path())

	store, err := s.Embed(ctx, chunks, progress)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	if err := s.artifacts.Save(ctx, store); err != nil {
		return nil, fmt.Errorf("saving artifact: %w", err)
	}

	return &driving.IndexReport{
		Chunks:       store.Len(),
		Model:        store.Model,
		Dimensions:   store.Dimensions,
		ArtifactPath: s.artifacts.Path(),
	}, nil
}
