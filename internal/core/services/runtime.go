package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// Runtime performs the one-time startup load of the knowledge base and the
// vector store and hands out services built on those immutable handles.
// Concurrent callers of Load share a single load, and the getters may be
// called from any goroutine while it runs.
type Runtime struct {
	knowledge driven.KnowledgeSource
	artifacts driven.ArtifactStore
	embedder  driven.EmbeddingService
	settings  domain.RetrievalSettings
	metrics   driven.MetricsRecorder

	once      sync.Once
	loaded    atomic.Bool // set once the fields below are final
	err       error
	kb        *domain.KnowledgeBase
	store     *domain.VectorStore
	retrieval *RetrievalService
}

// NewRuntime creates a runtime. Nothing is read until Load is called.
func NewRuntime(
	knowledge driven.KnowledgeSource,
	artifacts driven.ArtifactStore,
	embedder driven.EmbeddingService,
	settings domain.RetrievalSettings,
	metrics driven.MetricsRecorder,
) *Runtime {
	return &Runtime{
		knowledge: knowledge,
		artifacts: artifacts,
		embedder:  embedder,
		settings:  settings,
		metrics:   metrics,
	}
}

// Load reads the knowledge base and artifact at most once per Runtime.
// It fails when the artifact was built with a different embedding model
// than the configured one. Later calls return the first result.
func (r *Runtime) Load(ctx context.Context) error {
	r.once.Do(func() {
		r.err = r.load(ctx)
		r.loaded.Store(true)
	})
	return r.err
}

func (r *Runtime) load(ctx context.Context) error {
	logger.Section("Runtime Load")

	kb, err := r.knowledge.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}

	store, err := r.artifacts.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading artifact %s: %w", r.artifacts.Path(), err)
	}
	if err := store.Validate(); err != nil {
		return fmt.Errorf("loading artifact %s: %w", r.artifacts.Path(), err)
	}
	if err := store.CheckModel(r.embedder.ModelName(), r.embedder.Dimensions()); err != nil {
		return err
	}

	logger.Info("Vector store loaded: %d chunks, model %s, %d dims",
		store.Len(), store.Model, store.Dimensions)

	r.kb = kb
	r.store = store
	r.retrieval = NewRetrievalService(store, kb.Personal, r.embedder, r.settings, r.metrics)
	return nil
}

// Retrieval returns the retrieval service, or ErrStoreNotLoaded before a
// successful Load.
func (r *Runtime) Retrieval() (*RetrievalService, error) {
	if !r.loaded.Load() {
		return nil, domain.ErrStoreNotLoaded
	}
	if r.retrieval == nil {
		if r.err != nil {
			return nil, r.err
		}
		return nil, domain.ErrStoreNotLoaded
	}
	return r.retrieval, nil
}

// KnowledgeBase returns the loaded knowledge base, or nil before Load.
func (r *Runtime) KnowledgeBase() *domain.KnowledgeBase {
	if !r.loaded.Load() {
		return nil
	}
	return r.kb
}

// Store returns the loaded vector store, or nil before Load.
func (r *Runtime) Store() *domain.VectorStore {
	if !r.loaded.Load() {
		return nil
	}
	return r.store
}
