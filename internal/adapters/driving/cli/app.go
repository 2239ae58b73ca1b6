package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
)

// currentSettings returns validated settings.
func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// newMetrics returns a recorder when one is configured, else nil.
func newMetrics() Metrics {
	if deps.Metrics == nil {
		return nil
	}
	return deps.Metrics()
}

// recorder narrows m to the port, keeping a nil Metrics a nil interface.
func recorder(m Metrics) driven.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

// session is a loaded runtime plus the resources it holds.
type session struct {
	runtime   *services.Runtime
	embedder  driven.EmbeddingService
	artifacts ArtifactStore
}

// Close releases the embedder and the artifact store.
func (s *session) Close() {
	if s.embedder != nil {
		s.embedder.Close()
	}
	if s.artifacts != nil {
		s.artifacts.Close()
	}
}

// openSession loads the knowledge base and artifact named by settings.
func openSession(ctx context.Context, settings *domain.AppSettings, metrics driven.MetricsRecorder) (*session, error) {
	if deps.Knowledge == nil || deps.Artifacts == nil || deps.Embedder == nil {
		return nil, errors.New("adapters not configured")
	}

	embedder, err := deps.Embedder(settings)
	if err != nil {
		return nil, err
	}
	artifacts, err := deps.Artifacts(settings.Paths.Artifact)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	s := &session{embedder: embedder, artifacts: artifacts}
	s.runtime = services.NewRuntime(
		deps.Knowledge(settings.Paths.KnowledgeBase),
		artifacts,
		embedder,
		settings.Retrieval,
		metrics,
	)
	if err := s.runtime.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// toolService builds the tool service over a loaded session.
func toolService(s *session, settings *domain.AppSettings, metrics driven.MetricsRecorder) (*services.ToolService, error) {
	retrieval, err := s.runtime.Retrieval()
	if err != nil {
		return nil, err
	}
	return services.NewToolService(retrieval, s.runtime.KnowledgeBase(), cvFile(settings), deps.Inspector, metrics), nil
}

// cvFile describes the CV with the configured local copy.
func cvFile(settings *domain.AppSettings) domain.CVFile {
	return domain.CVFile{LocalPath: settings.Paths.CV}
}
