// Command portfolio-rag builds and serves retrieval for the portfolio chat
// assistant.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/document/pdf"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/knowledge"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/metrics"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
	"github.com/custodia-labs/portfolio-rag/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.Configure(cli.Dependencies{
		Settings:  openSettings,
		Chunks:    newChunkBuilder,
		Knowledge: func(path string) driven.KnowledgeSource { return knowledge.NewLoader(path) },
		Artifacts: func(path string) (cli.ArtifactStore, error) { return storage.OpenArtifact(path) },
		Embedder:  openEmbedder,
		Inspector: pdf.NewInspector(),
		Metrics:   func() cli.Metrics { return metrics.NewRecorder() },
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openSettings(path string) (driving.SettingsService, error) {
	var store *file.ConfigStore
	var err error
	if path != "" {
		store, err = file.NewConfigStoreAt(path)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

func openEmbedder(settings *domain.AppSettings) (driven.EmbeddingService, error) {
	svc, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	return ai.Throttle(svc, settings.Index.RequestsPerSecond), nil
}

func newChunkBuilder(index domain.IndexSettings) (driving.ChunkBuilder, error) {
	pipeline, err := postprocessors.NewIndexPipeline(index)
	if err != nil {
		return nil, err
	}
	return services.NewChunkBuilder(pipeline), nil
}
