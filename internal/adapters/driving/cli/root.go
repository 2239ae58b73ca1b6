// Package cli implements the portfolio-rag command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

// defaultEnvFile is loaded when present; a missing file is not an error.
const defaultEnvFile = ".env"

var (
	version = "dev"

	verbose    bool
	configPath string
	envFile    string

	deps            Dependencies
	settingsService driving.SettingsService
)

// ArtifactStore is an artifact backend that holds resources until closed.
type ArtifactStore interface {
	driven.ArtifactStore
	io.Closer
}

// Metrics is a recorder that can also expose itself over HTTP.
type Metrics interface {
	driven.MetricsRecorder

	// Mount registers the metrics routes on mux.
	Mount(mux *http.ServeMux)
}

// Dependencies holds the adapters the commands are built on. Settings are
// resolved first; the factories then receive the resolved values.
type Dependencies struct {
	// Settings opens the settings service for a config file.
	// An empty path selects the default location.
	Settings func(configPath string) (driving.SettingsService, error)

	// Chunks creates the chunk builder for the index settings' post-processors.
	// No processor names selects the built-in pipeline.
	Chunks func(index domain.IndexSettings) (driving.ChunkBuilder, error)

	// Knowledge opens the knowledge base at path.
	Knowledge func(path string) driven.KnowledgeSource

	// Artifacts opens the artifact store at path.
	Artifacts func(path string) (ArtifactStore, error)

	// Embedder creates the embedding service for the given settings.
	Embedder func(settings *domain.AppSettings) (driven.EmbeddingService, error)

	// Inspector reads CV metadata. Optional.
	Inspector driven.DocumentInspector

	// Metrics creates a metrics recorder. Optional.
	Metrics func() Metrics
}

var rootCmd = &cobra.Command{
	Use:   "portfolio-rag",
	Short: "Retrieval for the portfolio chat assistant",
	Long: `portfolio-rag builds and serves the knowledge retrieval behind the
portfolio chat assistant.

The knowledge base is split into chunks, embedded offline into a vector
store artifact, and queried at runtime by cosine similarity. Answers that
fall below the relevance threshold return a generic profile summary.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.portfolio-rag/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file loaded at startup")
}

// Configure sets the adapters used by every command.
func Configure(d Dependencies) {
	deps = d
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup applies global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := loadEnv(envFile); err != nil {
		return err
	}

	if deps.Settings == nil {
		return errors.New("settings not configured")
	}
	svc, err := deps.Settings(configPath)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsService = svc
	return nil
}

// loadEnv loads a dotenv file without overriding variables already set.
// Only the default file may be absent.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		logger.Debug("Loaded environment from %s", path)
		return nil
	}
	if path == defaultEnvFile && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
