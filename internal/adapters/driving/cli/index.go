package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/knowledge"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
	"github.com/custodia-labs/portfolio-rag/internal/logger"
)

var (
	indexWatch  bool
	indexOutput string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector store artifact",
	Long: `Builds chunks from the knowledge base, embeds them with the configured
provider and writes the vector store artifact. The artifact extension selects
the format: .json (default), .gob, or .db/.sqlite for SQLite.

Any embedding failure aborts the run and leaves the previous artifact intact.

Use --watch to rebuild whenever the knowledge base file changes.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild when the knowledge base changes")
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "artifact path (overrides paths.artifact)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if indexOutput != "" {
		settings.Paths.Artifact = indexOutput
	}
	if deps.Knowledge == nil || deps.Artifacts == nil || deps.Embedder == nil || deps.Chunks == nil {
		return errors.New("adapters not configured")
	}

	builder, err := deps.Chunks(settings.Index)
	if err != nil {
		return err
	}

	embedder, err := deps.Embedder(settings)
	if err != nil {
		return err
	}
	defer embedder.Close()

	artifacts, err := deps.Artifacts(settings.Paths.Artifact)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	source := deps.Knowledge(settings.Paths.KnowledgeBase)
	indexer := services.NewIndexService(
		source, builder, embedder, artifacts, settings.Index, recorder(newMetrics()),
	)

	ctx := cmd.Context()
	if err := indexOnce(ctx, cmd, indexer); err != nil && !indexWatch {
		return err
	}
	if !indexWatch {
		return nil
	}

	return watchAndIndex(ctx, cmd, indexer, source.Path())
}

// indexOnce runs one indexing pass and reports the result.
func indexOnce(ctx context.Context, cmd *cobra.Command, indexer driving.IndexService) error {
	styles := DefaultStyles()
	report, err := indexer.Run(ctx, progressPrinter(cmd.OutOrStdout(), styles))
	if err != nil {
		var indexErr *domain.IndexError
		if errors.As(err, &indexErr) {
			cmd.PrintErrln(styles.Error.Render(fmt.Sprintf(
				"Embedding failed at chunk %d (%s)", indexErr.Index, indexErr.Category)))
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Println(styles.Success.Render(fmt.Sprintf("Indexed %d chunks", report.Chunks)))
	cmd.Printf("  Model:      %s (%d dims)\n", report.Model, report.Dimensions)
	cmd.Printf("  Artifact:   %s\n", report.ArtifactPath)
	cmd.Printf("  Duration:   %s\n", report.Duration.Round(time.Millisecond))
	return nil
}

// watchAndIndex re-runs indexing on every knowledge base change until ctx
// is cancelled. Failed runs are reported and watching continues.
func watchAndIndex(ctx context.Context, cmd *cobra.Command, indexer driving.IndexService, path string) error {
	changes, err := knowledge.NewWatcher(path, knowledge.DefaultDebounce).Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	for range changes {
		logger.Info("Knowledge base changed, re-indexing")
		if err := indexOnce(ctx, cmd, indexer); err != nil {
			cmd.PrintErrln(err)
		}
	}
	return nil
}

// progressPrinter draws a progress bar on terminals and nothing otherwise.
func progressPrinter(w io.Writer, styles *Styles) driving.IndexProgress {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(done, total int) {
		fraction := 0.0
		if total > 0 {
			fraction = float64(done) / float64(total)
		}
		fmt.Fprintf(w, "\rEmbedding %s %d/%d", styles.Bar(fraction), done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
