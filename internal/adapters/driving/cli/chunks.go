package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

var chunksJSON bool

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Print the chunks built from the knowledge base",
	Long: `Builds chunks from the knowledge base exactly as the indexer would and
prints them in order. Nothing is embedded or written.`,
	Args: cobra.NoArgs,
	RunE: runChunks,
}

func init() {
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if deps.Knowledge == nil || deps.Chunks == nil {
		return errors.New("chunk builder not configured")
	}

	kb, err := deps.Knowledge(settings.Paths.KnowledgeBase).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	builder, err := deps.Chunks(settings.Index)
	if err != nil {
		return err
	}
	chunks, err := builder.Build(kb)
	if err != nil {
		return fmt.Errorf("building chunks: %w", err)
	}

	if chunksJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputChunks(cmd, chunks)
	return nil
}

func outputChunks(cmd *cobra.Command, chunks []domain.Chunk) {
	styles := DefaultStyles()
	for i, c := range chunks {
		cmd.Printf("[%d] %s %s\n", i+1,
			styles.Label.Render(c.Category),
			styles.Muted.Render(fmt.Sprintf("(%d words)", len(strings.Fields(c.Content)))))
		cmd.Printf("    %s\n\n", c.Content)
	}
	cmd.Printf("%d chunks\n", len(chunks))
}
