package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

var (
	retrieveJSON      bool
	retrieveTopK      int
	retrieveThreshold float64
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve context for a question",
	Long: `Embeds the query, ranks every chunk in the vector store by cosine
similarity and prints the top results. When the best score is below the
threshold the generic profile summary is returned instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output the result as JSON")
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", domain.DefaultTopK, "number of chunks to keep")
	retrieveCmd.Flags().Float64VarP(&retrieveThreshold, "threshold", "t", domain.DefaultThreshold,
		"minimum best similarity")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top-k") {
		settings.Retrieval.TopK = retrieveTopK
	}
	if cmd.Flags().Changed("threshold") {
		settings.Retrieval.Threshold = retrieveThreshold
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), settings, recorder(newMetrics()))
	if err != nil {
		return err
	}
	defer s.Close()

	retrieval, err := s.runtime.Retrieval()
	if err != nil {
		return err
	}
	result := retrieval.Retrieve(cmd.Context(), args[0])

	if retrieveJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputRetrieval(cmd, args[0], result)
	return nil
}

func outputRetrieval(cmd *cobra.Command, query string, result domain.RetrievalResult) {
	styles := DefaultStyles()

	cmd.Println(styles.Title.Render("Query: " + query))
	cmd.Println()

	if result.Fallback {
		cmd.Println(styles.Warning.Render("No relevant context found; using the profile summary."))
		cmd.Println()
		cmd.Println(result.Context)
		return
	}

	for i, src := range result.Sources {
		cmd.Printf("  [%d] %s  %s\n", i+1, styles.Label.Render(src.Category), styles.Score(src.Similarity))
		cmd.Printf("      %s\n", styles.Muted.Render(src.Preview))
	}
	cmd.Println()
	cmd.Println(styles.Title.Render("Context"))
	cmd.Println(result.Context)
}
