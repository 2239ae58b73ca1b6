package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Inspect the vector store artifact",
}

var artifactInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show the artifact stamp and chunk categories",
	Long: `Loads the artifact and prints how it was built (schema version, model,
dimensions, creation time) and how many chunks each category holds.
Without a path, paths.artifact is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArtifactInspect,
}

func init() {
	artifactCmd.AddCommand(artifactInspectCmd)
	rootCmd.AddCommand(artifactCmd)
}

func runArtifactInspect(cmd *cobra.Command, args []string) error {
	if deps.Artifacts == nil {
		return errors.New("artifact store not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		settings, err := currentSettings()
		if err != nil {
			return err
		}
		path = settings.Paths.Artifact
	}

	artifacts, err := deps.Artifacts(path)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	store, err := artifacts.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	styles := DefaultStyles()
	status := styles.Success.Render("valid")
	if err := store.Validate(); err != nil {
		status = styles.Error.Render(err.Error())
	}

	cmd.Println(styles.Title.Render("Artifact " + artifacts.Path()))
	cmd.Printf("  Schema:     v%d\n", store.SchemaVersion)
	cmd.Printf("  Model:      %s\n", store.Model)
	cmd.Printf("  Dimensions: %d\n", store.Dimensions)
	if !store.CreatedAt.IsZero() {
		cmd.Printf("  Created:    %s\n", store.CreatedAt.UTC().Format(time.RFC3339))
	}
	cmd.Printf("  Chunks:     %d\n", store.Len())
	cmd.Printf("  Status:     %s\n", status)
	cmd.Println()

	cmd.Println(styles.Title.Render("Categories"))
	for _, cc := range store.Categories() {
		cmd.Printf("  %-34s %d\n", cc.Category, cc.Count)
	}
	return nil
}
