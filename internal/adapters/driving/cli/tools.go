package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Invoke the assistant tools",
	Long: `Runs the tools offered to the chat assistant and prints their results
as JSON, the way an agent runtime receives them.`,
}

var toolsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run search_knowledge",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsSearch,
}

var toolsNavigateCmd = &cobra.Command{
	Use:   "navigate [section]",
	Short: "Run navigate_to_section",
	Long: `Validates a portfolio section. Sections: hero, education, skills,
experience, projects, contact, footer.`,
	Args: cobra.ExactArgs(1),
	RunE: runToolsNavigate,
}

var toolsContactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Run get_contact_info",
	Args:  cobra.NoArgs,
	RunE:  runToolsContact,
}

var toolsCVCmd = &cobra.Command{
	Use:   "cv",
	Short: "Run download_cv",
	Args:  cobra.NoArgs,
	RunE:  runToolsCV,
}

func init() {
	toolsCmd.AddCommand(toolsSearchCmd)
	toolsCmd.AddCommand(toolsNavigateCmd)
	toolsCmd.AddCommand(toolsContactCmd)
	toolsCmd.AddCommand(toolsCVCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runToolsSearch(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	metrics := recorder(newMetrics())
	s, err := openSession(cmd.Context(), settings, metrics)
	if err != nil {
		return err
	}
	defer s.Close()

	tools, err := toolService(s, settings, metrics)
	if err != nil {
		return err
	}
	return printToolResult(cmd, tools.SearchKnowledge(cmd.Context(), args[0]))
}

func runToolsNavigate(cmd *cobra.Command, args []string) error {
	tools, err := offlineTools(cmd)
	if err != nil {
		return err
	}
	result, err := tools.NavigateToSection(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printToolResult(cmd, result)
}

func runToolsContact(cmd *cobra.Command, _ []string) error {
	tools, err := offlineTools(cmd)
	if err != nil {
		return err
	}
	return printToolResult(cmd, tools.ContactInfo(cmd.Context()))
}

func runToolsCV(cmd *cobra.Command, _ []string) error {
	tools, err := offlineTools(cmd)
	if err != nil {
		return err
	}
	return printToolResult(cmd, tools.DownloadCV(cmd.Context()))
}

// offlineTools builds a tool service for the tools that never search, so
// no artifact or embedding provider is needed.
func offlineTools(cmd *cobra.Command) (*services.ToolService, error) {
	settings, err := currentSettings()
	if err != nil {
		return nil, err
	}
	if deps.Knowledge == nil {
		return nil, fmt.Errorf("knowledge base not configured")
	}
	kb, err := deps.Knowledge(settings.Paths.KnowledgeBase).Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	return services.NewToolService(nil, kb, cvFile(settings), deps.Inspector, nil), nil
}

// printToolResult prints a result tagged with its kind.
func printToolResult(cmd *cobra.Command, result domain.ToolResult) error {
	data, err := json.MarshalIndent(struct {
		Kind   domain.ToolKind   `json:"kind"`
		Result domain.ToolResult `json:"result"`
	}{result.Kind(), result}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
