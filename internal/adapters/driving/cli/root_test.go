package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/portfolio-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
	"github.com/custodia-labs/portfolio-rag/internal/core/services"
	"github.com/custodia-labs/portfolio-rag/internal/postprocessors"
)

// memoryArtifacts adds a no-op Close to the in-memory store.
type memoryArtifacts struct {
	*memory.ArtifactStore
}

func (memoryArtifacts) Close() error { return nil }

func testKnowledgeBase() *domain.KnowledgeBase {
	return &domain.KnowledgeBase{
		Personal: domain.Personal{
			Name:      "Miguel Chumacero",
			Title:     "Ingeniero de Software",
			Summary:   "Desarrollador backend con experiencia en servicios en la nube.",
			Location:  "Lima, Perú",
			Languages: []string{"Español (nativo)", "Inglés (avanzado)"},
		},
		Contact: domain.Contact{
			Email:  "miguel@example.com",
			GitHub: "github.com/mchumacero",
		},
		Education: []domain.EducationEntry{
			{Degree: "Ingeniería de Sistemas", Institution: "Universidad Nacional de Ingeniería", Period: "2016 - 2021"},
			{Degree: "Inglés Avanzado", Institution: "ICPNA", Period: "2019 - 2020"},
		},
		Experience: []domain.ExperienceEntry{
			{Company: "Acme Cloud", Role: "Backend Developer", Period: "2021 - Presente"},
		},
		Skills: domain.SkillGroups{
			{Key: "backend", Skills: []string{"Go", "PostgreSQL"}},
		},
	}
}

// testEnv is the state shared by one test's command executions.
type testEnv struct {
	config    *memory.ConfigStore
	artifacts *memory.ArtifactStore
	kb        *domain.KnowledgeBase
	chunks    driving.ChunkBuilder
}

// setupTestServices configures in-memory adapters and the offline hash
// embedder, and restores the previous configuration on cleanup.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		config:    memory.NewConfigStore(),
		artifacts: memory.NewArtifactStore(nil),
		kb:        testKnowledgeBase(),
		chunks:    services.NewChunkBuilder(postprocessors.NewDefaultPipeline()),
	}
	require.NoError(t, env.config.Set("embedding.provider", string(domain.AIProviderHash)))

	settings := services.NewSettingsService(env.config, ai.NewConfigValidator())

	previous := deps
	Configure(Dependencies{
		Settings: func(string) (driving.SettingsService, error) { return settings, nil },
		Chunks: func(index domain.IndexSettings) (driving.ChunkBuilder, error) {
			pipeline, err := postprocessors.NewIndexPipeline(index)
			if err != nil {
				return nil, err
			}
			return services.NewChunkBuilder(pipeline), nil
		},
		Knowledge: func(string) driven.KnowledgeSource {
			return memory.NewKnowledgeSource(env.kb)
		},
		Artifacts: func(string) (ArtifactStore, error) {
			return memoryArtifacts{env.artifacts}, nil
		},
		Embedder: func(s *domain.AppSettings) (driven.EmbeddingService, error) {
			return ai.CreateEmbeddingService(&s.Embedding)
		},
	})
	t.Cleanup(func() {
		Configure(previous)
		settingsService = nil
	})
	return env
}

// execute runs the root command with args and returns combined output.
// Flags are reset first so values do not leak between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"chunks", "index", "retrieve", "artifact", "tools", "mcp", "settings", "version"} {
		require.Contains(t, names, want)
	}
}

func TestRootCmd_NoSettingsConfigured(t *testing.T) {
	previous := deps
	Configure(Dependencies{})
	defer Configure(previous)

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	require.Contains(t, err.Error(), "settings not configured")
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing default file is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, loadEnv(defaultEnvFile))
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		require.Error(t, loadEnv(t.TempDir()+"/custom.env"))
	})

	t.Run("loads variables", func(t *testing.T) {
		const key = "PORTFOLIO_RAG_DOTENV_TEST"
		path := t.TempDir() + "/test.env"
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0600))
		t.Cleanup(func() { os.Unsetenv(key) })

		require.NoError(t, loadEnv(path))
		require.Equal(t, "from-dotenv", os.Getenv(key))
	})
}
