package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by text; unknown texts get fallback.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	err        error
	batchErrAt int // batch call number (1-based) that fails; 0 never
	delay      time.Duration
	panicMsg   string
	model      string
	dims       int
	calls      int
	batchCalls int
	batchSizes []int
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	call := m.batchCalls
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.batchErrAt > 0 && call == m.batchErrAt {
		return nil, errors.New("provider rejected batch")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dims
}

func (m *mockEmbeddingService) ModelName() string {
	if m.model == "" {
		return "mock-embed"
	}
	return m.model
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// recordingMetrics implements driven.MetricsRecorder for testing.
type recordingMetrics struct {
	mu         sync.Mutex
	outcomes   []string
	embeddings int
	indexRuns  []bool
	tools      []string
}

func (r *recordingMetrics) ObserveRetrieval(outcome string, _ float64, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) ObserveEmbedding(_ string, _ int, _ bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings++
}

func (r *recordingMetrics) ObserveIndexRun(_ int, success bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexRuns = append(r.indexRuns, success)
}

func (r *recordingMetrics) ObserveTool(tool string, _ bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = append(r.tools, tool)
}

// failingMetrics panics when a retrieval outcome is recorded.
type failingMetrics struct{ recordingMetrics }

func (*failingMetrics) ObserveRetrieval(string, float64, time.Duration) {
	panic("recorder broke")
}

// mockDocumentInspector implements driven.DocumentInspector for testing.
type mockDocumentInspector struct {
	pages int
	err   error
	paths []string
}

func (m *mockDocumentInspector) PageCount(_ context.Context, path string) (int, error) {
	m.paths = append(m.paths, path)
	return m.pages, m.err
}

// --- Fixtures ---

func testKnowledgeBase() *domain.KnowledgeBase {
	return &domain.KnowledgeBase{
		Personal: domain.Personal{
			Name:           "Miguel Chumacero",
			Title:          "Ingeniero de Software",
			Specialization: "sistemas distribuidos",
			Summary:        "Desarrollador backend con experiencia en servicios en la nube.",
			Location:       "Lima, Perú",
			Languages:      []string{"Español (nativo)", "Inglés (avanzado)"},
			Expertise:      []string{"Go", "arquitectura de software"},
		},
		Contact: domain.Contact{
			Email:    "miguel@example.com",
			GitHub:   "github.com/mchumacero",
			LinkedIn: "linkedin.com/in/mchumacero",
		},
		Education: []domain.EducationEntry{
			{
				Degree:      "Ingeniería de Sistemas",
				Institution: "Universidad Nacional de Ingeniería",
				Period:      "2016 - 2021",
				Status:      "Egresado",
			},
			{
				Degree:      "Inglés Avanzado",
				Institution: "ICPNA",
				Period:      "2019 - 2020",
				Status:      "Completado",
			},
		},
		Experience: []domain.ExperienceEntry{
			{
				Company:          "Acme Cloud",
				Role:             "Backend Developer",
				Period:           "2021 - Presente",
				Description:      "Desarrollo de APIs de alto tráfico.",
				Responsibilities: []string{"Diseñar servicios en Go.", "Mantener pipelines de CI"},
			},
		},
		Skills: domain.SkillGroups{
			{Key: "backend", Skills: []string{"Go", "PostgreSQL"}},
			{Key: "cloud", Skills: []string{"AWS", "Docker"}},
		},
		ProfessionalProjects: []domain.Project{
			{Name: "Pagos API", Summary: "Plataforma de pagos.", Technologies: []string{"Go", "Kafka"}},
		},
		PersonalProjects: []domain.Project{
			{Name: "Portfolio", Summary: "Sitio personal con asistente.", Year: "2024"},
		},
	}
}

// storeWith builds a stamped store from (category, content, vector) triples.
func storeWith(model string, chunks ...domain.EmbeddedChunk) *domain.VectorStore {
	dims := 0
	if len(chunks) > 0 {
		dims = len(chunks[0].Embedding)
	}
	return &domain.VectorStore{
		StoreStamp: domain.StoreStamp{
			SchemaVersion: domain.ArtifactSchemaVersion,
			Model:         model,
			Dimensions:    dims,
		},
		Chunks: chunks,
	}
}

func embedded(category domain.Category, content string, vec ...float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{
		Chunk:     domain.Chunk{Content: content, Category: category},
		Embedding: vec,
	}
}
