package domain

import (
	"fmt"
	"time"
)

// Category identifies which knowledge-base facet produced a chunk.
// Values are stable identifiers; renaming one breaks downstream mappings.
type Category = string

// Chunk categories emitted by the chunk builder.
const (
	CategoryPersonal                     Category = "personal"
	CategoryProfileGoal                  Category = "profile_goal"
	CategoryContact                      Category = "contact"
	CategoryEducation                    Category = "education"
	CategoryEducationLanguage            Category = "education_language"
	CategoryExperience                   Category = "experience"
	CategorySkillsPrefix                 Category = "skills_"
	CategoryProfessionalProjectsOverview Category = "professional_projects_overview"
	CategoryPersonalProjectsOverview     Category = "personal_projects_overview"
	CategoryProfessionalProjectDetail    Category = "professional_project_detail"
	CategoryPersonalProjectDetail        Category = "personal_project_detail"
)

// SkillsCategory returns the category for a skill group key.
func SkillsCategory(key string) Category {
	return CategorySkillsPrefix + key
}

// MaxChunkWords bounds chunk content so each chunk stays a modest
// contribution to a model's context window.
const MaxChunkWords = 300

// Chunk is a unit of retrievable knowledge.
type Chunk struct {
	// ID is derived from category and content, so it is stable across runs.
	ID string `json:"id,omitempty"`

	// Content is plain text that can be quoted verbatim as model context.
	Content string `json:"content"`

	// Category names the knowledge-base facet that produced the chunk.
	Category Category `json:"category"`
}

// EmbeddedChunk is a chunk plus its embedding vector.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the model-determined dense vector for Content.
	Embedding []float32 `json:"embedding"`
}

// ArtifactSchemaVersion is bumped whenever the persisted record shape changes.
const ArtifactSchemaVersion = 1

// StoreStamp identifies how a vector store was built.
type StoreStamp struct {
	// SchemaVersion is the artifact record layout version.
	SchemaVersion int `json:"schema_version"`

	// Model is the embedding model that produced every vector.
	Model string `json:"model"`

	// Dimensions is the length of every vector.
	Dimensions int `json:"dimensions"`

	// CreatedAt is when the indexer finished.
	CreatedAt time.Time `json:"created_at"`
}

// VectorStore is the flat, ordered collection of embedded chunks.
// It is built once offline, loaded read-only, and shared by concurrent
// readers without locking. Callers must not modify Chunks.
type VectorStore struct {
	StoreStamp

	// Chunks preserves the chunk builder's order.
	Chunks []EmbeddedChunk `json:"chunks"`
}

// Len returns the number of chunks.
func (s *VectorStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Chunks)
}

// Validate checks the stamp and that every vector has the stamped length.
func (s *VectorStore) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil store", ErrArtifactCorrupt)
	}
	if s.SchemaVersion != ArtifactSchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d",
			ErrArtifactCorrupt, s.SchemaVersion, ArtifactSchemaVersion)
	}
	if s.Model == "" {
		return fmt.Errorf("%w: missing model stamp", ErrArtifactCorrupt)
	}
	for i, c := range s.Chunks {
		if len(c.Embedding) != s.Dimensions {
			return fmt.Errorf("%w: chunk %d (%s) has %d dimensions, stamp says %d",
				ErrDimensionMismatch, i, c.Category, len(c.Embedding), s.Dimensions)
		}
	}
	return nil
}

// CheckModel fails when the store was built with a different model or
// vector size than the live configuration. A zero dimensions argument
// skips the size check.
func (s *VectorStore) CheckModel(model string, dimensions int) error {
	if s.Model != model {
		return fmt.Errorf("%w: artifact built with %q, configured %q; rebuild the index",
			ErrModelMismatch, s.Model, model)
	}
	if dimensions > 0 && s.Dimensions != dimensions {
		return fmt.Errorf("%w: artifact has %d dimensions, %s produces %d",
			ErrDimensionMismatch, s.Dimensions, model, dimensions)
	}
	return nil
}

// Categories returns the number of chunks per category, in first-seen order.
func (s *VectorStore) Categories() []CategoryCount {
	var counts []CategoryCount
	index := make(map[string]int)
	for _, c := range s.Chunks {
		if i, ok := index[c.Category]; ok {
			counts[i].Count++
			continue
		}
		index[c.Category] = len(counts)
		counts = append(counts, CategoryCount{Category: c.Category, Count: 1})
	}
	return counts
}

// CategoryCount is one row of a category histogram.
type CategoryCount struct {
	Category Category
	Count    int
}
