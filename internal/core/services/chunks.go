package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/portfolio-rag/internal/core/domain"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driven"
	"github.com/custodia-labs/portfolio-rag/internal/core/ports/driving"
)

// Ensure ChunkBuilder implements the interface.
var _ driving.ChunkBuilder = (*ChunkBuilder)(nil)

// languageProgram matches education programs that certify a language, which
// get a second chunk so language questions can find them directly.
var languageProgram = regexp.MustCompile(
	`(?i)\b(ingl[eé]s|english|idiomas?|languages?|franc[eé]s|french|portugu[eé]s|portuguese|` +
		`alem[aá]n|german|italiano|italian|japon[eé]s|japanese|chino|mandar[ií]n|toefl|ielts|cambridge)\b`)

// ChunkBuilder turns a knowledge base into chunks, one per logical fact group.
// Output is a pure function of the knowledge base and the pipeline.
type ChunkBuilder struct {
	pipeline driven.PostProcessorPipeline
}

// NewChunkBuilder creates a chunk builder. The pipeline is optional; when
// nil, chunks are returned exactly as built.
func NewChunkBuilder(pipeline driven.PostProcessorPipeline) *ChunkBuilder {
	return &ChunkBuilder{pipeline: pipeline}
}

// Build returns the chunks for kb in knowledge-base field order.
func (b *ChunkBuilder) Build(kb *domain.KnowledgeBase) ([]domain.Chunk, error) {
	if err := kb.Validate(); err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, 8+len(kb.Education)*2+len(kb.Experience)+
		len(kb.Skills)+len(kb.ProfessionalProjects)+len(kb.PersonalProjects))
	add := func(category domain.Category, content string) {
		chunks = append(chunks, domain.Chunk{Content: content, Category: category})
	}

	p := kb.Personal
	add(domain.CategoryPersonal, personalChunk(p))
	add(domain.CategoryProfileGoal, profileGoalChunk(p))
	add(domain.CategoryContact, contactChunk(p, kb.Contact))

	for _, edu := range kb.Education {
		add(domain.CategoryEducation, educationChunk(edu))
		if languageProgram.MatchString(edu.Degree) {
			add(domain.CategoryEducationLanguage, languageChunk(p.Name, edu))
		}
	}

	for _, exp := range kb.Experience {
		add(domain.CategoryExperience, experienceChunk(exp))
	}

	for _, group := range kb.Skills {
		add(domain.SkillsCategory(group.Key), skillsChunk(p.Name, group))
	}

	if len(kb.ProfessionalProjects) > 0 {
		add(domain.CategoryProfessionalProjectsOverview,
			projectsOverviewChunk("Proyectos profesionales", p.Name, kb.ProfessionalProjects))
	}
	if len(kb.PersonalProjects) > 0 {
		add(domain.CategoryPersonalProjectsOverview,
			projectsOverviewChunk("Proyectos personales", p.Name, kb.PersonalProjects))
	}
	for _, project := range kb.ProfessionalProjects {
		add(domain.CategoryProfessionalProjectDetail, projectDetailChunk("Proyecto profesional", project))
	}
	for _, project := range kb.PersonalProjects {
		add(domain.CategoryPersonalProjectDetail, projectDetailChunk("Proyecto personal", project))
	}

	if b.pipeline == nil {
		return chunks, nil
	}
	processed, err := b.pipeline.Process(context.Background(), chunks)
	if err != nil {
		return nil, fmt.Errorf("post-processing chunks: %w", err)
	}
	return processed, nil
}

func personalChunk(p domain.Personal) string {
	intro := p.Name + " es " + strings.TrimSuffix(p.Title, ".")
	if p.Specialization != "" {
		intro += " especializado en " + p.Specialization
	}
	return sentences(
		intro,
		p.Summary,
		labelled("Ubicación", p.Location),
		labelled("Idiomas", strings.Join(p.Languages, ", ")),
	)
}

func profileGoalChunk(p domain.Personal) string {
	if p.Goal != "" {
		return sentences("Objetivo profesional de " + p.Name + ": " + p.Goal)
	}

	focus := strings.Join(p.Expertise, ", ")
	if focus == "" {
		focus = p.Specialization
	}
	goal := p.Name + " busca oportunidades como " + strings.TrimSuffix(p.Title, ".")
	if focus != "" {
		goal += ", enfocadas en " + focus
	}
	return sentences("Objetivo profesional: " + goal)
}

func contactChunk(p domain.Personal, c domain.Contact) string {
	location := c.Location
	if location == "" {
		location = p.Location
	}
	return sentences(
		"Contacto de "+p.Name,
		labelled("Email", c.Email),
		labelled("Teléfono", c.Phone),
		labelled("Ubicación", location),
		labelled("GitHub", c.GitHub),
		labelled("LinkedIn", c.LinkedIn),
		labelled("Sitio web", c.Website),
	)
}

func educationChunk(e domain.EducationEntry) string {
	head := "Educación: " + e.Degree + " en " + e.Institution
	if e.Location != "" {
		head += ", " + e.Location
	}
	if e.Period != "" {
		head += " (" + e.Period + ")"
	}
	parts := []string{head, e.Faculty, labelled("Estado", e.Status)}
	parts = append(parts, e.Highlights...)
	return sentences(parts...)
}

func languageChunk(name string, e domain.EducationEntry) string {
	head := "Idiomas: " + name + " cuenta con formación en " + e.Degree + " (" + e.Institution
	if e.Period != "" {
		head += ", " + e.Period
	}
	head += ")"
	return sentences(head, labelled("Estado", e.Status))
}

func experienceChunk(e domain.ExperienceEntry) string {
	head := "Experiencia: " + e.Role + " en " + e.Company
	if e.Period != "" {
		head += " (" + e.Period + ")"
	}
	var responsibilities string
	if len(e.Responsibilities) > 0 {
		trimmed := make([]string, 0, len(e.Responsibilities))
		for _, r := range e.Responsibilities {
			trimmed = append(trimmed, strings.TrimRight(strings.TrimSpace(r), "."))
		}
		responsibilities = "Responsabilidades principales: " + strings.Join(trimmed, "; ")
	}
	return sentences(head, e.Description, responsibilities)
}

func skillsChunk(name string, g domain.SkillGroup) string {
	label := strings.ReplaceAll(g.Key, "_", " ")
	if len(g.Skills) == 0 {
		return sentences("Habilidades de " + name + " en " + label + ": sin elementos registrados")
	}
	return sentences("Habilidades de " + name + " en " + label + ": " + strings.Join(g.Skills, ", "))
}

func projectsOverviewChunk(heading, name string, projects []domain.Project) string {
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return sentences(fmt.Sprintf("%s de %s (%d): %s", heading, name, len(projects), strings.Join(names, ", ")))
}

func projectDetailChunk(heading string, p domain.Project) string {
	return sentences(
		heading+": "+p.Name,
		p.Summary,
		p.Details,
		labelled("Tecnologías", strings.Join(p.Technologies, ", ")),
		labelled("Estado", p.Status),
		labelled("Año", p.Year),
	)
}

// labelled renders "Label: value", or nothing when value is empty.
func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

// sentences joins non-empty parts as sentences, each ending in punctuation.
func sentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasSuffix(part, ".") && !strings.HasSuffix(part, "!") && !strings.HasSuffix(part, "?") {
			part += "."
		}
		out = append(out, part)
	}
	return strings.Join(out, " ")
}
