package domain

import "fmt"

// Section is a navigable portfolio page section.
type Section string

// Portfolio sections, in page order.
const (
	SectionHero       Section = "hero"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionContact    Section = "contact"
	SectionFooter     Section = "footer"
)

// AllSections returns every section in page order.
func AllSections() []Section {
	return []Section{
		SectionHero,
		SectionEducation,
		SectionSkills,
		SectionExperience,
		SectionProjects,
		SectionContact,
		SectionFooter,
	}
}

// IsValid returns true if the section exists on the page.
func (s Section) IsValid() bool {
	for _, known := range AllSections() {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (s Section) String() string {
	return string(s)
}

// Label returns the heading shown on the page.
func (s Section) Label() string {
	switch s {
	case SectionHero:
		return "Inicio"
	case SectionEducation:
		return "Educación"
	case SectionSkills:
		return "Habilidades"
	case SectionExperience:
		return "Experiencia"
	case SectionProjects:
		return "Proyectos"
	case SectionContact:
		return "Contacto"
	case SectionFooter:
		return "Footer"
	default:
		return "Unknown"
	}
}

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	s := Section(name)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

// SectionForCategory maps a chunk category to the page section that shows it.
func SectionForCategory(category Category) Section {
	switch category {
	case CategoryPersonal, CategoryProfileGoal:
		return SectionHero
	case CategoryContact:
		return SectionContact
	case CategoryEducation, CategoryEducationLanguage:
		return SectionEducation
	case CategoryExperience:
		return SectionExperience
	case CategoryProfessionalProjectsOverview, CategoryPersonalProjectsOverview,
		CategoryProfessionalProjectDetail, CategoryPersonalProjectDetail:
		return SectionProjects
	}
	if len(category) > len(CategorySkillsPrefix) && category[:len(CategorySkillsPrefix)] == CategorySkillsPrefix {
		return SectionSkills
	}
	return SectionHero
}

// ToolKind tags each ToolResult variant.
type ToolKind string

// Tool result kinds.
const (
	ToolKindSearch   ToolKind = "search"
	ToolKindNavigate ToolKind = "navigate"
	ToolKindContact  ToolKind = "contact"
	ToolKindDownload ToolKind = "download"
)

// ToolResult is the closed set of results returned to an agent runtime.
// Only the variants in this package implement it.
type ToolResult interface {
	Kind() ToolKind
	toolResult()
}

// SearchResult wraps a knowledge retrieval.
type SearchResult struct {
	Query  string          `json:"query"`
	Result RetrievalResult `json:"result"`
}

// NavigateResult asks the UI to scroll to a section.
type NavigateResult struct {
	Section Section `json:"section"`
	Label   string  `json:"label"`
}

// ContactResult carries public contact fields.
type ContactResult struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// DownloadResult asks the UI to download the CV.
type DownloadResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`

	// Pages is the CV page count when the file was inspected, else 0.
	Pages int `json:"pages,omitempty"`
}

// Kind implements ToolResult.
func (SearchResult) Kind() ToolKind { return ToolKindSearch }

// Kind implements ToolResult.
func (NavigateResult) Kind() ToolKind { return ToolKindNavigate }

// Kind implements ToolResult.
func (ContactResult) Kind() ToolKind { return ToolKindContact }

// Kind implements ToolResult.
func (DownloadResult) Kind() ToolKind { return ToolKindDownload }

func (SearchResult) toolResult()   {}
func (NavigateResult) toolResult() {}
func (ContactResult) toolResult()  {}
func (DownloadResult) toolResult() {}

// CVFile describes the downloadable CV.
type CVFile struct {
	// Filename is the name the browser saves the file as.
	Filename string

	// Path is the public URL path of the file.
	Path string

	// LocalPath is an optional on-disk copy used for inspection.
	LocalPath string
}

// Default CV location served by the portfolio.
const (
	DefaultCVFilename = "Miguel_Chumacero_CV.pdf"
	DefaultCVPath     = "/cv.pdf"
)
