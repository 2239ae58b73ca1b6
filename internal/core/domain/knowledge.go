package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KnowledgeBase is the curated profile record the index is built from.
// It is read once per indexing run and never mutated at request time.
type KnowledgeBase struct {
	// Personal holds identity and summary fields.
	Personal Personal `json:"personal" toml:"personal"`

	// Contact holds public contact details.
	Contact Contact `json:"contact" toml:"contact"`

	// Education is ordered as presented on the portfolio.
	Education []EducationEntry `json:"education" toml:"education"`

	// Experience is ordered as presented on the portfolio.
	Experience []ExperienceEntry `json:"experience" toml:"experience"`

	// Skills maps a skill category key to skill names, in document order.
	Skills SkillGroups `json:"skills" toml:"skills"`

	// ProfessionalProjects are projects delivered for employers or clients.
	ProfessionalProjects []Project `json:"professional_projects" toml:"professional_projects"`

	// PersonalProjects are side projects.
	PersonalProjects []Project `json:"personal_projects" toml:"personal_projects"`
}

// Personal describes who the portfolio belongs to.
type Personal struct {
	Name           string   `json:"name" toml:"name"`
	Title          string   `json:"title" toml:"title"`
	Specialization string   `json:"specialization" toml:"specialization"`
	Summary        string   `json:"summary" toml:"summary"`
	Location       string   `json:"location" toml:"location"`
	Languages      []string `json:"languages" toml:"languages"`

	// Goal is an optional statement of what the person is looking for next.
	Goal string `json:"goal,omitempty" toml:"goal,omitempty"`

	// Expertise lists headline areas, used when synthesising the goal chunk.
	Expertise []string `json:"expertise,omitempty" toml:"expertise,omitempty"`
}

// Contact holds public contact details. Empty optional fields are omitted
// from generated text.
type Contact struct {
	Email    string `json:"email" toml:"email"`
	Phone    string `json:"phone,omitempty" toml:"phone,omitempty"`
	Location string `json:"location,omitempty" toml:"location,omitempty"`
	GitHub   string `json:"github,omitempty" toml:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" toml:"linkedin,omitempty"`
	Website  string `json:"website,omitempty" toml:"website,omitempty"`
}

// EducationEntry is a degree, program or certification.
type EducationEntry struct {
	Degree      string   `json:"degree" toml:"degree"`
	Institution string   `json:"institution" toml:"institution"`
	Faculty     string   `json:"faculty,omitempty" toml:"faculty,omitempty"`
	Period      string   `json:"period" toml:"period"`
	Status      string   `json:"status,omitempty" toml:"status,omitempty"`
	Location    string   `json:"location,omitempty" toml:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty" toml:"highlights,omitempty"`
}

// ExperienceEntry is one job.
type ExperienceEntry struct {
	Company          string   `json:"company" toml:"company"`
	Role             string   `json:"role" toml:"role"`
	Period           string   `json:"period" toml:"period"`
	Description      string   `json:"description,omitempty" toml:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty" toml:"responsibilities,omitempty"`
}

// Project is a professional or personal project.
type Project struct {
	Name         string   `json:"name" toml:"name"`
	Summary      string   `json:"summary" toml:"summary"`
	Details      string   `json:"details,omitempty" toml:"details,omitempty"`
	Technologies []string `json:"technologies,omitempty" toml:"technologies,omitempty"`
	Status       string   `json:"status,omitempty" toml:"status,omitempty"`
	Year         string   `json:"year,omitempty" toml:"year,omitempty"`
}

// SkillGroup is one skill category and its skills.
type SkillGroup struct {
	Key    string   `json:"key" toml:"key"`
	Skills []string `json:"skills" toml:"skills"`
}

// SkillGroups is an ordered skill-category mapping.
//
// In JSON it is written as an object whose key order is preserved on decode,
// so chunk order follows the document. An array of SkillGroup is also
// accepted. TOML documents use an array of tables.
type SkillGroups []SkillGroup

// Get returns the skills for a category key.
func (g SkillGroups) Get(key string) ([]string, bool) {
	for _, group := range g {
		if group.Key == key {
			return group.Skills, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes an object or array, keeping object key order.
func (g *SkillGroups) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*g = nil
		return nil
	}

	if trimmed[0] == '[' {
		var groups []SkillGroup
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return fmt.Errorf("decoding skill groups: %w", err)
		}
		*g = groups
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding skill groups: %w", err)
	}

	var groups SkillGroups
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding skill key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: skill key %v", ErrInvalidInput, tok)
		}
		var skills []string
		if err := dec.Decode(&skills); err != nil {
			return fmt.Errorf("decoding skills for %q: %w", key, err)
		}
		groups = append(groups, SkillGroup{Key: key, Skills: skills})
	}

	*g = groups
	return nil
}

// MarshalJSON writes the groups as an object in slice order.
func (g SkillGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Key)
		if err != nil {
			return nil, err
		}
		skills, err := json.Marshal(group.Skills)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(skills)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Validate checks the fields every generated chunk depends on.
func (kb *KnowledgeBase) Validate() error {
	if kb == nil {
		return fmt.Errorf("%w: knowledge base is nil", ErrInvalidInput)
	}
	if kb.Personal.Name == "" {
		return fmt.Errorf("%w: personal.name is required", ErrInvalidInput)
	}
	if kb.Personal.Title == "" {
		return fmt.Errorf("%w: personal.title is required", ErrInvalidInput)
	}
	for i, group := range kb.Skills {
		if group.Key == "" {
			return fmt.Errorf("%w: skills[%d] has no key", ErrInvalidInput, i)
		}
	}
	return nil
}
