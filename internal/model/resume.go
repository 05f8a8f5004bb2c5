package model

import (
	"slices"

	"resume-builder/internal/richtext"

	"github.com/google/uuid"
)

// Go models for the resume document edited in a session, rendered by the
// template renderer and exchanged with persistence backends.

type TemplateID string

const (
	TemplateModern        TemplateID = "Modern"
	TemplateMinimalist    TemplateID = "Minimalist"
	TemplateExecutive     TemplateID = "Executive"
	TemplateCreativeSplit TemplateID = "CreativeSplit"
)

// Known reports whether id is one of the built-in templates. Unknown ids are
// still stored as-is and render through the default layout.
func (id TemplateID) Known() bool {
	switch id {
	case TemplateModern, TemplateMinimalist, TemplateExecutive, TemplateCreativeSplit:
		return true
	}
	return false
}

type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
}

type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Address  string `json:"address"`
}

type WorkExperience struct {
	ID          string            `json:"id"`
	JobTitle    string            `json:"jobTitle"`
	Company     string            `json:"company"`
	Location    string            `json:"location"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Description richtext.Fragment `json:"description"`
}

type Education struct {
	ID        string `json:"id"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type CustomSection struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Content richtext.Fragment `json:"content"`
}

// Resume is the whole document. Values are treated as immutable: every
// operation in this package returns a new Resume and leaves its input intact.
type Resume struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Template       TemplateID        `json:"template"`
	Theme          Theme             `json:"theme"`
	Contact        ContactInfo       `json:"contact"`
	Summary        richtext.Fragment `json:"summary"`
	Experience     []WorkExperience  `json:"experience"`
	Education      []Education       `json:"education"`
	Skills         []string          `json:"skills"`
	CustomSections []CustomSection   `json:"customSections"`
}

const (
	DefaultTitle        = "Untitled Resume"
	DefaultSectionTitle = "New Section"
)

// DefaultTheme is applied to freshly created documents.
var DefaultTheme = Theme{PrimaryColor: "bg-blue-600", AccentColor: "bg-blue-500"}

// NewResume returns a new document seeded with placeholder content.
func NewResume(template TemplateID) Resume {
	return Resume{
		ID:       uuid.NewString(),
		Title:    DefaultTitle,
		Template: template,
		Theme:    DefaultTheme,
		Contact: ContactInfo{
			Name:     "Your Name",
			Email:    "your.email@example.com",
			Phone:    "(555) 123-4567",
			LinkedIn: "linkedin.com/in/yourprofile",
			Website:  "yourportfolio.com",
			Address:  "Your City, Your State",
		},
		Summary:        richtext.Sanitize("A brief summary of your career objectives and qualifications."),
		Experience:     []WorkExperience{},
		Education:      []Education{},
		Skills:         []string{"React", "TypeScript", "Tailwind CSS", "Node.js"},
		CustomSections: []CustomSection{},
	}
}

func NewWorkExperience() WorkExperience { return WorkExperience{ID: uuid.NewString()} }

func NewEducation() Education { return Education{ID: uuid.NewString()} }

func NewCustomSection() CustomSection {
	return CustomSection{ID: uuid.NewString(), Title: DefaultSectionTitle}
}

// clone copies every slice so the result can be modified without touching r.
func (r Resume) clone() Resume {
	r.Experience = slices.Clone(r.Experience)
	r.Education = slices.Clone(r.Education)
	r.Skills = slices.Clone(r.Skills)
	r.CustomSections = slices.Clone(r.CustomSections)
	return r
}

// withEmptyLists replaces nil lists so they encode as [] rather than null.
func (r Resume) withEmptyLists() Resume {
	if r.Experience == nil {
		r.Experience = []WorkExperience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.CustomSections == nil {
		r.CustomSections = []CustomSection{}
	}
	return r
}
