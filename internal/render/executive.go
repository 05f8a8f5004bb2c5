package render

import (
	"strings"

	"resume-builder/internal/model"
)

// executive: a one-third sidebar filled with the primary color holding name,
// contact details and skills; the main column holds everything else.
type executive struct{}

func (executive) Columns() int { return 2 }

func (executive) Build(doc model.Resume, opts Options) *Node {
	c := doc.Contact
	const (
		sideHeading = "section__title section__title--boxed border-light"
		mainHeading = "section__title section__title--boxed border-slate"
	)

	var skills *Node
	if len(doc.Skills) > 0 {
		var items []*Node
		for _, skill := range doc.Skills {
			items = append(items, txt("li", "", skill))
		}
		skills = el("ul", "bullets", items...)
	}

	sidebar := el("aside", "exec__sidebar "+doc.Theme.PrimaryColor+" text-white",
		el("div", "center",
			txt("h1", "exec__name", strings.ToUpper(c.Name)).as(RoleName),
		),
		el("div", "stack",
			section(SectionContact, "exec__contact", "Contact", sideHeading,
				txt("p", "", contactValue(c.Phone, opts)),
				txt("p", "", contactValue(c.Email, opts)),
				txt("p", "", contactValue(c.Address, opts)),
				txt("p", "", contactValue(c.LinkedIn, opts)),
				txt("p", "", contactValue(c.Website, opts)),
			),
			section(SectionSkills, "", "Skills", sideHeading, skills),
		),
	).as(RoleSidebar)

	var jobs []*Node
	for _, exp := range doc.Experience {
		jobs = append(jobs, el("div", "entry",
			txt("h3", "entry__title", exp.JobTitle),
			el("div", "entry__meta",
				txt("p", "", exp.Company+" | "+exp.Location),
				txt("p", "", dateRange(exp.StartDate, exp.EndDate)).as(RoleDates),
			),
			richNode("prose", exp.Description),
		).as(RoleEntry))
	}

	var schools []*Node
	for _, edu := range doc.Education {
		schools = append(schools, el("div", "entry",
			txt("h3", "entry__title", edu.Degree),
			el("div", "entry__meta",
				txt("p", "", edu.School+", "+edu.Location),
				txt("p", "", dateRange(edu.StartDate, edu.EndDate)).as(RoleDates),
			),
		).as(RoleEntry))
	}

	sections := []*Node{
		section(SectionSummary, "", "Professional Summary", mainHeading, richNode("prose", doc.Summary)),
		section(SectionExperience, "", "Work Experience", mainHeading, jobs...),
		section(SectionEducation, "", "Education", mainHeading, schools...),
	}
	sections = append(sections, customSections(doc, "", mainHeading)...)

	return document("executive", "flex",
		sidebar,
		el("main", "exec__main stack", sections...).as(RoleMain),
	)
}
