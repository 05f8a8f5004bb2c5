package render

import (
	"strings"

	"resume-builder/internal/model"
)

// modern: full-bleed header band in the primary color, a full-width summary
// and a two-thirds / one-third split below it.
type modern struct{}

func (modern) Columns() int { return 2 }

func (modern) Build(doc model.Resume, _ Options) *Node {
	c := doc.Contact
	const heading = "section__title section__title--ruled"

	header := el("header", "modern__header "+doc.Theme.PrimaryColor+" text-white",
		txt("h1", "modern__name", strings.ToUpper(c.Name)).as(RoleName),
		contactRow("modern__contact",
			txt("span", "", c.Email),
			txt("span", "", c.Phone),
			txt("span", "", c.LinkedIn),
			txt("span", "", c.Website),
		),
	).as(RoleHeader)

	var jobs []*Node
	for _, exp := range doc.Experience {
		jobs = append(jobs, el("div", "entry",
			txt("h3", "entry__title", exp.JobTitle),
			el("div", "entry__meta",
				txt("p", "", exp.Company+" - "+exp.Location),
				txt("p", "", dateRange(exp.StartDate, exp.EndDate)).as(RoleDates),
			),
			richNode("prose entry__body", exp.Description),
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

	var chips []*Node
	for _, skill := range doc.Skills {
		chips = append(chips, txt("li", "chip "+doc.Theme.AccentColor+" text-white", skill).as(RoleChip))
	}
	var skills *Node
	if len(chips) > 0 {
		skills = el("ul", "chips", chips...)
	}

	mainCol := el("div", "col-span-2 stack",
		section(SectionExperience, "", "Work Experience", heading, jobs...),
		section(SectionEducation, "", "Education", heading, schools...),
	).as(RoleMain)
	sidebar := el("div", "col-span-1 stack",
		append([]*Node{section(SectionSkills, "", "Skills", heading, skills)},
			customSections(doc, "", heading)...)...,
	).as(RoleSidebar)

	return document("modern", "page-pad",
		header,
		el("div", "modern__spacer"),
		el("div", "stack",
			section(SectionSummary, "", "Professional Summary", heading, richNode("prose", doc.Summary)),
			el("div", "grid-3", mainCol, sidebar),
		),
	)
}

func contactRow(class string, items ...*Node) *Node {
	row := el("div", class, items...)
	row.Section = SectionContact
	return row
}
