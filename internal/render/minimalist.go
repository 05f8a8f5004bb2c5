package render

import (
	"strings"

	"resume-builder/internal/model"
)

// minimalist: single centered column, contact details separated by accent dots.
type minimalist struct{}

func (minimalist) Columns() int { return 1 }

func (minimalist) Build(doc model.Resume, _ Options) *Node {
	c := doc.Contact
	const heading = "section__title section__title--light"
	dot := func() *Node { return el("span", "dot "+doc.Theme.AccentColor) }

	contact := []*Node{
		txt("span", "", c.Phone), dot(),
		txt("span", "", c.Email), dot(),
		txt("span", "", c.LinkedIn),
	}
	if c.Website != "" {
		contact = append(contact, dot(), txt("span", "", c.Website))
	}

	header := el("header", "minimal__header",
		txt("h1", "minimal__name", strings.ToUpper(c.Name)).as(RoleName),
		contactRow("minimal__contact", contact...),
	).as(RoleHeader)

	var jobs []*Node
	for _, exp := range doc.Experience {
		jobs = append(jobs, el("div", "entry avoid-break",
			el("div", "entry__row",
				txt("h3", "entry__title", exp.JobTitle),
				txt("div", "entry__dates", dateRange(exp.StartDate, exp.EndDate)).as(RoleDates),
			),
			el("div", "entry__row",
				txt("p", "strong", exp.Company),
				txt("p", "muted", exp.Location),
			),
			richNode("prose", exp.Description),
		).as(RoleEntry))
	}

	var schools []*Node
	for _, edu := range doc.Education {
		schools = append(schools, el("div", "entry avoid-break",
			el("div", "entry__row",
				txt("h3", "entry__title", edu.Degree),
				txt("div", "entry__dates", dateRange(edu.StartDate, edu.EndDate)).as(RoleDates),
			),
			el("div", "entry__row",
				txt("p", "strong", edu.School),
				txt("p", "muted", edu.Location),
			),
		).as(RoleEntry))
	}

	var skills *Node
	if len(doc.Skills) > 0 {
		skills = txt("p", "muted", strings.Join(doc.Skills, " • "))
	}

	sections := []*Node{
		section(SectionSummary, "", "Summary", heading, richNode("prose", doc.Summary)),
		section(SectionExperience, "", "Experience", heading, jobs...),
		section(SectionEducation, "", "Education", heading, schools...),
		section(SectionSkills, "", "Skills", heading, skills),
	}
	sections = append(sections, customSections(doc, "", heading)...)

	return document("minimalist", "page-pad serif",
		header,
		el("main", "stack", sections...).as(RoleMain),
	)
}
