package render

import (
	"strings"

	"resume-builder/internal/model"
)

// creativeSplit: centered header ruled in the primary color with the most
// recent job title as subtitle, main column on the left and a sidebar with
// about, contact, skills and custom sections on the right.
type creativeSplit struct{}

func (creativeSplit) Columns() int { return 2 }

const defaultSubtitle = "Professional"

func (creativeSplit) Build(doc model.Resume, opts Options) *Node {
	c := doc.Contact
	border := borderToken(doc.Theme.PrimaryColor)
	mainHeading := "section__title section__title--small border-b-2 " + border
	const sideHeading = "section__title section__title--small"

	subtitle := defaultSubtitle
	if len(doc.Experience) > 0 && doc.Experience[0].JobTitle != "" {
		subtitle = doc.Experience[0].JobTitle
	}

	header := el("header", "creative__header border-b-4 "+border,
		txt("h1", "creative__name", strings.ToUpper(c.Name)).as(RoleName),
		txt("p", "creative__subtitle", subtitle),
	).as(RoleHeader)

	var jobs []*Node
	for _, exp := range doc.Experience {
		jobs = append(jobs, el("div", "entry",
			txt("h3", "entry__title", exp.JobTitle+", "+exp.Company),
			el("div", "entry__meta muted",
				txt("p", "", exp.Location),
				txt("p", "", dateRange(exp.StartDate, exp.EndDate)).as(RoleDates),
			),
			richNode("prose", exp.Description),
		).as(RoleEntry))
	}

	var schools []*Node
	for _, edu := range doc.Education {
		schools = append(schools, el("div", "entry",
			txt("h3", "entry__title", edu.Degree),
			el("div", "entry__meta muted",
				txt("p", "", edu.School+", "+edu.Location),
				txt("p", "", dateRange(edu.StartDate, edu.EndDate)).as(RoleDates),
			),
		).as(RoleEntry))
	}

	labeled := func(label, value string) *Node {
		return el("p", "",
			txt("strong", "", label).as(RoleLabel),
			txt("span", "", " "+contactValue(value, opts)),
		)
	}

	var chips []*Node
	for _, skill := range doc.Skills {
		chips = append(chips, txt("span", "chip "+doc.Theme.AccentColor+" text-white", skill).as(RoleChip))
	}
	var skills *Node
	if len(chips) > 0 {
		skills = el("div", "chips", chips...)
	}

	sidebar := []*Node{
		section(SectionSummary, "", "About Me", sideHeading, richNode("prose", doc.Summary)),
		section(SectionContact, "small-lines", "Contact", sideHeading,
			labeled("P:", c.Phone),
			labeled("E:", c.Email),
			labeled("A:", c.Address),
			labeled("W:", c.Website),
			labeled("L:", c.LinkedIn),
		),
		section(SectionSkills, "", "Skills", sideHeading, skills),
	}
	sidebar = append(sidebar, customSections(doc, "", sideHeading)...)

	return document("creative", "page-pad",
		header,
		el("div", "grid-3",
			el("main", "col-span-2 stack",
				section(SectionExperience, "", "Work Experience", mainHeading, jobs...),
				section(SectionEducation, "", "Education", mainHeading, schools...),
			).as(RoleMain),
			el("aside", "col-span-1 stack", sidebar...).as(RoleSidebar),
		),
	)
}
