package render

import (
	"strings"
	"testing"

	"resume-builder/internal/model"
	"resume-builder/internal/richtext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTemplates = []model.TemplateID{
	model.TemplateModern,
	model.TemplateMinimalist,
	model.TemplateExecutive,
	model.TemplateCreativeSplit,
}

func engineerResume(template model.TemplateID) model.Resume {
	r := model.NewResume(template)
	r.Experience = []model.WorkExperience{{
		ID:          "e1",
		JobTitle:    "Engineer",
		Company:     "Acme",
		Location:    "Remote",
		StartDate:   "2020",
		EndDate:     "2022",
		Description: richtext.Sanitize("<ul><li>Shipped things</li></ul>"),
	}}
	return r
}

func TestRender_ExperienceEntry(t *testing.T) {
	for _, id := range allTemplates {
		t.Run(string(id), func(t *testing.T) {
			tree := Render(engineerResume(id), Options{})

			exp := tree.Section(SectionExperience)
			require.NotNil(t, exp)
			text := exp.PlainText()
			assert.Contains(t, text, "Engineer")
			assert.Contains(t, text, "2020 - 2022")
			assert.Contains(t, text, "Shipped things")
		})
	}
}

func TestRender_EmptySectionsOmitted(t *testing.T) {
	for _, id := range allTemplates {
		t.Run(string(id), func(t *testing.T) {
			doc := model.NewResume(id)
			doc.Summary = richtext.Fragment{}
			doc.Skills = nil

			tree := Render(doc, Options{})
			assert.False(t, tree.HasSection(SectionExperience))
			assert.False(t, tree.HasSection(SectionEducation))
			assert.False(t, tree.HasSection(SectionSkills))
			assert.False(t, tree.HasSection(SectionSummary))
			assert.NotContains(t, tree.Sections(), SectionCustom)
		})
	}
}

func TestRender_ModernVersusMinimalist(t *testing.T) {
	doc := engineerResume(model.TemplateModern)
	modernTree := Render(doc, Options{})

	doc.Template = model.TemplateMinimalist
	minimalTree := Render(doc, Options{})

	for _, tree := range []*Tree{modernTree, minimalTree} {
		assert.True(t, tree.HasSection(SectionContact))
		assert.Contains(t, tree.Text(), "YOUR NAME")
		assert.Contains(t, tree.Text(), "your.email@example.com")
		assert.Contains(t, tree.Text(), "Engineer")
	}
	assert.Equal(t, 2, modernTree.Columns)
	assert.Equal(t, 1, minimalTree.Columns)
	assert.NotEqual(t, modernTree.Columns, minimalTree.Columns)
}

func TestRender_UnknownTemplateFallsBackToModern(t *testing.T) {
	doc := engineerResume("Retro")
	tree := Render(doc, Options{})

	assert.Equal(t, model.TemplateModern, tree.Template)
	assert.Equal(t, Render(engineerResume(model.TemplateModern), Options{}).Root, tree.Root)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		in, want model.TemplateID
	}{
		{model.TemplateModern, model.TemplateModern},
		{model.TemplateMinimalist, model.TemplateMinimalist},
		{model.TemplateExecutive, model.TemplateExecutive},
		{model.TemplateCreativeSplit, model.TemplateCreativeSplit},
		{"Retro", model.TemplateModern},
		{"", model.TemplateModern},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.in), "template %q", tt.in)
		assert.Equal(t, tt.want, Render(engineerResume(tt.in), Options{}).Template)
	}
}

func TestRender_Deterministic(t *testing.T) {
	doc := engineerResume(model.TemplateCreativeSplit)
	assert.Equal(t, Render(doc, Options{}), Render(doc, Options{}))
}

func TestRender_ExportModeFillsContactGaps(t *testing.T) {
	for _, id := range []model.TemplateID{model.TemplateExecutive, model.TemplateCreativeSplit} {
		t.Run(string(id), func(t *testing.T) {
			doc := engineerResume(id)
			doc.Contact.Website = ""

			preview := Render(doc, Options{Mode: ModePreview}).Section(SectionContact).PlainText()
			export := Render(doc, Options{Mode: ModeExport}).Section(SectionContact).PlainText()

			assert.NotContains(t, preview, "N/A")
			assert.Contains(t, export, "N/A")
		})
	}
}

func TestMinimalist_Details(t *testing.T) {
	doc := engineerResume(model.TemplateMinimalist)
	doc.Skills = []string{"Go", "SQL"}

	tree := Render(doc, Options{})
	assert.Contains(t, tree.Section(SectionSkills).PlainText(), "Go • SQL")

	withSite := countDots(tree.Section(SectionContact))
	doc.Contact.Website = ""
	withoutSite := countDots(Render(doc, Options{}).Section(SectionContact))
	assert.Equal(t, 3, withSite)
	assert.Equal(t, 2, withoutSite)
}

func countDots(n *Node) int {
	count := 0
	n.Walk(func(c *Node) bool {
		if strings.HasPrefix(c.Class, "dot ") {
			count++
		}
		return true
	})
	return count
}

func TestCreativeSplit_Header(t *testing.T) {
	doc := engineerResume(model.TemplateCreativeSplit)
	doc.Theme.PrimaryColor = "bg-green-600"

	tree := Render(doc, Options{})
	var header *Node
	tree.Root.Walk(func(n *Node) bool {
		if n.Role == RoleHeader {
			header = n
			return false
		}
		return true
	})
	require.NotNil(t, header)
	assert.Contains(t, header.Class, "border-green-600")
	assert.Contains(t, header.PlainText(), "Engineer")

	doc.Experience = nil
	assert.Contains(t, Render(doc, Options{}).Text(), defaultSubtitle)
}

func TestExecutive_SidebarUsesPrimaryColor(t *testing.T) {
	doc := engineerResume(model.TemplateExecutive)
	doc.Theme.PrimaryColor = "bg-indigo-600"

	tree := Render(doc, Options{})
	var sidebar *Node
	tree.Root.Walk(func(n *Node) bool {
		if n.Role == RoleSidebar {
			sidebar = n
			return false
		}
		return true
	})
	require.NotNil(t, sidebar)
	assert.Contains(t, sidebar.Class, "bg-indigo-600")
	assert.Contains(t, sidebar.PlainText(), "Contact")
	assert.Contains(t, sidebar.PlainText(), "React")
}
