package model

import (
	"encoding/json"
	"testing"

	"resume-builder/internal/richtext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() Resume {
	r := NewResume(TemplateModern)
	r.Experience = []WorkExperience{
		{ID: "e1", JobTitle: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "2022"},
		{ID: "e2", JobTitle: "Intern", Company: "Initech"},
	}
	r.Education = []Education{{ID: "ed1", School: "State U", Degree: "BSc"}}
	r.CustomSections = []CustomSection{{ID: "c1", Title: "Awards", Content: richtext.Sanitize("Best paper")}}
	return r
}

func TestNewResume_Defaults(t *testing.T) {
	r := NewResume(TemplateExecutive)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, TemplateExecutive, r.Template)
	assert.Equal(t, DefaultTheme, r.Theme)
	assert.Equal(t, "Your Name", r.Contact.Name)
	assert.Equal(t, []string{"React", "TypeScript", "Tailwind CSS", "Node.js"}, r.Skills)
	assert.Empty(t, r.Experience)
	assert.NotEqual(t, r.ID, NewResume(TemplateExecutive).ID)
}

func TestUpdateField(t *testing.T) {
	doc := sampleResume()

	t.Run("typed value", func(t *testing.T) {
		got, err := UpdateField(doc, FieldTitle, "My Resume")
		require.NoError(t, err)
		assert.Equal(t, "My Resume", got.Title)
		assert.Equal(t, DefaultTitle, doc.Title)
	})

	t.Run("raw json", func(t *testing.T) {
		got, err := UpdateField(doc, FieldTheme, json.RawMessage(`{"primaryColor":"bg-green-600","accentColor":"bg-pink-500"}`))
		require.NoError(t, err)
		assert.Equal(t, Theme{PrimaryColor: "bg-green-600", AccentColor: "bg-pink-500"}, got.Theme)
	})

	t.Run("decoded request map", func(t *testing.T) {
		got, err := UpdateField(doc, FieldContact, map[string]any{"name": "Ada", "email": "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Contact.Name)
		assert.Empty(t, got.Contact.Phone)
	})

	t.Run("summary is sanitized", func(t *testing.T) {
		got, err := UpdateField(doc, FieldSummary, "\u202ebuilder")
		require.NoError(t, err)
		assert.Equal(t, `<div dir="ltr">builder</div>`, got.Summary.String())
	})

	t.Run("unknown template stored unchanged", func(t *testing.T) {
		got, err := UpdateField(doc, FieldTemplate, "Retro")
		require.NoError(t, err)
		assert.Equal(t, TemplateID("Retro"), got.Template)
		assert.False(t, got.Template.Known())
	})

	t.Run("list replacement gets unique ids", func(t *testing.T) {
		got, err := UpdateField(doc, FieldEducation, []Education{{ID: "x"}, {ID: "x"}, {}})
		require.NoError(t, err)
		require.Len(t, got.Education, 3)
		assert.Equal(t, "x", got.Education[0].ID)
		assert.NotEqual(t, "x", got.Education[1].ID)
		assert.NotEmpty(t, got.Education[2].ID)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := UpdateField(doc, "nickname", "x")
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("id is immutable", func(t *testing.T) {
		_, err := UpdateField(doc, FieldID, "other")
		assert.ErrorIs(t, err, ErrImmutableField)
	})

	t.Run("undecodable value", func(t *testing.T) {
		_, err := UpdateField(doc, FieldSkills, json.RawMessage(`{"a":1}`))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestAddListItem(t *testing.T) {
	doc := sampleResume()

	got, err := AddListItem(doc, ListExperience, nil)
	require.NoError(t, err)
	require.Len(t, got.Experience, 3)
	assert.NotEmpty(t, got.Experience[2].ID)
	assert.Len(t, doc.Experience, 2)

	got, err = AddListItem(doc, ListCustomSections, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSectionTitle, got.CustomSections[1].Title)

	// an id already in use is replaced
	got, err = AddListItem(doc, ListExperience, WorkExperience{ID: "e1", JobTitle: "Lead"})
	require.NoError(t, err)
	assert.NotEqual(t, "e1", got.Experience[2].ID)
	assert.Equal(t, "Lead", got.Experience[2].JobTitle)

	got, err = AddListItem(doc, ListEducation, json.RawMessage(`{"id":"ed2","school":"Tech"}`))
	require.NoError(t, err)
	assert.Equal(t, "ed2", got.Education[1].ID)

	_, err = AddListItem(doc, List("projects"), nil)
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestListItemIDsUniqueAcrossDocument(t *testing.T) {
	doc := sampleResume()

	// ids taken by another list are replaced
	got, err := AddListItem(doc, ListEducation, Education{ID: "e1", School: "Tech"})
	require.NoError(t, err)
	assert.NotEqual(t, "e1", got.Education[1].ID)
	assert.NotEqual(t, "ed1", got.Education[1].ID)

	got, err = AddListItem(doc, ListCustomSections, json.RawMessage(`{"id":"ed1","title":"Talks"}`))
	require.NoError(t, err)
	assert.NotEqual(t, "ed1", got.CustomSections[1].ID)

	// replacing a whole list keeps its own ids but not ones used elsewhere
	got, err = UpdateField(doc, FieldExperience, []WorkExperience{{ID: "e1"}, {ID: "c1"}})
	require.NoError(t, err)
	assert.Equal(t, "e1", got.Experience[0].ID)
	assert.NotEqual(t, "c1", got.Experience[1].ID)

	ids := map[string]bool{}
	for _, e := range got.Experience {
		ids[e.ID] = true
	}
	for _, e := range got.Education {
		assert.False(t, ids[e.ID])
		ids[e.ID] = true
	}
	for _, c := range got.CustomSections {
		assert.False(t, ids[c.ID])
	}
}

func TestUpdateListItem_RoundTrip(t *testing.T) {
	doc := sampleResume()

	got, err := UpdateListItem(doc, ListExperience, "e2", "company", "Globex")
	require.NoError(t, err)

	i := indexOf(got.Experience, "e2")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Globex", got.Experience[i].Company)
	assert.Equal(t, "Initech", doc.Experience[1].Company)
}

func TestUpdateListItem_RichFieldSanitized(t *testing.T) {
	got, err := UpdateListItem(sampleResume(), ListCustomSections, "c1", "content", "<p>won</p>")
	require.NoError(t, err)
	assert.Equal(t, `<p dir="ltr">won</p>`, got.CustomSections[0].Content.String())
}

func TestUpdateListItem_MissingIDIsNoop(t *testing.T) {
	doc := sampleResume()
	got, err := UpdateListItem(doc, ListEducation, "missing", "school", "X")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUpdateListItem_UnknownField(t *testing.T) {
	_, err := UpdateListItem(sampleResume(), ListEducation, "ed1", "gpa", "4.0")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRemoveListItem(t *testing.T) {
	doc := sampleResume()

	got, err := RemoveListItem(doc, ListExperience, "e1")
	require.NoError(t, err)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "e2", got.Experience[0].ID)
	assert.Len(t, doc.Experience, 2)
	assert.Equal(t, "e1", doc.Experience[0].ID)

	same, err := RemoveListItem(doc, ListExperience, "nope")
	require.NoError(t, err)
	assert.Equal(t, doc, same)
}

func TestSkills(t *testing.T) {
	doc := sampleResume()
	n := len(doc.Skills)

	got := AddSkill(doc, "  Go  ")
	assert.Equal(t, "Go", got.Skills[len(got.Skills)-1])
	assert.Len(t, doc.Skills, n)

	assert.Equal(t, got, AddSkill(got, "Go"))
	assert.Equal(t, doc, AddSkill(doc, "   "))

	// case-sensitive
	assert.Len(t, AddSkill(got, "go").Skills, n+2)

	removed := RemoveSkill(got, "Go")
	assert.NotContains(t, removed.Skills, "Go")
	assert.Equal(t, doc.Skills, removed.Skills)

	assert.Equal(t, doc, RemoveSkill(doc, "Cobol"))
}

func TestAddThenRemoveSkill(t *testing.T) {
	doc := sampleResume()
	for _, s := range []string{"Rust", "Kotlin", "Elixir"} {
		added := AddSkill(doc, s)
		assert.Contains(t, added.Skills, s)
		assert.NotContains(t, RemoveSkill(added, s).Skills, s)
	}
}

func TestParseList(t *testing.T) {
	l, err := ParseList("customSections")
	require.NoError(t, err)
	assert.Equal(t, ListCustomSections, l)

	_, err = ParseList("skills")
	assert.ErrorIs(t, err, ErrUnknownList)
}
