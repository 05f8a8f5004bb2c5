package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidDocument(t *testing.T) {
	raw, err := json.Marshal(sampleResume())
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleResume().Experience, got.Experience)
	assert.Equal(t, `<div dir="ltr">Best paper</div>`, got.CustomSections[0].Content.String())
}

func TestDecode_SanitizesAndFixesIDs(t *testing.T) {
	raw := []byte(`{
		"id": "r1", "title": "T", "template": "Minimalist",
		"theme": {"primaryColor": "bg-slate-800", "accentColor": "bg-teal-500"},
		"contact": {"name": "", "email": "", "phone": "", "linkedin": "", "website": "", "address": ""},
		"summary": "\u200fhello",
		"experience": [{"id": "a"}, {"id": "a"}],
		"education": [{"id": "a"}],
		"skills": ["Go"],
		"customSections": []
	}`)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, `<div dir="ltr">hello</div>`, got.Summary.String())
	require.Len(t, got.Experience, 2)
	assert.NotEqual(t, got.Experience[0].ID, got.Experience[1].ID)
	require.Len(t, got.Education, 1)
	assert.NotEqual(t, "a", got.Education[0].ID)
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `[]`},
		{name: "missing contact", raw: `{"id":"x","title":"","template":"Modern","theme":{"primaryColor":"","accentColor":""},"summary":"","experience":[],"education":[],"skills":[],"customSections":[]}`},
		{name: "duplicate skills", raw: `{"id":"x","title":"","template":"Modern","theme":{"primaryColor":"","accentColor":""},"contact":{"name":"","email":"","phone":"","linkedin":"","website":"","address":""},"summary":"","experience":[],"education":[],"skills":["Go","Go"],"customSections":[]}`},
		{name: "malformed json", raw: `{`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateJSON([]byte(tc.raw)), ErrInvalidDocument)
		})
	}
}
