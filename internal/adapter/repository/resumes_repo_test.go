package repository

import (
	"context"
	"encoding/json"
	"testing"

	"resume-builder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocuments(t *testing.T) {
	a := model.NewResume(model.TemplateModern)
	b := model.NewResume(model.TemplateCreativeSplit)
	b.Title = "Second"

	rows := []any{a, map[string]any{"id": "broken"}, b}
	raw, err := json.Marshal(rows)
	require.NoError(t, err)

	docs, err := decodeDocuments("u1", raw)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, a.ID, docs[0].ID)
	assert.Equal(t, "Second", docs[1].Title)
	assert.Equal(t, a.Summary, docs[0].Summary)
}

func TestDecodeDocuments_Empty(t *testing.T) {
	docs, err := decodeDocuments("u1", []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = decodeDocuments("u1", []byte(`{`))
	assert.Error(t, err)
}

func TestResumesRepo_WithoutPool(t *testing.T) {
	r := NewResumesRepo(nil)

	assert.Error(t, r.Persist(context.Background(), "u1", model.NewResume(model.TemplateModern)))

	docs, err := r.LoadForUser(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Nil(t, docs)
}
