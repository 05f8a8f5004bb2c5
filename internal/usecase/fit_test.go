package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Resume", "My_Resume.pdf"},
		{"Untitled Resume", "Untitled_Resume.pdf"},
		{"two  spaces", "two__spaces.pdf"},
		{"tab\tand\nnewline", "tab_and_newline.pdf"},
		{"no\u00a0break", "no_break.pdf"},
		{"plain", "plain.pdf"},
		{"", ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.title))
		})
	}
}

func TestFitToPage(t *testing.T) {
	t.Run("short content spans the page width", func(t *testing.T) {
		f := FitToPage(816, 528, Letter)
		assert.Equal(t, 612.0, f.Width)
		assert.InDelta(t, 396.0, f.Height, 0.001)
		assert.Equal(t, 528, f.CropHeight)
		assert.False(t, f.Truncated)
	})

	t.Run("exact letter page", func(t *testing.T) {
		f := FitToPage(1632, 2112, Letter)
		assert.InDelta(t, 792.0, f.Height, 0.001)
		assert.False(t, f.Truncated)
	})

	t.Run("tall content is truncated to one page", func(t *testing.T) {
		f := FitToPage(816, 2000, Letter)
		assert.True(t, f.Truncated)
		assert.Equal(t, 1056, f.CropHeight)
		assert.InDelta(t, 792.0, f.Height, 0.001)
	})

	t.Run("a4", func(t *testing.T) {
		f := FitToPage(595, 2000, A4)
		assert.True(t, f.Truncated)
		assert.Equal(t, 842, f.CropHeight)
	})

	t.Run("empty raster", func(t *testing.T) {
		assert.Equal(t, Fit{}, FitToPage(0, 100, Letter))
		assert.Equal(t, Fit{}, FitToPage(100, 0, Letter))
	})
}

func TestParsePageSize(t *testing.T) {
	assert.Equal(t, A4, ParsePageSize("a4"))
	assert.Equal(t, A4, ParsePageSize(" A4 "))
	assert.Equal(t, Letter, ParsePageSize("Letter"))
	assert.Equal(t, Letter, ParsePageSize("tabloid"))
}

func TestExportOptionsDefaults(t *testing.T) {
	o := ExportOptions{}.withDefaults()
	assert.Equal(t, 2.0, o.Scale)
	assert.Equal(t, 85, o.JPEGQuality)
	assert.Equal(t, Letter, o.Page)

	o = ExportOptions{Scale: 9, JPEGQuality: 250}.withDefaults()
	assert.Equal(t, 4.0, o.Scale)
	assert.Equal(t, 100, o.JPEGQuality)

	o = ExportOptions{Scale: 0.5, JPEGQuality: -3}.withDefaults()
	assert.Equal(t, 1.0, o.Scale)
	assert.Equal(t, 1, o.JPEGQuality)
}
