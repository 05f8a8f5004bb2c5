package infrastructure

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/exec"
	"testing"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		for _, candidate := range []string{"google-chrome", "chromium", "chromium-browser"} {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_PATH to run this test")
	}
	return chromePath
}

func TestChromedpCapturer_EmptyPage(t *testing.T) {
	c := NewChromedpCapturer("", time.Second)
	_, err := c.Capture(context.Background(), "  ", usecase.Viewport{Width: 816, Scale: 1})
	assert.Error(t, err)
}

func TestChromedpCapturer_Capture(t *testing.T) {
	c := NewChromedpCapturer(chromeBinaryPath(t), 30*time.Second)
	defer c.Close()

	_, page, err := render.Page(model.NewResume(model.TemplateModern), render.Options{Mode: render.ModeExport})
	require.NoError(t, err)

	raw, err := c.Capture(context.Background(), page, usecase.Viewport{Width: usecase.PageWidthPx, Scale: 2})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cfg.Width, usecase.PageWidthPx)
	assert.GreaterOrEqual(t, cfg.Height, 1056)
}

func TestChromedpCapturer_FeedsExporter(t *testing.T) {
	c := NewChromedpCapturer(chromeBinaryPath(t), 30*time.Second)
	defer c.Close()

	e := usecase.NewExporter(c, usecase.ExportOptions{Scale: 1}, nil, nil)
	doc := model.NewResume(model.TemplateCreativeSplit)
	doc.Title = "My Resume"

	out, err := e.Export(context.Background(), "u/r", "u", doc)
	require.NoError(t, err)
	assert.Equal(t, "My_Resume.pdf", out.FileName)
	assert.True(t, bytes.HasPrefix(out.PDF, []byte("%PDF")))
}
