package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"

	"resume-builder/internal/model"
)

//go:embed assets/page.html.tmpl assets/resume.css
var assets embed.FS

var (
	pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))
	stylesheet   = mustAsset("assets/resume.css")
)

func mustAsset(name string) string {
	b, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type pageData struct {
	Title  string
	Mode   string
	Styles template.CSS
	Body   template.HTML
}

// HTML serializes t into a standalone page with the stylesheet inlined.
func HTML(t *Tree, title string, mode Mode) (string, error) {
	var body strings.Builder
	writeNode(&body, t.Root)

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, pageData{
		Title:  title,
		Mode:   mode.String(),
		Styles: template.CSS(stylesheet),
		Body:   template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return out.String(), nil
}

// Page renders doc and serializes it in one step.
func Page(doc model.Resume, opts Options) (*Tree, string, error) {
	t := Render(doc, opts)
	page, err := HTML(t, doc.Title, opts.Mode)
	if err != nil {
		return nil, "", err
	}
	return t, page, nil
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteString("<" + n.Tag)
	if class := strings.Join(strings.Fields(n.Class), " "); class != "" {
		b.WriteString(` class="` + html.EscapeString(class) + `"`)
	}
	if n.Section != "" {
		b.WriteString(` data-section="` + string(n.Section) + `"`)
	}
	b.WriteString(">")

	switch {
	case !n.Rich.IsEmpty():
		b.WriteString(n.Rich.String())
	case n.Text != "":
		b.WriteString(html.EscapeString(n.Text))
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</" + n.Tag + ">")
}
