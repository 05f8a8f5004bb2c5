package render

import (
	"strings"

	"resume-builder/internal/model"
)

type Mode int

const (
	// ModePreview leaves missing contact details blank.
	ModePreview Mode = iota
	// ModeExport fills missing details in labeled contact blocks with "N/A".
	ModeExport
)

func (m Mode) String() string {
	if m == ModeExport {
		return "export"
	}
	return "preview"
}

type Options struct {
	Mode Mode
}

const notAvailable = "N/A"

// Strategy lays out a document for one template.
type Strategy interface {
	Columns() int
	Build(doc model.Resume, opts Options) *Node
}

func resolveStrategy(id model.TemplateID) (model.TemplateID, Strategy) {
	switch id {
	case model.TemplateMinimalist:
		return id, minimalist{}
	case model.TemplateExecutive:
		return id, executive{}
	case model.TemplateCreativeSplit:
		return id, creativeSplit{}
	default:
		return model.TemplateModern, modern{}
	}
}

// Resolve returns the template a document with id is rendered with.
func Resolve(id model.TemplateID) model.TemplateID {
	resolved, _ := resolveStrategy(id)
	return resolved
}

// Render builds the layout tree for doc. It is pure and deterministic: the
// same document and options always produce the same tree.
func Render(doc model.Resume, opts Options) *Tree {
	id, s := resolveStrategy(doc.Template)
	return &Tree{
		Template: id,
		Columns:  s.Columns(),
		Root:     s.Build(doc, opts),
	}
}

func dateRange(start, end string) string {
	return start + " - " + end
}

func borderToken(color string) string {
	return strings.Replace(color, "bg-", "border-", 1)
}

func contactValue(v string, opts Options) string {
	if v == "" && opts.Mode == ModeExport {
		return notAvailable
	}
	return v
}

func customSections(doc model.Resume, class, headingClass string) []*Node {
	var out []*Node
	for _, sec := range doc.CustomSections {
		out = append(out, section(SectionCustom, class, sec.Title, headingClass, richNode("prose", sec.Content)))
	}
	return out
}

func document(template, class string, children ...*Node) *Node {
	root := el("div", "resume resume--"+template+" "+class, children...)
	root.Role = RoleDocument
	return root
}
