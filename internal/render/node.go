// Package render turns a resume document into a layout tree for one of the
// built-in templates and serializes that tree into a standalone HTML page.
package render

import (
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/richtext"
)

type Role string

const (
	RoleDocument Role = "document"
	RoleHeader   Role = "header"
	RoleMain     Role = "main"
	RoleSidebar  Role = "sidebar"
	RoleSection  Role = "section"
	RoleHeading  Role = "heading"
	RoleEntry    Role = "entry"
	RoleName     Role = "name"
	RoleDates    Role = "dates"
	RoleChip     Role = "chip"
	RoleLabel    Role = "label"
	RoleRich     Role = "rich"
	RoleText     Role = ""
)

type SectionKind string

const (
	SectionContact    SectionKind = "contact"
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionCustom     SectionKind = "custom"
)

// Node is one element of the layout tree. Text is escaped on output; Rich
// holds sanitized markup embedded verbatim.
type Node struct {
	Tag      string
	Role     Role
	Section  SectionKind
	Class    string
	Text     string
	Rich     richtext.Fragment
	Children []*Node
}

// Tree is the rendered layout of one document.
type Tree struct {
	// Template is the layout actually used, which differs from the
	// document's template when that one is unknown.
	Template model.TemplateID
	Columns  int
	Root     *Node
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Sections lists the section kinds in document order. Custom sections appear
// once per section.
func (t *Tree) Sections() []SectionKind {
	var out []SectionKind
	t.Root.Walk(func(n *Node) bool {
		if n.Role == RoleSection {
			out = append(out, n.Section)
		}
		return true
	})
	return out
}

// Section returns the first node carrying the given section kind, or nil.
// Besides titled sections this finds header contact rows.
func (t *Tree) Section(kind SectionKind) *Node {
	var found *Node
	t.Root.Walk(func(n *Node) bool {
		if n.Section == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

// HasSection reports whether a section of the given kind was rendered.
func (t *Tree) HasSection(kind SectionKind) bool { return t.Section(kind) != nil }

// PlainText returns the visible text of n, one line per text-bearing node.
func (n *Node) PlainText() string {
	var lines []string
	n.Walk(func(c *Node) bool {
		switch {
		case c.Text != "":
			lines = append(lines, c.Text)
		case !c.Rich.IsEmpty():
			lines = append(lines, c.Rich.Text())
		}
		return true
	})
	return strings.Join(lines, "\n")
}

func (t *Tree) Text() string { return t.Root.PlainText() }

func el(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: compact(children)}
}

func txt(tag, class, s string) *Node {
	return &Node{Tag: tag, Class: class, Text: s}
}

func richNode(class string, f richtext.Fragment) *Node {
	if f.IsEmpty() {
		return nil
	}
	return &Node{Tag: "div", Role: RoleRich, Class: class, Rich: f}
}

func (n *Node) as(role Role) *Node {
	n.Role = role
	return n
}

// section builds a titled section. It returns nil when there is no body so
// empty sections drop out of the tree.
func section(kind SectionKind, class, title, headingClass string, body ...*Node) *Node {
	body = compact(body)
	if len(body) == 0 {
		return nil
	}
	heading := txt("h2", headingClass, title).as(RoleHeading)
	s := el("section", class, append([]*Node{heading}, body...)...)
	s.Role = RoleSection
	s.Section = kind
	return s
}

func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
