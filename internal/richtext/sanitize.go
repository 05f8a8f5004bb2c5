// Package richtext holds the sanitized markup fragments that users edit in
// the resume's free-form fields, and the inline editing commands that act on them.
package richtext

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// LRM, RLM, embeddings/overrides and isolates.
	bidiControls = regexp.MustCompile("[\u200E\u200F\u202A-\u202E\u2066-\u2069]")
	dirAttr      = regexp.MustCompile(`(?i)dir\s*=`)
	openTag      = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)([^>]*)>`)
	anyElement   = regexp.MustCompile(`(?i)<[a-z][^>]*>`)
)

// document-level tags never receive a direction attribute
var skipDirTags = map[string]bool{
	"html":   true,
	"head":   true,
	"body":   true,
	"meta":   true,
	"link":   true,
	"script": true,
	"style":  true,
}

// Fragment is a sanitized markup fragment. The zero value is the empty fragment.
// A Fragment can only be obtained from Sanitize (directly or through JSON
// decoding), so markup held in one is safe to embed verbatim.
type Fragment struct {
	markup string
}

// Sanitize strips bidirectional control characters and forces left-to-right
// direction on every element unless the markup already sets a direction.
// Markup without any element is wrapped in a single ltr div. It never fails
// and is idempotent.
func Sanitize(raw string) Fragment {
	s := bidiControls.ReplaceAllString(raw, "")
	if s == "" {
		return Fragment{}
	}

	if !dirAttr.MatchString(s) {
		s = openTag.ReplaceAllStringFunc(s, func(tag string) string {
			m := openTag.FindStringSubmatch(tag)
			if skipDirTags[strings.ToLower(m[1])] {
				return tag
			}
			return "<" + m[1] + ` dir="ltr"` + m[2] + ">"
		})
	}

	if !anyElement.MatchString(s) {
		s = `<div dir="ltr">` + s + "</div>"
	}
	return Fragment{markup: s}
}

func (f Fragment) String() string { return f.markup }

func (f Fragment) IsEmpty() bool { return f.markup == "" }

// Text returns the visible text of the fragment with entities decoded.
func (f Fragment) Text() string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(f.markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.markup)
}

// UnmarshalJSON decodes a JSON string and sanitizes it.
func (f *Fragment) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = Sanitize(s)
	return nil
}
