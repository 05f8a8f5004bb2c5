package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyInlineCommand_Bold(t *testing.T) {
	f := Sanitize("<div>hello world</div>")

	bolded := ApplyInlineCommand(f, Bold, Selection{Start: 0, End: 5})
	assert.Equal(t, `<div dir="ltr"><b dir="ltr">hello</b> world</div>`, bolded.String())
	assert.Equal(t, "hello world", bolded.Text())

	restored := ApplyInlineCommand(bolded, Bold, Selection{Start: 0, End: 5})
	assert.Equal(t, `<div dir="ltr">hello world</div>`, restored.String())
}

func TestApplyInlineCommand_ItalicPartialUnwrap(t *testing.T) {
	f := Sanitize("<div><i>abcdef</i></div>")

	got := ApplyInlineCommand(f, Italic, Selection{Start: 2, End: 4})
	assert.Equal(t, `<div dir="ltr"><i dir="ltr">ab</i>cd<i dir="ltr">ef</i></div>`, got.String())
}

func TestApplyInlineCommand_BoldMixedSelectionWraps(t *testing.T) {
	f := Sanitize("<div><b>one</b> two</div>")

	got := ApplyInlineCommand(f, Bold, Selection{Start: 0, End: 7})
	assert.Contains(t, got.String(), "two</b>")
	assert.Equal(t, "one two", got.Text())

	// the whole range is bold now, so the same command removes it
	back := ApplyInlineCommand(got, Bold, Selection{Start: 0, End: 7})
	assert.NotContains(t, back.String(), "<b")
	assert.Equal(t, "one two", back.Text())
}

func TestApplyInlineCommand_CollapsedSelectionIsNoop(t *testing.T) {
	f := Sanitize("<div>text</div>")
	assert.Equal(t, f, ApplyInlineCommand(f, Bold, Selection{Start: 2, End: 2}))
}

func TestApplyInlineCommand_BulletList(t *testing.T) {
	f := Sanitize("<div>one</div><div>two</div><div>three</div>")

	listed := ApplyInlineCommand(f, BulletList, Selection{Start: 0, End: 6})
	assert.Equal(t,
		`<ul dir="ltr"><li dir="ltr">one</li><li dir="ltr">two</li></ul><div dir="ltr">three</div>`,
		listed.String())

	unlisted := ApplyInlineCommand(listed, BulletList, Selection{Start: 1, End: 4})
	assert.Equal(t, f, unlisted)
}

func TestApplyInlineCommand_BulletListInlineLines(t *testing.T) {
	f := Sanitize("first<br>second")

	got := ApplyInlineCommand(f, BulletList, Selection{Start: 6, End: 6})
	assert.Equal(t, `first<br dir="ltr"><ul dir="ltr"><li dir="ltr">second</li></ul>`, got.String())
}

func TestApplyInlineCommand_EmptyFragment(t *testing.T) {
	assert.True(t, ApplyInlineCommand(Fragment{}, BulletList, Selection{}).IsEmpty())
}

func TestParseCommand(t *testing.T) {
	c, ok := ParseCommand("bold")
	assert.True(t, ok)
	assert.Equal(t, Bold, c)

	c, ok = ParseCommand("insertUnorderedList")
	assert.True(t, ok)
	assert.Equal(t, BulletList, c)

	_, ok = ParseCommand("underline")
	assert.False(t, ok)
}
