package richtext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Command is an inline formatting command issued from the editing toolbar.
type Command string

const (
	Bold       Command = "bold"
	Italic     Command = "italic"
	BulletList Command = "insertUnorderedList"
)

// ParseCommand maps a toolbar command name to a Command.
func ParseCommand(name string) (Command, bool) {
	switch Command(name) {
	case Bold, Italic, BulletList:
		return Command(name), true
	}
	return "", false
}

// Selection is a half-open range [Start, End) of rune offsets into the
// fragment's visible text, as returned by Fragment.Text.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Selection) normalize(limit int) Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	s.Start = max(0, min(s.Start, limit))
	s.End = max(0, min(s.End, limit))
	return s
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

var blockTags = map[string]bool{
	"div": true, "p": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var markTags = map[Command]map[string]bool{
	Bold:   {"b": true, "strong": true},
	Italic: {"i": true, "em": true},
}

// ApplyInlineCommand applies cmd to the selected range of f and returns the
// re-sanitized result. Bold and italic toggle: when the whole selection is
// already formatted the formatting is removed, otherwise it is added. The
// bullet list command toggles the blocks touched by the selection in and out
// of an unordered list. Unknown commands and empty fragments are returned
// unchanged.
func ApplyInlineCommand(f Fragment, cmd Command, sel Selection) Fragment {
	if f.IsEmpty() {
		return f
	}
	tokens := tokenize(f.markup)
	sel = sel.normalize(utf8.RuneCountInString(f.Text()))

	var out string
	switch cmd {
	case Bold, Italic:
		if sel.Start == sel.End {
			return f
		}
		marks := markTags[cmd]
		if fullyMarked(tokens, marks, sel) {
			out = unwrapMarks(tokens, marks, sel)
		} else {
			out = wrapMarks(tokens, markTag(cmd), sel)
		}
	case BulletList:
		out = toggleList(tokens, sel)
	default:
		return f
	}
	return Sanitize(cleanup(out))
}

func markTag(cmd Command) string {
	if cmd == Italic {
		return "i"
	}
	return "b"
}

func tokenize(markup string) []html.Token {
	var tokens []html.Token
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		if z.Next() == html.ErrorToken {
			return tokens
		}
		tokens = append(tokens, z.Token())
	}
}

func render(tokens []html.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// opens reports whether tok pushes an element onto the open element stack.
func opens(tok html.Token) bool {
	return tok.Type == html.StartTagToken && !voidTags[tok.Data]
}

func popTo(stack []html.Token, name string) []html.Token {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Data == name {
			return stack[:i]
		}
	}
	return stack
}

// textSpan splits a text token's runes against sel. Offsets are relative to the
// token start.
func textSpan(offset, n int, sel Selection) (from, to int) {
	from = min(max(sel.Start-offset, 0), n)
	to = min(max(sel.End-offset, 0), n)
	return from, to
}

func fullyMarked(tokens []html.Token, marks map[string]bool, sel Selection) bool {
	var stack []html.Token
	offset := 0
	for _, tok := range tokens {
		switch {
		case opens(tok):
			stack = append(stack, tok)
		case tok.Type == html.EndTagToken:
			stack = popTo(stack, tok.Data)
		case tok.Type == html.TextToken:
			n := utf8.RuneCountInString(tok.Data)
			from, to := textSpan(offset, n, sel)
			offset += n
			if from < to && markIndex(stack, marks) < 0 {
				return false
			}
		}
	}
	return true
}

// markIndex returns the position of the outermost mark element on the stack.
func markIndex(stack []html.Token, marks map[string]bool) int {
	for i, t := range stack {
		if marks[t.Data] {
			return i
		}
	}
	return -1
}

func wrapMarks(tokens []html.Token, tag string, sel Selection) string {
	var b strings.Builder
	offset := 0
	for _, tok := range tokens {
		if tok.Type != html.TextToken {
			b.WriteString(tok.String())
			continue
		}
		runes := []rune(tok.Data)
		from, to := textSpan(offset, len(runes), sel)
		offset += len(runes)

		b.WriteString(html.EscapeString(string(runes[:from])))
		if from < to {
			b.WriteString("<" + tag + ` dir="ltr">`)
			b.WriteString(html.EscapeString(string(runes[from:to])))
			b.WriteString("</" + tag + ">")
		}
		b.WriteString(html.EscapeString(string(runes[to:])))
	}
	return b.String()
}

// unwrapMarks closes every open element down to the outermost mark around the
// selected text, reopens the non-mark ones, writes the text, and then restores
// the original nesting.
func unwrapMarks(tokens []html.Token, marks map[string]bool, sel Selection) string {
	var b strings.Builder
	var stack []html.Token
	offset := 0
	for _, tok := range tokens {
		switch {
		case opens(tok):
			stack = append(stack, tok)
			b.WriteString(tok.String())
			continue
		case tok.Type == html.EndTagToken:
			stack = popTo(stack, tok.Data)
			b.WriteString(tok.String())
			continue
		case tok.Type != html.TextToken:
			b.WriteString(tok.String())
			continue
		}

		runes := []rune(tok.Data)
		from, to := textSpan(offset, len(runes), sel)
		offset += len(runes)
		k := markIndex(stack, marks)
		if from == to || k < 0 {
			b.WriteString(html.EscapeString(tok.Data))
			continue
		}

		b.WriteString(html.EscapeString(string(runes[:from])))
		inner := stack[k:]
		for i := len(inner) - 1; i >= 0; i-- {
			b.WriteString("</" + inner[i].Data + ">")
		}
		var kept []html.Token
		for _, t := range inner {
			if !marks[t.Data] {
				kept = append(kept, t)
				b.WriteString(t.String())
			}
		}
		b.WriteString(html.EscapeString(string(runes[from:to])))
		for i := len(kept) - 1; i >= 0; i-- {
			b.WriteString("</" + kept[i].Data + ">")
		}
		for _, t := range inner {
			b.WriteString(t.String())
		}
		b.WriteString(html.EscapeString(string(runes[to:])))
	}
	return b.String()
}

type block struct {
	tag    string
	tokens []html.Token
	start  int
	end    int
	blank  bool
	brk    bool
}

func (b block) isList() bool { return b.tag == "ul" || b.tag == "ol" }

func (b block) inner() []html.Token {
	if b.tag == "" {
		if b.brk {
			return b.tokens[:len(b.tokens)-1]
		}
		return b.tokens
	}
	toks := b.tokens[1:]
	if n := len(toks); n > 0 && toks[n-1].Type == html.EndTagToken && toks[n-1].Data == b.tag {
		toks = toks[:n-1]
	}
	return toks
}

func (b block) touches(sel Selection) bool {
	if sel.Start == sel.End {
		return b.start <= sel.Start && sel.Start <= b.end
	}
	return b.start < sel.End && sel.Start < b.end
}

// splitBlocks groups top-level content into block elements and runs of inline
// content separated by line breaks.
func splitBlocks(tokens []html.Token) []block {
	var blocks []block
	var cur *block
	depth, offset := 0, 0

	flush := func() {
		if cur == nil {
			return
		}
		cur.end = offset
		cur.blank = cur.tag == "" && strings.TrimFunc(render(cur.inner()), unicode.IsSpace) == ""
		blocks = append(blocks, *cur)
		cur = nil
	}

	for _, tok := range tokens {
		if depth == 0 {
			switch {
			case tok.Type == html.StartTagToken && blockTags[tok.Data]:
				flush()
				cur = &block{tag: tok.Data, start: offset}
			case (tok.Type == html.StartTagToken || tok.Type == html.SelfClosingTagToken) && tok.Data == "br":
				if cur == nil {
					cur = &block{start: offset}
				}
				cur.tokens = append(cur.tokens, tok)
				cur.brk = true
				flush()
				continue
			case cur == nil:
				cur = &block{start: offset}
			}
		}

		cur.tokens = append(cur.tokens, tok)
		switch {
		case tok.Type == html.TextToken:
			offset += utf8.RuneCountInString(tok.Data)
		case opens(tok):
			depth++
		case tok.Type == html.EndTagToken && depth > 0:
			depth--
			if depth == 0 && cur.tag != "" {
				flush()
			}
		}
	}
	flush()
	return blocks
}

// listItems returns the inner tokens of each top-level child of a list block.
func listItems(b block) [][]html.Token {
	var items [][]html.Token
	var cur []html.Token
	depth := 0
	for _, tok := range b.inner() {
		if depth == 0 && tok.Type == html.TextToken && strings.TrimSpace(tok.Data) == "" {
			continue
		}
		cur = append(cur, tok)
		switch {
		case opens(tok):
			depth++
		case tok.Type == html.EndTagToken && depth > 0:
			depth--
		}
		if depth == 0 {
			if len(cur) >= 2 && cur[0].Type == html.StartTagToken && cur[0].Data == "li" {
				cur = cur[1 : len(cur)-1]
			}
			items = append(items, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		items = append(items, cur)
	}
	return items
}

func toggleList(tokens []html.Token, sel Selection) string {
	blocks := splitBlocks(tokens)
	first, last := -1, -1
	allLists := true
	for i, b := range blocks {
		if !b.touches(sel) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		if !b.blank && !b.isList() {
			allLists = false
		}
	}
	if first < 0 {
		return render(tokens)
	}

	var b strings.Builder
	for _, blk := range blocks[:first] {
		b.WriteString(render(blk.tokens))
	}

	touched := blocks[first : last+1]
	if allLists {
		for _, blk := range touched {
			if blk.blank {
				continue
			}
			for _, item := range listItems(blk) {
				b.WriteString(`<div dir="ltr">` + render(item) + "</div>")
			}
		}
	} else {
		b.WriteString(`<ul dir="ltr">`)
		for _, blk := range touched {
			switch {
			case blk.blank:
			case blk.isList():
				for _, item := range listItems(blk) {
					b.WriteString(`<li dir="ltr">` + render(item) + "</li>")
				}
			default:
				b.WriteString(`<li dir="ltr">` + render(blk.inner()) + "</li>")
			}
		}
		b.WriteString("</ul>")
	}

	for _, blk := range blocks[last+1:] {
		b.WriteString(render(blk.tokens))
	}
	return b.String()
}

var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "u": true, "span": true,
}

// cleanup drops empty inline elements and joins adjacent marks produced by
// wrapping neighbouring text runs.
func cleanup(markup string) string {
	tokens := tokenize(markup)
	for {
		changed := false
		out := tokens[:0:0]
		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]
			if i+1 < len(tokens) {
				next := tokens[i+1]
				emptyPair := tok.Type == html.StartTagToken && inlineTags[tok.Data] &&
					next.Type == html.EndTagToken && next.Data == tok.Data
				adjacent := tok.Type == html.EndTagToken && (tok.Data == "b" || tok.Data == "i") &&
					next.Type == html.StartTagToken && next.Data == tok.Data && onlyLTR(next)
				if emptyPair || adjacent {
					i++
					changed = true
					continue
				}
			}
			out = append(out, tok)
		}
		tokens = out
		if !changed {
			return render(tokens)
		}
	}
}

func onlyLTR(tok html.Token) bool {
	return len(tok.Attr) == 1 && tok.Attr[0].Key == "dir" && tok.Attr[0].Val == "ltr"
}
