package richtext

// Surface tracks the input lifecycle of one editable rich-text field. While an
// input method composition is in progress intermediate input is not
// committed; the composition end commits once.
type Surface struct {
	value     Fragment
	composing bool
}

func NewSurface(initial Fragment) *Surface {
	return &Surface{value: initial}
}

// Value returns the last committed fragment.
func (s *Surface) Value() Fragment { return s.value }

func (s *Surface) Composing() bool { return s.composing }

func (s *Surface) CompositionStart() { s.composing = true }

// Input handles an input event carrying the field's current markup. It
// returns the committed fragment and whether it differs from the previous one.
func (s *Surface) Input(markup string) (Fragment, bool) {
	if s.composing {
		return s.value, false
	}
	return s.commit(markup)
}

// CompositionEnd ends the composition and commits markup.
func (s *Surface) CompositionEnd(markup string) (Fragment, bool) {
	s.composing = false
	return s.commit(markup)
}

// Reset replaces the committed value without a change notification, used when
// the document is edited through another path.
func (s *Surface) Reset(f Fragment) {
	s.value = f
}

func (s *Surface) commit(markup string) (Fragment, bool) {
	f := Sanitize(markup)
	changed := f != s.value
	s.value = f
	return f, changed
}
