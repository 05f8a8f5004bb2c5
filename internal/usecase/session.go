package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"resume-builder/internal/model"
	"resume-builder/internal/richtext"
)

// Persister stores a saved document outside the process.
type Persister interface {
	Persist(ctx context.Context, userID string, doc model.Resume) error
}

// SaveResult reports the outcome of a save. The local upsert always happens;
// Warning is set when the remote copy could not be written.
type SaveResult struct {
	Inserted bool
	Warning  string
}

const saveWarningPrefix = "Could not save resume to cloud: "

// RichTarget addresses one rich-text field: the summary, or a field of an
// item in one of the document's lists.
type RichTarget struct {
	List   model.List `json:"list,omitempty"`
	ItemID string     `json:"itemId,omitempty"`
	Field  string     `json:"field"`
}

func (t RichTarget) key() string {
	return string(t.List) + "/" + t.ItemID + "/" + t.Field
}

// RichEventKind is the kind of editor event delivered to a rich-text field.
type RichEventKind string

const (
	RichInput            RichEventKind = "input"
	RichCompositionStart RichEventKind = "compositionstart"
	RichCompositionEnd   RichEventKind = "compositionend"
	RichCommand          RichEventKind = "command"
)

// RichEvent carries the field's current markup for input events, or a
// command and selection for inline formatting.
type RichEvent struct {
	Kind      RichEventKind      `json:"kind"`
	Markup    string             `json:"markup,omitempty"`
	Command   string             `json:"command,omitempty"`
	Selection richtext.Selection `json:"selection"`
}

var (
	ErrUnknownRichField = errors.New("unknown rich text field")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownEvent     = errors.New("unknown rich text event")
)

// Session is one open editor on one document. Edits are applied in arrival
// order under the session lock, each replacing the snapshot.
type Session struct {
	userID    string
	library   *Library
	persister Persister
	metrics   *Metrics
	log       *slog.Logger

	mu       sync.Mutex
	doc      model.Resume
	surfaces map[string]*richSurface
}

type richSurface struct {
	*richtext.Surface
	target RichTarget
}

func newSession(userID string, doc model.Resume, lib *Library, p Persister, m *Metrics) *Session {
	return &Session{
		userID:    userID,
		library:   lib,
		persister: p,
		metrics:   m,
		log:       slog.With("component", "session", "user_id", userID, "resume_id", doc.ID),
		doc:       doc,
		surfaces:  make(map[string]*richSurface),
	}
}

func (s *Session) UserID() string { return s.userID }

// Snapshot returns the current document. Documents are never modified in
// place, so the value can be read freely after the lock is released.
func (s *Session) Snapshot() model.Resume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) apply(fn func(model.Resume) (model.Resume, error)) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.doc)
	if err != nil {
		return s.doc, err
	}
	s.doc = next
	s.resetSurfaces()
	return next, nil
}

// resetSurfaces re-syncs idle surfaces with the document after an edit made
// through another path.
func (s *Session) resetSurfaces() {
	for k, rs := range s.surfaces {
		if rs.Composing() {
			continue
		}
		if v, ok := richValue(s.doc, rs.target); ok {
			rs.Reset(v)
		} else {
			delete(s.surfaces, k)
		}
	}
}

func (s *Session) UpdateField(field string, value any) (model.Resume, error) {
	return s.apply(func(d model.Resume) (model.Resume, error) {
		return model.UpdateField(d, field, value)
	})
}

func (s *Session) AddListItem(list model.List, item any) (model.Resume, error) {
	return s.apply(func(d model.Resume) (model.Resume, error) {
		return model.AddListItem(d, list, item)
	})
}

func (s *Session) UpdateListItem(list model.List, id, field, value string) (model.Resume, error) {
	return s.apply(func(d model.Resume) (model.Resume, error) {
		return model.UpdateListItem(d, list, id, field, value)
	})
}

func (s *Session) RemoveListItem(list model.List, id string) (model.Resume, error) {
	return s.apply(func(d model.Resume) (model.Resume, error) {
		return model.RemoveListItem(d, list, id)
	})
}

func (s *Session) AddSkill(skill string) model.Resume {
	doc, _ := s.apply(func(d model.Resume) (model.Resume, error) {
		return model.AddSkill(d, skill), nil
	})
	return doc
}

func (s *Session) RemoveSkill(skill string) model.Resume {
	doc, _ := s.apply(func(d model.Resume) (model.Resume, error) {
		return model.RemoveSkill(d, skill), nil
	})
	return doc
}

// Rich delivers an editor event to a rich-text field. Input during an input
// method composition is held back until the composition ends.
func (s *Session) Rich(t RichTarget, ev RichEvent) (model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := richValue(s.doc, t)
	if !ok {
		return s.doc, fmt.Errorf("%w: %s", ErrUnknownRichField, t.key())
	}
	surf, ok := s.surfaces[t.key()]
	if !ok {
		surf = &richSurface{Surface: richtext.NewSurface(current), target: t}
		s.surfaces[t.key()] = surf
	}

	var (
		next    richtext.Fragment
		changed bool
	)
	switch ev.Kind {
	case RichInput:
		next, changed = surf.Input(ev.Markup)
	case RichCompositionStart:
		surf.CompositionStart()
	case RichCompositionEnd:
		next, changed = surf.CompositionEnd(ev.Markup)
	case RichCommand:
		cmd, ok := richtext.ParseCommand(ev.Command)
		if !ok {
			return s.doc, fmt.Errorf("%w: %q", ErrUnknownCommand, ev.Command)
		}
		next = richtext.ApplyInlineCommand(current, cmd, ev.Selection)
		changed = next != current
		surf.Reset(next)
	default:
		return s.doc, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	if !changed {
		return s.doc, nil
	}

	doc, err := writeRich(s.doc, t, next)
	if err != nil {
		return s.doc, err
	}
	s.doc = doc
	return doc, nil
}

// Save stores the document in the user's library and then, best effort,
// remotely. A remote failure is reported as a warning; the local copy stays.
func (s *Session) Save(ctx context.Context) SaveResult {
	doc := s.Snapshot()
	res := SaveResult{Inserted: s.library.Upsert(s.userID, doc)}

	if s.persister == nil {
		s.metrics.observeSave("local")
		return res
	}
	if err := s.persister.Persist(ctx, s.userID, doc); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		res.Warning = saveWarningPrefix + msg
		s.metrics.observeSave("warning")
		s.log.Error("remote save failed", "error", err)
		return res
	}
	s.metrics.observeSave("ok")
	s.log.Info("resume saved", "inserted", res.Inserted)
	return res
}

func richValue(doc model.Resume, t RichTarget) (richtext.Fragment, bool) {
	switch t.List {
	case "":
		if t.Field == model.FieldSummary {
			return doc.Summary, true
		}
	case model.ListExperience:
		if t.Field != "description" {
			break
		}
		for _, e := range doc.Experience {
			if e.ID == t.ItemID {
				return e.Description, true
			}
		}
	case model.ListCustomSections:
		if t.Field != "content" {
			break
		}
		for _, c := range doc.CustomSections {
			if c.ID == t.ItemID {
				return c.Content, true
			}
		}
	}
	return richtext.Fragment{}, false
}

func writeRich(doc model.Resume, t RichTarget, f richtext.Fragment) (model.Resume, error) {
	if t.List == "" {
		return model.UpdateField(doc, model.FieldSummary, f)
	}
	return model.UpdateListItem(doc, t.List, t.ItemID, t.Field, f.String())
}
