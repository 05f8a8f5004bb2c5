package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"resume-builder/internal/model"
)

var (
	ErrSessionNotFound = errors.New("no open editor for this resume")
	ErrResumeNotFound  = errors.New("resume not found")
)

type openSession struct {
	session  *Session
	lastUsed time.Time
}

// Sessions tracks the open editors, one per (user, document).
type Sessions struct {
	library   *Library
	persister Persister
	metrics   *Metrics
	now       func() time.Time

	mu   sync.Mutex
	open map[string]*openSession
}

func NewSessions(lib *Library, p Persister, m *Metrics) *Sessions {
	return &Sessions{library: lib, persister: p, metrics: m, now: time.Now, open: make(map[string]*openSession)}
}

// SessionKey identifies one editor; it also keys the exporter's busy slot.
func SessionKey(userID, resumeID string) string { return userID + "/" + resumeID }

func (m *Sessions) add(userID string, doc model.Resume) *Session {
	s := newSession(userID, doc, m.library, m.persister, m.metrics)
	m.mu.Lock()
	m.open[SessionKey(userID, doc.ID)] = &openSession{session: s, lastUsed: m.now()}
	m.mu.Unlock()
	return s
}

// Start opens an editor on a fresh document built from template. Nothing is
// stored until the first save.
func (m *Sessions) Start(userID string, template model.TemplateID) *Session {
	return m.add(userID, model.NewResume(template))
}

// Import opens an editor on an uploaded document after schema validation,
// replacing any editor already open on the same id.
func (m *Sessions) Import(userID string, raw []byte) (*Session, error) {
	doc, err := model.Decode(raw)
	if err != nil {
		return nil, err
	}
	return m.add(userID, doc), nil
}

// Open returns the editor for a saved document, creating it from the
// library copy when none is open.
func (m *Sessions) Open(ctx context.Context, userID, resumeID string) (*Session, error) {
	if s, err := m.Get(userID, resumeID); err == nil {
		return s, nil
	}
	doc, ok := m.library.Get(ctx, userID, resumeID)
	if !ok {
		return nil, ErrResumeNotFound
	}
	return m.add(userID, doc), nil
}

// Get returns an open editor and marks it as used.
func (m *Sessions) Get(userID, resumeID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.open[SessionKey(userID, resumeID)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	o.lastUsed = m.now()
	return o.session, nil
}

// End closes an editor. Unsaved edits are dropped.
func (m *Sessions) End(userID, resumeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := SessionKey(userID, resumeID)
	_, ok := m.open[key]
	delete(m.open, key)
	return ok
}

// EndUser closes every editor of userID and returns how many were open.
func (m *Sessions) EndUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, o := range m.open {
		if o.session.UserID() == userID {
			delete(m.open, key)
			n++
		}
	}
	return n
}

// Sweep closes editors unused for longer than idle and returns how many
// were closed.
func (m *Sessions) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, o := range m.open {
		if o.lastUsed.Before(cutoff) {
			delete(m.open, key)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Sessions) RunSweeper(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(idle); n > 0 {
				slog.Info("idle editors closed", "component", "sessions", "count", n)
			}
		}
	}
}
