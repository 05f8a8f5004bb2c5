package usecase

import (
	"context"
	"log/slog"
	"sync"

	"resume-builder/internal/model"
)

// Loader fetches the documents a user saved in an earlier process lifetime.
type Loader interface {
	LoadForUser(ctx context.Context, userID string) ([]model.Resume, error)
}

// Library is the in-memory, per-user collection of saved documents shown on
// the dashboard. Documents are keyed by id: saving inserts new ids and
// replaces existing ones in place.
type Library struct {
	loader Loader

	mu       sync.RWMutex
	docs     map[string][]model.Resume
	hydrated map[string]bool
}

// NewLibrary creates an empty library. loader may be nil.
func NewLibrary(loader Loader) *Library {
	return &Library{
		loader:   loader,
		docs:     make(map[string][]model.Resume),
		hydrated: make(map[string]bool),
	}
}

// Upsert stores doc for userID and reports whether it was new.
func (l *Library) Upsert(userID string, doc model.Resume) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.upsertLocked(userID, doc)
}

func (l *Library) upsertLocked(userID string, doc model.Resume) bool {
	docs := l.docs[userID]
	for i := range docs {
		if docs[i].ID == doc.ID {
			next := make([]model.Resume, len(docs))
			copy(next, docs)
			next[i] = doc
			l.docs[userID] = next
			return false
		}
	}
	l.docs[userID] = append(docs[:len(docs):len(docs)], doc)
	return true
}

// List returns the user's documents in insertion order, hydrating from the
// loader the first time a user is seen.
func (l *Library) List(ctx context.Context, userID string) []model.Resume {
	l.hydrate(ctx, userID)
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Resume, len(l.docs[userID]))
	copy(out, l.docs[userID])
	return out
}

// Get returns one document of the user.
func (l *Library) Get(ctx context.Context, userID, id string) (model.Resume, bool) {
	l.hydrate(ctx, userID)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, d := range l.docs[userID] {
		if d.ID == id {
			return d, true
		}
	}
	return model.Resume{}, false
}

func (l *Library) hydrate(ctx context.Context, userID string) {
	if l.loader == nil {
		return
	}
	l.mu.RLock()
	done := l.hydrated[userID]
	l.mu.RUnlock()
	if done {
		return
	}

	docs, err := l.loader.LoadForUser(ctx, userID)
	if err != nil {
		slog.Warn("load saved resumes failed", "component", "library", "user_id", userID, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hydrated[userID] {
		return
	}
	l.hydrated[userID] = true
	// Documents saved in this process win over stored copies.
	local := l.docs[userID]
	l.docs[userID] = nil
	for _, d := range docs {
		l.upsertLocked(userID, d)
	}
	for _, d := range local {
		l.upsertLocked(userID, d)
	}
}
