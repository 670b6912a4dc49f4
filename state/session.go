package state

import (
	"context"
	"sync"
	"time"

	"homefolio-api/models"
	"homefolio-api/pkg/collection"
	"homefolio-api/pkg/optimistic"
)

// Package state holds the per-user view state the handlers read from and
// mutate through. State lives in an explicit container with a defined
// lifecycle, never in package-level variables: a session is created on first
// touch after sign-in and dropped at sign-out.

// Snapshot is the in-memory copy of one user's saved-items collection.
type Snapshot struct {
	Properties []models.SavedProperty
	Folders    []models.Folder
	Profiles   []models.SavedProfile
	Searches   []models.SavedSearch
	Loaded     bool
	LoadedAt   time.Time
}

// Session owns one user's snapshot. All mutations flow through the optimistic
// coordinator; reads recompute views and counts on every call so they can
// never serve stale aggregates.
type Session struct {
	UserID int
	coord  *optimistic.Coordinator[Snapshot]
}

func newSession(userID int) *Session {
	return &Session{
		UserID: userID,
		coord:  optimistic.New(Snapshot{}),
	}
}

// Loaded reports whether the session holds a collection snapshot.
func (s *Session) Loaded() bool {
	return s.coord.State().Loaded
}

// Load replaces the snapshot with canonical data from the remote source.
func (s *Session) Load(snap Snapshot) {
	snap.Loaded = true
	snap.LoadedAt = time.Now()
	s.coord.Replace(snap)
}

// Snapshot returns the current collection snapshot.
func (s *Session) Snapshot() Snapshot {
	return s.coord.State()
}

// View computes the filtered/sorted property sequence for the current snapshot.
func (s *Session) View(opts collection.Options) []models.SavedProperty {
	return collection.View(s.coord.State().Properties, opts)
}

// Counts computes the per-category sizes for the current snapshot.
func (s *Session) Counts() collection.CountSet {
	snap := s.coord.State()
	return collection.Counts(snap.Properties, snap.Folders, snap.Profiles, snap.Searches, time.Now())
}

// Mutate runs one optimistic mutation keyed by entity. See pkg/optimistic.
func (s *Session) Mutate(ctx context.Context, entityKey string, m optimistic.Mutation[Snapshot]) error {
	return s.coord.Do(ctx, entityKey, m)
}

// Manager tracks live sessions by user ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[int]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int]*Session)}
}

// Get returns the user's session, creating it on first touch.
func (m *Manager) Get(userID int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = newSession(userID)
		m.sessions[userID] = s
	}
	return s
}

// Drop discards the user's session, e.g. at sign-out. The next Get starts a
// fresh, unloaded session.
func (m *Manager) Drop(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Invalidate marks the session stale so the next read reloads from the
// remote source. Called when another device of the same user mutates the
// collection.
func (m *Manager) Invalidate(userID int) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()
	if ok {
		s.coord.Replace(Snapshot{})
	}
}

// FindProperty looks up one property in a snapshot by ID. Mutations that
// derive their result from current state must read through this inside
// Apply, where the entity lock is held, not from a row fetched beforehand.
func FindProperty(snap Snapshot, propertyID string) (models.SavedProperty, bool) {
	for _, p := range snap.Properties {
		if p.ID == propertyID {
			return p, true
		}
	}
	return models.SavedProperty{}, false
}

// ReplaceProperty swaps one property in a snapshot by ID, returning a new
// snapshot. Helper for targeted mutations and reverts.
func ReplaceProperty(snap Snapshot, prop models.SavedProperty) Snapshot {
	out := cloneSnapshot(snap)
	for i := range out.Properties {
		if out.Properties[i].ID == prop.ID {
			out.Properties[i] = prop
			return out
		}
	}
	out.Properties = append(out.Properties, prop)
	return out
}

// RemoveProperty drops one property from a snapshot by ID.
func RemoveProperty(snap Snapshot, propertyID string) Snapshot {
	out := cloneSnapshot(snap)
	kept := make([]models.SavedProperty, 0, len(out.Properties))
	for _, p := range out.Properties {
		if p.ID != propertyID {
			kept = append(kept, p)
		}
	}
	out.Properties = kept
	return out
}

// RestoreProperty reverts a single property to its value in the snapshot
// taken before the mutation, leaving unrelated entries untouched.
func RestoreProperty(current, before Snapshot, propertyID string) Snapshot {
	for _, p := range before.Properties {
		if p.ID == propertyID {
			return ReplaceProperty(current, p)
		}
	}
	return RemoveProperty(current, propertyID)
}

func cloneSnapshot(snap Snapshot) Snapshot {
	out := snap
	out.Properties = make([]models.SavedProperty, len(snap.Properties))
	copy(out.Properties, snap.Properties)
	return out
}
