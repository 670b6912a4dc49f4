package optimistic

import (
	"context"
	"sync"
)

// Package optimistic implements the apply-locally-then-commit pattern shared
// by every user-initiated mutation: the local state changes synchronously so
// readers see the result immediately, the remote write happens afterwards,
// and a failed write rolls the local state back and returns the error.

// Mutation describes one optimistic state transition over S.
//
// Apply must be a pure transformation; it runs under the coordinator's state
// lock. Commit performs the remote write. Revert unwinds exactly what Apply
// did, given the current state and the snapshot captured for this mutation;
// when Revert is nil the coordinator restores the whole snapshot. Mutations
// that can interleave with others on different entities should supply a
// targeted Revert so a late failure does not clobber unrelated applied
// changes.
type Mutation[S any] struct {
	Apply  func(S) S
	Commit func(context.Context) error
	Revert func(current, snapshot S) S
}

// Coordinator serializes mutations per entity key and owns the local state.
// Distinct entities may commit concurrently; two mutations on the same key
// apply strictly one after another (last applied wins locally), and each
// failure unwinds against its own snapshot rather than a global one.
type Coordinator[S any] struct {
	mu    sync.Mutex
	state S

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

func New[S any](initial S) *Coordinator[S] {
	return &Coordinator[S]{state: initial, keys: make(map[string]*sync.Mutex)}
}

// State returns the current local state.
func (c *Coordinator[S]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Replace swaps the local state wholesale, outside any mutation. Used when a
// fresh canonical snapshot arrives from the remote source.
func (c *Coordinator[S]) Replace(state S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// Do runs one optimistic mutation against the entity identified by key.
// The local apply is synchronous; on commit failure the state is reverted
// and the commit error is returned for the caller to surface. A failed
// write is never swallowed: swallowing would leave local and remote state
// permanently out of sync.
func (c *Coordinator[S]) Do(ctx context.Context, key string, m Mutation[S]) error {
	lock := c.entityLock(key)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	snapshot := c.state
	c.state = m.Apply(c.state)
	c.mu.Unlock()

	if m.Commit == nil {
		return nil
	}
	if err := m.Commit(ctx); err != nil {
		c.mu.Lock()
		if m.Revert != nil {
			c.state = m.Revert(c.state, snapshot)
		} else {
			c.state = snapshot
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Coordinator[S]) entityLock(key string) *sync.Mutex {
	c.keysMu.Lock()
	defer c.keysMu.Unlock()
	lock, ok := c.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		c.keys[key] = lock
	}
	return lock
}
