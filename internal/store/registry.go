// Package store keeps live, per-user working state (assessment sessions and
// authoring drafts) in memory until it is discarded or expires.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired entries.
var ErrNotFound = errors.New("entry not found")

type entry[T any] struct {
	mu       sync.Mutex
	value    T
	lastSeen time.Time
	removed  bool
}

// Registry maps generated ids to values that expire after ttl of inactivity.
// Calls on the same id are serialised; distinct ids never share state.
type Registry[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry creates a Registry. A non-positive ttl disables expiry.
func NewRegistry[T any](ttl time.Duration) *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores v under a new id and returns the id.
func (r *Registry[T]) Put(v T) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.entries[id] = &entry[T]{value: v, lastSeen: r.now()}
	r.mu.Unlock()

	return id
}

// With runs fn with exclusive access to the value stored under id and
// refreshes its expiry. Changes fn makes through the pointer are kept.
func (r *Registry[T]) With(id string, fn func(v *T) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return ErrNotFound
	}

	e.lastSeen = r.now()
	return fn(&e.value)
}

// Delete removes id. It reports whether an entry was present.
func (r *Registry[T]) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}
	return ok
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops entries idle for longer than the ttl and returns how many were
// removed.
func (r *Registry[T]) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.ttl)
	removed := 0

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		// Entries in use are skipped and looked at again on the next sweep.
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			e.removed = true
			delete(r.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (r *Registry[T]) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (r *Registry[T]) lookup(id string) (*entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl && e.mu.TryLock() {
		e.removed = true
		delete(r.entries, id)
		e.mu.Unlock()
		return nil, false
	}
	return e, true
}
