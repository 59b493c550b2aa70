// Package presence tracks which users currently hold a live connection.
//
// The registry is process-wide mutable state shared by the HTTP layer, the
// messaging relay, and the dispatch orchestrator. Entries are independent per
// user; each insert, overwrite, or delete is atomic under the registry's lock
// and no cross-entry coordination happens.
package presence

import (
	"sync"
	"time"

	"agrimarket/internal/core/domain/model/kernel"
)

// Entry is a snapshot of one user's connection state. Role and Name travel
// with the entry so presence broadcasts can say who came online without a
// database lookup.
type Entry struct {
	UserID      kernel.UUID
	Role        string
	Name        string
	ConnectedAt time.Time
	LastSeen    time.Time
}

// Registry is an in-process map of online users. The zero value is not usable;
// construct with NewRegistry and inject it where presence is consulted.
type Registry struct {
	mu      sync.RWMutex
	entries map[kernel.UUID]Entry
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[kernel.UUID]Entry),
	}
}

// Connect records a live connection for the user. Reconnecting overwrites the
// previous entry.
func (r *Registry) Connect(userID kernel.UUID, role string, name string) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = Entry{
		UserID:      userID,
		Role:        role,
		Name:        name,
		ConnectedAt: now,
		LastSeen:    now,
	}
}

// Touch refreshes the user's LastSeen if they are connected. A touch for an
// unknown user is a no-op.
func (r *Registry) Touch(userID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID]
	if !ok {
		return
	}
	entry.LastSeen = time.Now()
	r.entries[userID] = entry
}

// Disconnect removes the user's entry and returns it with LastSeen stamped at
// the moment of disconnect. Disconnecting an unknown user is a no-op.
func (r *Registry) Disconnect(userID kernel.UUID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID]
	if !ok {
		return Entry{}, false
	}
	entry.LastSeen = time.Now()
	delete(r.entries, userID)
	return entry, true
}

// IsOnline reports whether the user currently holds a live connection.
func (r *Registry) IsOnline(userID kernel.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

// Get returns the user's entry if connected.
func (r *Registry) Get(userID kernel.UUID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[userID]
	return entry, ok
}

// Snapshot returns a copy of all current entries.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return entries
}
