// Package project holds the explicit per-project state container that
// collaborators receive by injection. Cross-component side effects,
// like extraction confirmation marking unsaved changes, go through
// this type instead of ambient globals.
package project

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the identity and dirty-tracking for one open project.
type State struct {
	mu        sync.Mutex
	id        string
	name      string
	dirty     bool
	updatedAt time.Time
}

func New(name string) *State {
	return &State{
		id:        uuid.NewString(),
		name:      name,
		updatedAt: time.Now(),
	}
}

// Open restores a state for an existing project id, as loaded from the
// store.
func Open(id, name string) *State {
	return &State{id: id, name: name, updatedAt: time.Now()}
}

func (s *State) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *State) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// MarkDirty records that in-memory state diverged from the store.
func (s *State) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	s.updatedAt = time.Now()
}

// ClearDirty is called after a successful save.
func (s *State) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

func (s *State) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *State) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
