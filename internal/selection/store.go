package selection

import (
	"context"
	"sync"
)

// Store is an in-memory Environment. The zero value is an empty selection.
type Store struct {
	mu      sync.Mutex
	active  int
	objects []Object
	// OnActivate, when set, is called after every successful Activate.
	OnActivate func(Object)
}

// NewStore returns a store selecting objs; the first object is active.
func NewStore(objs ...Object) *Store {
	s := &Store{}
	s.Set(objs...)
	return s
}

// Selection implements Environment.
func (s *Store) Selection() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Objects: append([]Object(nil), s.objects...)}
	if len(s.objects) > 0 {
		active := s.objects[s.active]
		snap.Active = &active
	}
	return snap
}

// Activate implements Environment.
func (s *Store) Activate(_ context.Context, o Object) error {
	s.Set(o)
	if s.OnActivate != nil {
		s.OnActivate(o)
	}
	return nil
}

// Set replaces the selection; the first object becomes active.
func (s *Store) Set(objs ...Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append([]Object(nil), objs...)
	s.active = 0
}

// Add appends o to the selection and makes it active.
func (s *Store) Add(o Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, o)
	s.active = len(s.objects) - 1
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.Set()
}
