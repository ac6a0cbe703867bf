// Package session keeps per-client state for the MCP servers, keyed by the
// transport's session id.
package session

import "sync"

// LocalID is used when a request carries no session, e.g. a stdio client
// before registration or direct handler calls.
const LocalID = "local"

type entry[T any] struct {
	mu    sync.Mutex
	value *T
	refs  int // guarded by Store.mu
}

// Store maps session ids to a value of type T. Each session has its own
// lock; Do holds it for the whole callback so requests of one session are
// serialized while different sessions proceed in parallel. Sessions without
// a value hold no entry.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]*entry[T])}
}

func key(id string) string {
	if id == "" {
		return LocalID
	}
	return id
}

func (s *Store[T]) acquire(id string) *entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry[T]{}
		s.entries[id] = e
	}
	e.refs++
	return e
}

// release removes the entry once no caller holds it and it has no value.
func (s *Store[T]) release(id string, e *entry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.refs--
	if e.refs == 0 && e.value == nil && s.entries[id] == e {
		delete(s.entries, id)
	}
}

// Do runs fn with the current value of session id (nil when unset) under the
// session lock. The pointer fn returns becomes the new value; returning nil
// forgets the session.
func (s *Store[T]) Do(id string, fn func(cur *T) *T) {
	id = key(id)
	e := s.acquire(id)
	defer s.release(id, e)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = fn(e.value)
}

// Load returns the value of session id, or nil. It never creates an entry.
func (s *Store[T]) Load(id string) *T {
	s.mu.Lock()
	e, ok := s.entries[key(id)]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Drop forgets session id.
func (s *Store[T]) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key(id))
}

// Len returns the number of sessions holding a value or a pending call.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
