// Package memory implements an in-memory credential store, used in tests
// and for sessions that should not outlive the process.
package memory

import "sync"

// Store holds the token in memory
type Store struct {
	mu    sync.Mutex
	token string
}

// New creates an empty Store
func New() *Store {
	return &Store{}
}

// Get returns the stored token, or "" when none is stored
func (s *Store) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Set stores the token
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
