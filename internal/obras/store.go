package obras

import (
	"sync"
	"time"
)

// Store owns the loaded collection. Until a load succeeds it reports no data,
// and every consumer treats that as a no-op.
type Store struct {
	loadedAt time.Time
	err      error
	features []Feature
	mu       sync.RWMutex
	loaded   bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set publishes a freshly loaded collection and clears any previous error.
func (s *Store) Set(features []Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.features = features
	s.loaded = true
	s.loadedAt = time.Now()
	s.err = nil
}

// Fail records a load error. A previously loaded collection is kept.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Features returns the collection and whether it has been loaded.
// The returned slice is shared and must not be modified.
func (s *Store) Features() ([]Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.features, s.loaded
}

// Err returns the last load error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// LoadedAt returns when the collection was last published.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadedAt
}
