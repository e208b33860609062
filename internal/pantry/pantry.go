// Package pantry keeps the list of ingredients the user already owns.
package pantry

import (
	"fmt"
	"sync"

	"cookwise/internal/storage"
)

// Store holds the pantry list. It does not deduplicate; callers check
// Contains before adding.
type Store struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	items   []string
}

// NewStore loads the pantry, accepting the legacy comma separated format.
func NewStore(adapter *storage.Adapter) *Store {
	items, _ := storage.LoadStringList(adapter, storage.KeyPantry)
	return &Store{adapter: adapter, items: items}
}

// Save replaces the whole list.
func (s *Store) Save(items []string) error {
	next := append([]string{}, items...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adapter.Save(storage.KeyPantry, next); err != nil {
		return fmt.Errorf("failed to save pantry: %w", err)
	}
	s.items = next
	return nil
}

// Items returns a copy of the list.
func (s *Store) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.items...)
}

// Contains reports an exact, case sensitive match.
func (s *Store) Contains(item string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it == item {
			return true
		}
	}
	return false
}
