// Package history keeps the delivery plans and saved grocery lists made
// from past meal plans, most recent first.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"cookwise/internal/storage"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

type record interface {
	RecordID() string
}

// recordLog is a persisted newest-first list of records.
type recordLog[T record] struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	key     string
	items   []T
}

func newRecordLog[T record](adapter *storage.Adapter, key string) *recordLog[T] {
	items, _ := storage.Load[[]T](adapter, key)
	return &recordLog[T]{adapter: adapter, key: key, items: items}
}

func (l *recordLog[T]) prepend(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := append([]T{item}, l.items...)
	if err := l.adapter.Save(l.key, next); err != nil {
		return fmt.Errorf("failed to save %s: %w", l.key, err)
	}
	l.items = next
	return nil
}

func (l *recordLog[T]) remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]T, 0, len(l.items))
	for _, it := range l.items {
		if it.RecordID() != id {
			next = append(next, it)
		}
	}
	if len(next) == len(l.items) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := l.adapter.Save(l.key, next); err != nil {
		return fmt.Errorf("failed to save %s: %w", l.key, err)
	}
	l.items = next
	return nil
}

func (l *recordLog[T]) clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.adapter.Remove(l.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", l.key, err)
	}
	l.items = nil
	return nil
}

func (l *recordLog[T]) list() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *recordLog[T]) get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// NewID derives a record id from its creation time.
func NewID(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano)
}
