package planner

import (
	"fmt"
	"sync"

	"cookwise/internal/notify"
	"cookwise/internal/storage"
)

// Store is the current draft meal plan.
type Store struct {
	mu       sync.RWMutex
	adapter  *storage.Adapter
	notifier notify.Notifier
	plan     Plan
}

// NewStore loads the persisted plan.
func NewStore(adapter *storage.Adapter, notifier notify.Notifier) *Store {
	plan, ok := storage.Load[Plan](adapter, storage.KeyPlannedRecipes)
	if !ok || plan == nil {
		plan = Plan{}
	}
	return &Store{adapter: adapter, notifier: notifier, plan: normalize(plan)}
}

// Update applies u to a copy of the plan and persists the result.
func (s *Store) Update(u Updater) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := u(s.plan.Clone())
	if next == nil {
		next = Plan{}
	}
	next = normalize(next)

	if err := s.adapter.Save(storage.KeyPlannedRecipes, next); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	s.plan = next
	return nil
}

// Clear empties the plan and removes the persisted key.
func (s *Store) Clear() error {
	if err := s.ClearSilently(); err != nil {
		return err
	}
	s.notifier.Notify(notify.Notice{
		Title:       "Meal Plan Cleared",
		Description: "Your recipe selections have been reset.",
	})
	return nil
}

// ClearSilently is Clear without the notice, used once a plan has been
// turned into a delivery or a saved list.
func (s *Store) ClearSilently() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adapter.Remove(storage.KeyPlannedRecipes); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	s.plan = Plan{}
	return nil
}

// Get returns a copy of the plan.
func (s *Store) Get() Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Clone()
}

// Frequency returns the weekly frequency of title, 0 when not planned.
func (s *Store) Frequency(title string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan[title]
}

// Len is the number of planned recipes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plan)
}

func normalize(p Plan) Plan {
	for title, f := range p {
		if f < 1 {
			p[title] = 1
		}
	}
	return p
}
