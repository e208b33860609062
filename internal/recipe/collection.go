package recipe

import (
	"fmt"
	"strings"
	"sync"

	"cookwise/internal/notify"
	"cookwise/internal/storage"
)

// Collection is the user's list of favourite recipes in insertion order.
type Collection struct {
	mu       sync.RWMutex
	adapter  *storage.Adapter
	notifier notify.Notifier
	recipes  []Recipe
}

// NewCollection loads the saved recipes from adapter.
func NewCollection(adapter *storage.Adapter, notifier notify.Notifier) *Collection {
	recipes, _ := storage.Load[[]Recipe](adapter, storage.KeySavedRecipes)
	return &Collection{
		adapter:  adapter,
		notifier: notifier,
		recipes:  recipes,
	}
}

// Save appends r unless a recipe with the same title exists. It reports
// whether r was added.
func (c *Collection) Save(r Recipe) (bool, error) {
	if strings.TrimSpace(r.Title) == "" {
		return false, fmt.Errorf("%w: missing title", ErrInvalidRecipe)
	}

	c.mu.Lock()
	if c.indexOf(r.Title) >= 0 {
		c.mu.Unlock()
		c.notifier.Notify(notify.Notice{
			Title:       "Already Saved",
			Description: "This recipe is already in your favorites.",
		})
		return false, nil
	}

	updated := append(append([]Recipe(nil), c.recipes...), r)
	if err := c.adapter.Save(storage.KeySavedRecipes, updated); err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("failed to save recipe: %w", err)
	}
	c.recipes = updated
	c.mu.Unlock()

	c.notifier.Notify(notify.Notice{
		Title:       "Recipe Saved!",
		Description: fmt.Sprintf("\"%s\" has been added to your favorites.", r.Title),
	})
	return true, nil
}

// Remove drops every recipe titled title.
func (c *Collection) Remove(title string) error {
	c.mu.Lock()
	updated := make([]Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		if r.Title != title {
			updated = append(updated, r)
		}
	}
	if err := c.adapter.Save(storage.KeySavedRecipes, updated); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to remove recipe: %w", err)
	}
	c.recipes = updated
	c.mu.Unlock()

	c.notifier.Notify(notify.Notice{
		Title:       "Recipe Removed",
		Description: fmt.Sprintf("\"%s\" has been removed from your favorites.", title),
	})
	return nil
}

// IsSaved reports whether a recipe titled title exists.
func (c *Collection) IsSaved(title string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(title) >= 0
}

// Get returns the recipe titled title.
func (c *Collection) Get(title string) (Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(title); i >= 0 {
		return c.recipes[i], true
	}
	return Recipe{}, false
}

// List returns a copy of the collection in insertion order.
func (c *Collection) List() []Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Recipe(nil), c.recipes...)
}

func (c *Collection) indexOf(title string) int {
	for i, r := range c.recipes {
		if r.Title == title {
			return i
		}
	}
	return -1
}
