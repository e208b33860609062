package shopping

import (
	"fmt"
	"sync"

	"cookwise/internal/storage"
)

// Cache holds the last generated grocery list. The pristine copy taken at
// generation time lives on the session adapter so it does not survive a
// reload.
type Cache struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	session *storage.Adapter
	list    *GroceryList
}

// NewCache loads the cached list from adapter.
func NewCache(adapter, session *storage.Adapter) *Cache {
	c := &Cache{adapter: adapter, session: session}
	if l, ok := storage.Load[GroceryList](adapter, storage.KeyGroceryList); ok {
		c.list = &l
	}
	return c
}

// Save replaces the cached list. A nil list removes it.
func (c *Cache) Save(list *GroceryList) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(list)
}

func (c *Cache) saveLocked(list *GroceryList) error {
	if list == nil {
		if err := c.adapter.Remove(storage.KeyGroceryList); err != nil {
			return fmt.Errorf("failed to clear grocery list: %w", err)
		}
		c.list = nil
		return nil
	}

	cp := list.Clone()
	if err := c.adapter.Save(storage.KeyGroceryList, cp); err != nil {
		return fmt.Errorf("failed to save grocery list: %w", err)
	}
	c.list = &cp
	return nil
}

// Store saves a freshly generated list together with its pristine copy.
func (c *Cache) Store(list GroceryList) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.saveLocked(&list); err != nil {
		return err
	}
	if err := c.session.Save(storage.KeyPristineGroceryList, list); err != nil {
		return fmt.Errorf("failed to save pristine grocery list: %w", err)
	}
	return nil
}

// Get returns a copy of the cached list.
func (c *Cache) Get() (GroceryList, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.list == nil {
		return GroceryList{}, false
	}
	return c.list.Clone(), true
}

// EditItem renames one item of the cached list.
func (c *Cache) EditItem(category, item int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list == nil {
		return fmt.Errorf("%w: no grocery list", ErrInvalidList)
	}
	if category < 0 || category >= len(c.list.GroceryList) {
		return fmt.Errorf("%w: no category %d", ErrInvalidList, category)
	}
	if item < 0 || item >= len(c.list.GroceryList[category].Items) {
		return fmt.Errorf("%w: no item %d in %s", ErrInvalidList, item, c.list.GroceryList[category].Category)
	}

	if _, ok := storage.Load[GroceryList](c.session, storage.KeyPristineGroceryList); !ok {
		if err := c.session.Save(storage.KeyPristineGroceryList, c.list.Clone()); err != nil {
			return fmt.Errorf("failed to save pristine grocery list: %w", err)
		}
	}

	next := c.list.Clone()
	next.GroceryList[category].Items[item].Item = name
	return c.saveLocked(&next)
}

// IsStale reports whether any item name differs from the pristine copy.
// The pristine copy is taken at generation time or, for a list loaded from
// an earlier session, right before its first edit. Without one the list is
// never stale.
func (c *Cache) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.list == nil {
		return false
	}
	pristine, ok := storage.Load[GroceryList](c.session, storage.KeyPristineGroceryList)
	if !ok {
		return false
	}
	return !sameItemNames(*c.list, pristine)
}

// Clear removes the cached list and its pristine copy.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.saveLocked(nil); err != nil {
		return err
	}
	if err := c.session.Remove(storage.KeyPristineGroceryList); err != nil {
		return fmt.Errorf("failed to clear pristine grocery list: %w", err)
	}
	return nil
}

func sameItemNames(a, b GroceryList) bool {
	if len(a.GroceryList) != len(b.GroceryList) {
		return false
	}
	for i := range a.GroceryList {
		ai, bi := a.GroceryList[i].Items, b.GroceryList[i].Items
		if len(ai) != len(bi) {
			return false
		}
		for j := range ai {
			if ai[j].Item != bi[j].Item {
				return false
			}
		}
	}
	return true
}
