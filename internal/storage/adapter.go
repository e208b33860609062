// Package storage persists application state as one JSON blob per logical
// key on a pluggable medium.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Logical keys. Each is namespaced by the adapter prefix.
const (
	KeyPreferences    = "user-preferences"
	KeySavedRecipes   = "saved-recipes"
	KeyGroceryList    = "grocery-list"
	KeyPantry         = "pantry-items"
	KeyPlannedRecipes = "planned-recipes"
	KeyDeliveryPlans  = "delivery-plans"
	KeySavedLists     = "saved-lists"

	// KeyPristineGroceryList lives on the session medium only.
	KeyPristineGroceryList = "pristine-grocery-list"
)

// DefaultPrefix namespaces every key of the application.
const DefaultPrefix = "cookwise-"

// Adapter encodes values as JSON on a Medium.
type Adapter struct {
	medium Medium
	prefix string
}

// NewAdapter creates an Adapter over medium. An empty prefix keeps keys as is.
func NewAdapter(medium Medium, prefix string) *Adapter {
	return &Adapter{medium: medium, prefix: prefix}
}

func logger() *slog.Logger {
	return slog.Default().With("component", "storage")
}

func (a *Adapter) key(k string) string {
	return a.prefix + k
}

// Raw returns the stored string for key.
func (a *Adapter) Raw(key string) (string, bool) {
	raw, ok, err := a.medium.Get(a.key(key))
	if err != nil {
		logger().Warn("failed to read key", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// Save replaces the value stored under key.
func (a *Adapter) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := a.medium.Set(a.key(key), string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Remove deletes key from the medium.
func (a *Adapter) Remove(key string) error {
	if err := a.medium.Remove(a.key(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Load decodes the value under key. Missing or undecodable values are
// reported as absent.
func Load[T any](a *Adapter, key string) (T, bool) {
	var v T
	raw, ok := a.Raw(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger().Warn("discarding undecodable value", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return v, true
}

// LoadStringList loads a JSON string array, falling back to the legacy
// comma separated format when the value is not JSON at all.
func LoadStringList(a *Adapter, key string) ([]string, bool) {
	raw, ok := a.Raw(key)
	if !ok {
		return nil, false
	}

	var list []string
	err := json.Unmarshal([]byte(raw), &list)
	if err == nil {
		return list, true
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		logger().Warn("discarding undecodable value", "key", key, "error", err)
		return nil, false
	}

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list, true
}
