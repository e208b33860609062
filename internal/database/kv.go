package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVMedium is a storage.Medium backed by the kv_store table. Every key is
// partitioned by scope, usually the id of the user owning the session.
type KVMedium struct {
	db    *sql.DB
	scope string
}

// NewKVMedium creates a medium for a single scope.
func NewKVMedium(db *sql.DB, scope string) *KVMedium {
	return &KVMedium{db: db, scope: scope}
}

func (m *KVMedium) Get(key string) (string, bool, error) {
	var value string
	err := m.db.QueryRow(
		`SELECT value FROM kv_store WHERE scope = ? AND key = ?`,
		m.scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value. Last write wins.
func (m *KVMedium) Set(key, value string) error {
	_, err := m.db.Exec(
		`INSERT INTO kv_store (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		m.scope, key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (m *KVMedium) Remove(key string) error {
	if _, err := m.db.Exec(`DELETE FROM kv_store WHERE scope = ? AND key = ?`, m.scope, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Scopes lists every scope with at least one stored key.
func Scopes(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT scope FROM kv_store ORDER BY scope`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}
	return scopes, rows.Err()
}
