package app

import (
	"context"
	"path/filepath"
	"testing"

	"cookwise/internal/config"
	"cookwise/internal/database"
	"cookwise/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuntime(t *testing.T, backend string) (*Runtime, *mockTextGenerator) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		StorageBackend:  backend,
		DatabasePath:    filepath.Join(dir, "cookwise.db"),
		FileStoragePath: filepath.Join(dir, "kv"),
		StoragePrefix:   "cookwise-",
	}
	db, err := database.NewDB(cfg.DatabasePath)
	require.NoError(t, err)

	gen := &mockTextGenerator{}
	rt := NewRuntimeWithGenerator(cfg, db, gen)
	t.Cleanup(func() { rt.Close() })
	return rt, gen
}

func TestRuntimeScopes(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			rt, _ := testRuntime(t, backend)

			alice, err := rt.OpenSession("alice", notify.Discard)
			require.NoError(t, err)
			require.NoError(t, alice.SavePreferences(testPreferences()))
			_, err = alice.AddPantryItem("rice")
			require.NoError(t, err)

			again, err := rt.OpenSession("alice", notify.Discard)
			require.NoError(t, err)
			assert.True(t, again.IsOnboardingComplete())
			assert.Equal(t, []string{"rice"}, again.Pantry.Items())

			bob, err := rt.OpenSession("bob", notify.Discard)
			require.NoError(t, err)
			assert.False(t, bob.IsOnboardingComplete())
			assert.Empty(t, bob.Pantry.Items())

			scopes, err := rt.Scopes()
			require.NoError(t, err)
			assert.Contains(t, scopes, "alice")
		})
	}
}

func TestRuntimeRecordsUsage(t *testing.T) {
	rt, gen := testRuntime(t, config.BackendSQLite)
	gen.content = recipeJSON

	s, err := rt.OpenSession("alice", nil)
	require.NoError(t, err)
	require.NoError(t, s.SavePreferences(testPreferences()))

	_, err = s.GenerateRecipe(context.Background(), "lemon", nil, false)
	require.NoError(t, err)

	usage, err := rt.Metrics.GetDailyUsage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].TotalExecution)
	assert.Equal(t, 5, usage[0].TotalPrompt)

	_, err = s.PublishRecipe(context.Background(), "Lemon Pasta", false)
	assert.ErrorIs(t, err, ErrPublishingDisabled)
}
