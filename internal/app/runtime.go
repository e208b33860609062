package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cookwise/internal/config"
	"cookwise/internal/database"
	"cookwise/internal/ghost"
	"cookwise/internal/llm"
	"cookwise/internal/metrics"
	"cookwise/internal/notify"
	"cookwise/internal/planner"
	"cookwise/internal/recipe"
	"cookwise/internal/shopping"
	"cookwise/internal/storage"
)

// Runtime owns the process wide resources sessions are built from.
type Runtime struct {
	cfg     *config.Config
	DB      *database.DB
	Metrics *metrics.Store
	client  llm.Closer
	deps    Deps
}

// NewRuntime opens the database and the configured LLM provider.
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	rt := NewRuntimeWithGenerator(cfg, db, client)
	rt.client = client
	return rt, nil
}

// NewRuntimeWithGenerator builds a Runtime over an open database and text
// generator. Closing it closes db but not textGen.
func NewRuntimeWithGenerator(cfg *config.Config, db *database.DB, textGen llm.TextGenerator) *Runtime {
	store := metrics.NewStore(db.SQL)
	deps := Deps{
		Recipes:  recipe.NewGenerator(textGen),
		Importer: recipe.NewImporter(textGen),
		Lists:    shopping.NewListGenerator(textGen),
		Analyst:  planner.NewAnalyst(textGen),
		Metrics:  store,
	}
	if cfg.GhostEnabled() {
		deps.Publisher = ghost.NewClient(cfg)
	}
	return &Runtime{cfg: cfg, DB: db, Metrics: store, deps: deps}
}

// Medium returns the durable medium holding the state of scope.
func (r *Runtime) Medium(scope string) (storage.Medium, error) {
	switch r.cfg.StorageBackend {
	case config.BackendFile:
		return storage.NewFileMedium(filepath.Join(r.cfg.FileStoragePath, scope))
	default:
		return database.NewKVMedium(r.DB.SQL, scope), nil
	}
}

// Scopes lists the scopes that hold state in the configured backend.
func (r *Runtime) Scopes() ([]string, error) {
	if r.cfg.StorageBackend == config.BackendFile {
		entries, err := os.ReadDir(r.cfg.FileStoragePath)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list storage directory: %w", err)
		}
		var scopes []string
		for _, e := range entries {
			if e.IsDir() {
				scopes = append(scopes, e.Name())
			}
		}
		return scopes, nil
	}
	return database.Scopes(r.DB.SQL)
}

// OpenSession loads the session of scope. Every session gets its own
// in-memory medium for state that must not outlive it. A nil notifier
// sends notices to the session log.
func (r *Runtime) OpenSession(scope string, notifier notify.Notifier) (*Session, error) {
	medium, err := r.Medium(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage for %s: %w", scope, err)
	}
	deps := r.deps
	deps.Logger = slog.Default().With("scope", scope)
	if notifier == nil {
		notifier = notify.LogNotifier{Logger: deps.Logger}
	}
	return NewSession(storage.NewAdapter(medium, r.cfg.StoragePrefix), notifier, deps), nil
}

// Close releases the LLM client and the database.
func (r *Runtime) Close() error {
	var errs []error
	if r.client != nil {
		errs = append(errs, r.client.Close())
	}
	errs = append(errs, r.DB.Close())
	return errors.Join(errs...)
}
