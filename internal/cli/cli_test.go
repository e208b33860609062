package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"cookwise/internal/app"
	"cookwise/internal/config"
	"cookwise/internal/database"
	"cookwise/internal/llm"
	"cookwise/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.responses) == 0 {
		return llm.ContentResponse{}, assert.AnError
	}
	out := g.responses[0]
	g.responses = g.responses[1:]
	return llm.ContentResponse{Content: out, Usage: shared.TokenUsage{PromptTokens: 11, CompletionTokens: 4, Model: "mock"}}, nil
}

const lemonPasta = `{
	"title": "Lemon Pasta",
	"description": "Bright and quick.",
	"ingredients": "- 200g spaghetti\n- 1 lemon",
	"instructions": "1. **Boil** the pasta.\n2. Toss with lemon.",
	"nutritionalInfo": {"calories": 520, "protein": 18, "carbs": 80, "fat": 12},
	"estimatedCost": "~€4.50*"
}`

const groceries = `{"groceryList":[{"category":"Pasta","items":[
	{"item":"spaghetti","estimatedCost":"~€1,50*"},
	{"item":"lemon","estimatedCost":"~€0,50*"}]}]}`

type harness struct {
	t   *testing.T
	cfg *config.Config
	gen *scriptedGenerator
}

func newHarness(t *testing.T, responses ...string) *harness {
	dir := t.TempDir()
	return &harness{
		t: t,
		cfg: &config.Config{
			StorageBackend:  config.BackendSQLite,
			DatabasePath:    filepath.Join(dir, "cookwise.db"),
			FileStoragePath: filepath.Join(dir, "kv"),
			StoragePrefix:   "cookwise-",
		},
		gen: &scriptedGenerator{responses: responses},
	}
}

// run executes one invocation of the command line, like a fresh process.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCommand(func(ctx context.Context) (*app.Runtime, error) {
		db, err := database.NewDB(h.cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		rt := app.NewRuntimeWithGenerator(h.cfg, db, h.gen)
		h.t.Cleanup(func() { rt.Close() })
		return rt, nil
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "cookwise %v", args)
	return out
}

func (h *harness) onboard() {
	h.mustRun("onboard", "--level", "Intermediate", "--time", "30-60", "--meals", "Dinner,Lunch", "--allergies", "peanuts", "--protein", "120")
}

func TestOnboardAndShow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("prefs", "show")
	assert.Contains(t, out, "No profile yet")

	_, err := h.run("onboard", "--level", "Chef", "--meals", "Dinner")
	assert.Error(t, err)

	h.onboard()
	out = h.mustRun("prefs", "show")
	assert.Contains(t, out, "Cooking level: Intermediate")
	assert.Contains(t, out, "Allergies: peanuts")
	assert.Contains(t, out, "Meal types: Dinner, Lunch")
	assert.Contains(t, out, "Protein target: 120")
	assert.NotContains(t, out, "Budget")

	h.mustRun("onboard", "--level", "advanced", "--time", "60+", "--meals", "Dinner")
	out = h.mustRun("prefs", "show")
	assert.Contains(t, out, "Cooking level: Advanced")
	assert.Contains(t, out, "Time availability: 60+ min")
}

func TestRecipeRequiresOnboarding(t *testing.T) {
	h := newHarness(t, lemonPasta)

	_, err := h.run("recipe", "generate", "pasta")
	assert.ErrorIs(t, err, app.ErrNotOnboarded)
}

func TestGenerateAndSaveLast(t *testing.T) {
	h := newHarness(t, lemonPasta)
	h.onboard()

	out := h.mustRun("recipe", "generate", "something", "with", "lemon", "--budget", "8")
	assert.Contains(t, out, "Lemon Pasta\n===========")
	assert.Contains(t, out, "  1. Boil the pasta.")
	assert.Contains(t, out, "recipe save-last")

	out = h.mustRun("recipe", "save-last")
	assert.Contains(t, out, `[Recipe Saved!] "Lemon Pasta" has been added to your favorites.`)

	out = h.mustRun("recipe", "save-last")
	assert.Contains(t, out, "[Already Saved]")

	out = h.mustRun("recipe", "list")
	assert.Equal(t, "1. Lemon Pasta\n", out)

	out = h.mustRun("metrics", "usage")
	assert.Contains(t, out, "11 prompt")
	assert.Contains(t, out, "1 calls")
}

func TestPlanToDelivery(t *testing.T) {
	h := newHarness(t, lemonPasta, groceries)
	h.onboard()
	h.mustRun("recipe", "generate", "lemon")
	h.mustRun("recipe", "save-last")

	_, err := h.run("grocery", "create")
	assert.ErrorIs(t, err, app.ErrNoSelection)

	h.mustRun("plan", "toggle", "1")
	out := h.mustRun("plan", "inc", "Lemon", "Pasta")
	assert.Contains(t, out, "x2/week")

	out = h.mustRun("plan", "nutrition")
	assert.Contains(t, out, "149 kcal")

	_, err = h.run("grocery", "show")
	assert.ErrorIs(t, err, app.ErrNoGroceryList)

	out = h.mustRun("grocery", "create")
	assert.Contains(t, out, "1. Pasta")
	assert.Contains(t, out, "1.2 lemon (~€0,50*)")
	assert.Contains(t, out, "Supermarket C: ~€")

	out = h.mustRun("grocery", "edit", "1", "2", "two", "limes")
	assert.Contains(t, out, "1.2 two limes")
	assert.Contains(t, out, "prices may be out of date")

	// The edit survives a new invocation, the stale flag does not.
	out = h.mustRun("grocery", "show")
	assert.Contains(t, out, "1.2 two limes")
	assert.NotContains(t, out, "prices may be out of date")

	_, err = h.run("grocery", "schedule", "Z")
	assert.ErrorIs(t, err, app.ErrNoSupermarket)

	out = h.mustRun("grocery", "schedule", "b")
	assert.Equal(t, "[Delivery Scheduled!] Your order from Supermarket B is on its way.\n", out)

	out = h.mustRun("deliveries", "show")
	assert.Contains(t, out, "Supermarket B")
	assert.Contains(t, out, "Order Placed  2 items")

	out = h.mustRun("plan", "show")
	assert.Equal(t, "No recipes selected.\n", out)

	out = h.mustRun("deliveries", "remove", "1")
	assert.Contains(t, out, "[Delivery Removed]")
	_, err = h.run("deliveries", "remove", "1")
	assert.Error(t, err)
}

func TestSavedListPromotion(t *testing.T) {
	h := newHarness(t, lemonPasta, groceries)
	h.onboard()
	h.mustRun("recipe", "generate", "lemon")
	h.mustRun("recipe", "save-last")
	h.mustRun("plan", "toggle", "Lemon Pasta")
	h.mustRun("grocery", "create")

	out := h.mustRun("grocery", "save")
	assert.Contains(t, out, "[List Saved!]")

	out = h.mustRun("lists", "show")
	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "~€2,00*  Lemon Pasta")

	out = h.mustRun("lists", "schedule", "1", "A")
	assert.Equal(t, "[Delivery Scheduled!] Your order from Supermarket A is on its way.\n", out)

	out = h.mustRun("lists", "show")
	assert.Equal(t, "No saved lists.\n", out)
}

func TestUserScopes(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("--user", "alice", "pantry", "add", "eggs,", "milk")
	assert.Equal(t, "- eggs\n- milk\n", out)

	out = h.mustRun("--user", "bob", "pantry", "list")
	assert.Equal(t, "Pantry is empty.\n", out)

	out = h.mustRun("-u", "alice", "pantry", "remove", "eggs")
	assert.Equal(t, "- milk\n", out)

	out = h.mustRun("users")
	assert.Contains(t, out, "alice\n")
}

func TestPlanClear(t *testing.T) {
	h := newHarness(t, lemonPasta, groceries)
	h.onboard()
	h.mustRun("recipe", "generate", "lemon")
	h.mustRun("recipe", "save-last")
	h.mustRun("plan", "toggle", "1")
	h.mustRun("grocery", "create")

	out := h.mustRun("plan", "clear")
	assert.Equal(t, "[Meal Plan Cleared] Your recipe selections have been reset.\n", out)

	_, err := h.run("grocery", "show")
	assert.ErrorIs(t, err, app.ErrNoGroceryList)
}
