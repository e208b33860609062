package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cookwise/internal/llm"
	"cookwise/internal/notify"
	"cookwise/internal/preferences"
	"cookwise/internal/recipe"
	"cookwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	content    string
	err        error
	lastPrompt string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.content}, nil
}

func newStore(t *testing.T) (*Store, *storage.MemoryMedium, *notify.Recorder) {
	t.Helper()
	medium := storage.NewMemoryMedium()
	rec := &notify.Recorder{}
	return NewStore(storage.NewAdapter(medium, storage.DefaultPrefix), rec), medium, rec
}

func TestUpdaters(t *testing.T) {
	s, medium, _ := newStore(t)

	require.NoError(t, s.Update(Toggle("X", true)))
	assert.Equal(t, 1, s.Frequency("X"))

	t.Run("DecrementClampsAtOne", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, s.Update(Decrement("X")))
		}
		assert.Equal(t, 1, s.Frequency("X"))
	})

	t.Run("Increment", func(t *testing.T) {
		require.NoError(t, s.Update(Increment("X")))
		require.NoError(t, s.Update(Increment("X")))
		assert.Equal(t, 3, s.Frequency("X"))
		require.NoError(t, s.Update(Decrement("X")))
		assert.Equal(t, 2, s.Frequency("X"))
	})

	t.Run("ToggleOnKeepsFrequency", func(t *testing.T) {
		require.NoError(t, s.Update(Toggle("X", true)))
		assert.Equal(t, 2, s.Frequency("X"))
	})

	t.Run("UnknownTitleIsNoOp", func(t *testing.T) {
		require.NoError(t, s.Update(Increment("Y")))
		require.NoError(t, s.Update(Decrement("Y")))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("ToggleOff", func(t *testing.T) {
		require.NoError(t, s.Update(Toggle("X", false)))
		assert.Equal(t, 0, s.Len())
		raw, ok, _ := medium.Get("cookwise-planned-recipes")
		require.True(t, ok)
		assert.Equal(t, "{}", raw)
	})

	t.Run("UpdaterCannotBreakFloor", func(t *testing.T) {
		require.NoError(t, s.Update(func(p Plan) Plan {
			p["Z"] = -4
			return p
		}))
		assert.Equal(t, 1, s.Frequency("Z"))
	})
}

func TestUpdateWorksOnCopy(t *testing.T) {
	s, _, _ := newStore(t)
	require.NoError(t, s.Update(Toggle("A", true)))

	p := s.Get()
	p["A"] = 10
	assert.Equal(t, 1, s.Frequency("A"))
}

func TestClear(t *testing.T) {
	s, medium, rec := newStore(t)
	require.NoError(t, s.Update(Toggle("A", true)))
	require.NoError(t, s.Update(Toggle("B", true)))

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
	_, ok, _ := medium.Get("cookwise-planned-recipes")
	assert.False(t, ok, "clear must remove the key")
	assert.Equal(t, []string{"Meal Plan Cleared"}, rec.Titles())

	// clearing an empty plan still removes the key
	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
}

func TestReload(t *testing.T) {
	s, medium, _ := newStore(t)
	require.NoError(t, s.Update(Toggle("A", true)))
	require.NoError(t, s.Update(Increment("A")))

	reloaded := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix), notify.Discard)
	assert.Equal(t, Plan{"A": 2}, reloaded.Get())
}

func TestResolve(t *testing.T) {
	recipes := []recipe.Recipe{{Title: "B"}, {Title: "A"}, {Title: "C"}}
	entries, dangling := Resolve(Plan{"A": 2, "B": 1, "Gone": 3}, recipes)

	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Recipe.Title)
	assert.Equal(t, "A", entries[1].Recipe.Title)
	assert.Equal(t, 2, entries[1].Frequency)
	assert.Equal(t, []string{"Gone"}, dangling)

	err := DanglingError(dangling)
	assert.ErrorIs(t, err, ErrDanglingEntry)
	assert.Contains(t, err.Error(), "Gone")
}

func TestDailyAverages(t *testing.T) {
	recipes := []recipe.Recipe{
		{Title: "A", NutritionalInfo: recipe.NutritionalInfo{Calories: 700, Protein: 35, Carbs: 70, Fat: 21}},
		{Title: "B", NutritionalInfo: recipe.NutritionalInfo{Calories: 350, Protein: 10, Carbs: 0, Fat: 7}},
	}
	got := DailyAverages(Plan{"A": 3, "B": 2, "Missing": 5}, recipes)
	assert.Equal(t, recipe.NutritionalInfo{Calories: 400, Protein: 18, Carbs: 30, Fat: 11}, got)

	assert.Equal(t, recipe.NutritionalInfo{}, DailyAverages(Plan{}, recipes))
}

func TestAnalyst(t *testing.T) {
	ctx := context.Background()
	input := []AnalysisRecipe{
		{Title: "Pasta", NutritionalInfo: recipe.NutritionalInfo{Calories: 500, Protein: 20}, Frequency: 3},
	}

	t.Run("Success", func(t *testing.T) {
		mock := &MockTextGenerator{content: `{"analysis":"**protein** is low"}`}
		out, meta, err := NewAnalyst(mock).Analyze(ctx, input, &preferences.DietaryTargets{TargetProtein: preferences.Float(40)})
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if out != "**protein** is low" {
			t.Errorf("Unexpected analysis %q", out)
		}
		if meta.AgentName != "Analyst" {
			t.Errorf("Expected agent 'Analyst', got %q", meta.AgentName)
		}
		if !strings.Contains(mock.lastPrompt, "Protein: 40g") {
			t.Error("Expected protein target in prompt")
		}
		if !strings.Contains(mock.lastPrompt, "**Frequency:** 3 times a week") {
			t.Error("Expected frequency in prompt")
		}
		if !strings.Contains(mock.lastPrompt, "Calories: 500") {
			t.Error("Expected calories in prompt")
		}
	})

	t.Run("NoTargets", func(t *testing.T) {
		mock := &MockTextGenerator{content: `{"analysis":"fine"}`}
		_, _, err := NewAnalyst(mock).Analyze(ctx, input, nil)
		require.NoError(t, err)
		assert.Contains(t, mock.lastPrompt, "No specific targets provided")
	})

	t.Run("Failure", func(t *testing.T) {
		mock := &MockTextGenerator{err: errors.New("boom")}
		_, _, err := NewAnalyst(mock).Analyze(ctx, input, nil)
		assert.ErrorIs(t, err, llm.ErrGeneration)
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		mock := &MockTextGenerator{}
		_, _, err := NewAnalyst(mock).Analyze(ctx, nil, nil)
		assert.ErrorIs(t, err, llm.ErrGeneration)
		assert.Empty(t, mock.lastPrompt)
	})
}
