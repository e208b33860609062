package shopping

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cookwise/internal/llm"
	"cookwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTextGenerator struct {
	content    string
	err        error
	lastPrompt string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.content}, nil
}

func sampleList() GroceryList {
	return GroceryList{GroceryList: []Category{
		{Category: "Produce", Items: []Item{
			{Item: "2 onions", EstimatedCost: "~€0.80*"},
			{Item: "1 bunch basil", EstimatedCost: "~€1,20*"},
		}},
		{Category: "Pantry Staples", Items: []Item{
			{Item: "500g spaghetti", EstimatedCost: "~€1.50*"},
		}},
	}}
}

func TestParseCost(t *testing.T) {
	cases := map[string]float64{
		"~€2,50*":  2.5,
		"~€2.50*":  2.5,
		"~€12*":    12,
		" ~€3.1* ": 3.1,
		"free":     0,
		"":         0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, ParseCost(in), 1e-9, "ParseCost(%q)", in)
	}
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "~€12,35*", FormatEuro(12.345001))
	assert.Equal(t, "~€0,00*", FormatEuro(0))
}

func TestBaseTotal(t *testing.T) {
	assert.InDelta(t, 3.5, sampleList().BaseTotal(), 1e-9)
	assert.Equal(t, 3, sampleList().ItemCount())
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleList().Validate())
	assert.ErrorIs(t, GroceryList{}.Validate(), ErrInvalidList)

	bad := sampleList()
	bad.GroceryList[0].Items[0].EstimatedCost = "~€0.80"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidList)
}

func TestQuoter(t *testing.T) {
	t.Run("Bounds", func(t *testing.T) {
		low := NewQuoter(func() float64 { return 0 }).Quotes(100)
		high := NewQuoter(func() float64 { return 0.9999999 }).Quotes(100)
		require.Len(t, low, 3)
		for i := range low {
			assert.Equal(t, Supermarkets[i], low[i].Name)
			assert.InDelta(t, 95, low[i].TotalCost, 1e-6)
			assert.InDelta(t, 105, high[i].TotalCost, 1e-4)
		}
	})

	t.Run("IndependentJitter", func(t *testing.T) {
		values := []float64{0.1, 0.5, 0.9}
		i := 0
		q := NewQuoter(func() float64 { v := values[i]; i++; return v })
		quotes := q.Quotes(10)
		assert.InDelta(t, 9.6, quotes[0].TotalCost, 1e-9)
		assert.InDelta(t, 10, quotes[1].TotalCost, 1e-9)
		assert.InDelta(t, 10.4, quotes[2].TotalCost, 1e-9)
	})

	t.Run("DefaultRandomStaysInRange", func(t *testing.T) {
		for _, qt := range NewQuoter(nil).Quotes(50) {
			assert.GreaterOrEqual(t, qt.TotalCost, 47.5)
			assert.LessOrEqual(t, qt.TotalCost, 52.5)
		}
	})

	t.Run("Rejitter", func(t *testing.T) {
		stored := []Quote{{Name: "Supermarket A", TotalCost: 20}}
		got := NewQuoter(func() float64 { return 1 }).Rejitter(stored, 7)
		assert.InDelta(t, 21, got[0].TotalCost, 1e-9)
		assert.Equal(t, 20.0, stored[0].TotalCost, "input must not be modified")
	})

	t.Run("RejitterIsSeeded", func(t *testing.T) {
		stored := NewQuoter(func() float64 { return 0.5 }).Quotes(40)
		q := NewQuoter(nil)

		first := q.Rejitter(stored, 42)
		assert.Equal(t, first, q.Rejitter(stored, 42))
		assert.NotEqual(t, first, q.Rejitter(stored, 43))
		for i, qt := range first {
			assert.InDelta(t, stored[i].TotalCost, qt.TotalCost, 2)
		}
	})

	t.Run("FindQuote", func(t *testing.T) {
		quotes := NewQuoter(nil).Quotes(1)
		q, ok := FindQuote(quotes, "Supermarket B")
		assert.True(t, ok)
		assert.Equal(t, "Supermarket B", q.Name)
		_, ok = FindQuote(quotes, "Supermarket Z")
		assert.False(t, ok)
	})
}

func newCache(medium *storage.MemoryMedium, session *storage.MemoryMedium) *Cache {
	return NewCache(storage.NewAdapter(medium, storage.DefaultPrefix), storage.NewAdapter(session, storage.DefaultPrefix))
}

func TestCache(t *testing.T) {
	medium, session := storage.NewMemoryMedium(), storage.NewMemoryMedium()
	c := newCache(medium, session)

	_, ok := c.Get()
	assert.False(t, ok)
	assert.False(t, c.IsStale())

	require.NoError(t, c.Store(sampleList()))
	assert.False(t, c.IsStale())

	t.Run("EditMarksStale", func(t *testing.T) {
		require.NoError(t, c.EditItem(0, 1, "1 bunch parsley"))
		got, _ := c.Get()
		assert.Equal(t, "1 bunch parsley", got.GroceryList[0].Items[1].Item)
		assert.True(t, c.IsStale())
	})

	t.Run("EditOutOfRange", func(t *testing.T) {
		assert.ErrorIs(t, c.EditItem(5, 0, "x"), ErrInvalidList)
		assert.ErrorIs(t, c.EditItem(0, 9, "x"), ErrInvalidList)
	})

	t.Run("ReloadLosesStaleFlag", func(t *testing.T) {
		// same durable medium, fresh session medium
		reloaded := newCache(medium, storage.NewMemoryMedium())
		got, ok := reloaded.Get()
		require.True(t, ok)
		assert.Equal(t, "1 bunch parsley", got.GroceryList[0].Items[1].Item)
		assert.False(t, reloaded.IsStale())

		require.NoError(t, reloaded.EditItem(0, 1, "1 bunch parsley"))
		assert.False(t, reloaded.IsStale(), "same name is not an edit")
		require.NoError(t, reloaded.EditItem(0, 1, "2 bunches parsley"))
		assert.True(t, reloaded.IsStale())
	})

	t.Run("RegenerateResetsStale", func(t *testing.T) {
		require.NoError(t, c.Store(sampleList()))
		assert.False(t, c.IsStale())
	})

	t.Run("SaveNilRemovesKey", func(t *testing.T) {
		require.NoError(t, c.Save(nil))
		_, ok, _ := medium.Get("cookwise-grocery-list")
		assert.False(t, ok)
		_, ok = c.Get()
		assert.False(t, ok)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, c.Store(sampleList()))
		require.NoError(t, c.Clear())
		_, ok, _ := session.Get("cookwise-pristine-grocery-list")
		assert.False(t, ok)
		_, ok = c.Get()
		assert.False(t, ok)
	})
}

func TestCacheGetReturnsCopy(t *testing.T) {
	c := newCache(storage.NewMemoryMedium(), storage.NewMemoryMedium())
	require.NoError(t, c.Store(sampleList()))

	got, _ := c.Get()
	got.GroceryList[0].Items[0].Item = "changed"
	assert.False(t, c.IsStale())
}

func TestListGenerator(t *testing.T) {
	ctx := context.Background()
	recipes := []PlannedRecipe{{Title: "Pasta", Ingredients: "- 200g spaghetti", Frequency: 3}}

	t.Run("Success", func(t *testing.T) {
		mock := &mockTextGenerator{content: `{"groceryList":[{"category":"Pantry Staples","items":[{"item":"600g spaghetti","estimatedCost":"~€1.80*"}]}]}`}
		list, meta, err := NewListGenerator(mock).Generate(ctx, recipes, []string{"salt", "olive oil"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if list.ItemCount() != 1 {
			t.Errorf("Expected 1 item, got %d", list.ItemCount())
		}
		if meta.AgentName != "GroceryList" {
			t.Errorf("Expected agent GroceryList, got %q", meta.AgentName)
		}
		for _, want := range []string{"**Recipe: Pasta**", "**Weekly Frequency:** 3", "- 200g spaghetti", "salt\nolive oil"} {
			if !strings.Contains(mock.lastPrompt, want) {
				t.Errorf("Expected prompt to contain %q", want)
			}
		}
	})

	t.Run("NoPantrySection", func(t *testing.T) {
		mock := &mockTextGenerator{content: `{"groceryList":[{"category":"Other","items":[]}]}`}
		_, _, err := NewListGenerator(mock).Generate(ctx, recipes, nil)
		require.NoError(t, err)
		assert.NotContains(t, mock.lastPrompt, "EXCLUDE FROM LIST")
	})

	t.Run("SchemaRejection", func(t *testing.T) {
		mock := &mockTextGenerator{content: `{"groceryList":[{"category":"Produce","items":[{"item":"onion","estimatedCost":"cheap"}]}]}`}
		_, _, err := NewListGenerator(mock).Generate(ctx, recipes, nil)
		assert.ErrorIs(t, err, llm.ErrGeneration)
		assert.ErrorIs(t, err, ErrInvalidList)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		mock := &mockTextGenerator{err: errors.New("timeout")}
		_, _, err := NewListGenerator(mock).Generate(ctx, recipes, nil)
		assert.ErrorIs(t, err, llm.ErrGeneration)
	})

	t.Run("EmptyPlan", func(t *testing.T) {
		_, _, err := NewListGenerator(&mockTextGenerator{}).Generate(ctx, nil, nil)
		assert.ErrorIs(t, err, llm.ErrGeneration)
	})
}

func TestSupermarketName(t *testing.T) {
	assert.Equal(t, "Supermarket B", SupermarketName("b"))
	assert.Equal(t, "Supermarket A", SupermarketName(" supermarket a "))
	assert.Equal(t, "Lidl", SupermarketName("Lidl "))
}
