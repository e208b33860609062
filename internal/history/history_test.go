package history

import (
	"testing"
	"time"

	"cookwise/internal/notify"
	"cookwise/internal/shopping"
	"cookwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recipes = []shopping.PlannedRecipe{{Title: "Pasta", Ingredients: "- 200g spaghetti", Frequency: 2}}
	list    = shopping.GroceryList{GroceryList: []shopping.Category{
		{Category: "Pantry Staples", Items: []shopping.Item{{Item: "400g spaghetti", EstimatedCost: "~€2,00*"}}},
	}}
	quotes = []shopping.Quote{
		{Name: "Supermarket A", TotalCost: 2.05},
		{Name: "Supermarket B", TotalCost: 1.98},
		{Name: "Supermarket C", TotalCost: 2.01},
	}
)

func TestDeliveryLog(t *testing.T) {
	medium := storage.NewMemoryMedium()
	rec := &notify.Recorder{}
	log := NewDeliveryLog(storage.NewAdapter(medium, storage.DefaultPrefix), rec)

	first := NewDeliveryPlan(t0, quotes[1], recipes, list)
	second := NewDeliveryPlan(t0.Add(time.Minute), quotes[0], recipes, list)

	assert.Equal(t, "2026-03-01T12:00:00Z", first.ID)
	assert.Equal(t, StatusOrderPlaced, first.Status)

	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(second))

	got := log.List()
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "most recent first")
	assert.Equal(t, "Your order from Supermarket A is on its way.", rec.Notices()[1].Description)

	t.Run("Reload", func(t *testing.T) {
		reloaded := NewDeliveryLog(storage.NewAdapter(medium, storage.DefaultPrefix), notify.Discard)
		assert.Equal(t, log.List(), reloaded.List())
	})

	t.Run("RemoveOne", func(t *testing.T) {
		rec.Reset()
		require.NoError(t, log.RemoveOne(first.ID, false))
		assert.Len(t, log.List(), 1)
		assert.Equal(t, []string{"Delivery Removed"}, rec.Titles())

		assert.ErrorIs(t, log.RemoveOne("nope", false), ErrNotFound)
	})

	t.Run("ClearAll", func(t *testing.T) {
		rec.Reset()
		require.NoError(t, log.ClearAll())
		assert.Empty(t, log.List())
		_, ok, _ := medium.Get("cookwise-delivery-plans")
		assert.False(t, ok)
		assert.Equal(t, []string{"Delivery History Cleared"}, rec.Titles())
	})
}

func TestDeliveryPlanIsSnapshot(t *testing.T) {
	src := list.Clone()
	plan := NewDeliveryPlan(t0, quotes[0], recipes, src)
	src.GroceryList[0].Items[0].Item = "changed"
	assert.Equal(t, "400g spaghetti", plan.GroceryList.GroceryList[0].Items[0].Item)
}

func TestSavedListLog(t *testing.T) {
	medium := storage.NewMemoryMedium()
	rec := &notify.Recorder{}
	quoter := shopping.NewQuoter(func() float64 { return 0.9 })
	log := NewSavedListLog(storage.NewAdapter(medium, storage.DefaultPrefix), rec, quoter)

	old := NewSavedList(t0, recipes, list, quotes)
	fresh := NewSavedList(t0.Add(24*time.Hour), recipes, list, quotes)
	assert.InDelta(t, 2.0, old.TotalCost, 1e-9)

	require.NoError(t, log.Append(old))
	require.NoError(t, log.Append(fresh))
	assert.Equal(t, []string{"List Saved!", "List Saved!"}, rec.Titles())

	now := t0.Add(25 * time.Hour)

	t.Run("RequoteOldLists", func(t *testing.T) {
		view, ok := log.View(old.ID, now)
		require.True(t, ok)
		for i, q := range view.SupermarketQuotes {
			assert.NotEqual(t, quotes[i].TotalCost, q.TotalCost)
			assert.InDelta(t, quotes[i].TotalCost, q.TotalCost, quotes[i].TotalCost*0.05)
		}
	})

	t.Run("FreshListsUnchanged", func(t *testing.T) {
		view, ok := log.View(fresh.ID, now)
		require.True(t, ok)
		assert.Equal(t, quotes, view.SupermarketQuotes)
	})

	t.Run("ViewsDoNotRewriteRecords", func(t *testing.T) {
		views := log.Views(now)
		require.Len(t, views, 2)
		assert.Equal(t, fresh.ID, views[0].ID)

		reloaded := NewSavedListLog(storage.NewAdapter(medium, storage.DefaultPrefix), notify.Discard, quoter)
		stored := reloaded.List()
		assert.Equal(t, quotes, stored[1].SupermarketQuotes)
	})

	t.Run("SilentRemove", func(t *testing.T) {
		rec.Reset()
		require.NoError(t, log.RemoveOne(old.ID, true))
		assert.Empty(t, rec.Titles())
		require.NoError(t, log.RemoveOne(fresh.ID, false))
		assert.Equal(t, []string{"List Removed"}, rec.Titles())
		assert.Empty(t, log.List())
	})
}

func TestSavedListViewIsStableWithinWindow(t *testing.T) {
	log := NewSavedListLog(storage.NewAdapter(storage.NewMemoryMedium(), storage.DefaultPrefix), notify.Discard, shopping.NewQuoter(nil))
	old := NewSavedList(t0, recipes, list, quotes)
	require.NoError(t, log.Append(old))

	shown := log.Views(t0.Add(25 * time.Hour))[0]
	ordered, ok := log.View(old.ID, t0.Add(26*time.Hour))
	require.True(t, ok)
	assert.Equal(t, shown.SupermarketQuotes, ordered.SupermarketQuotes)

	nextDay, _ := log.View(old.ID, t0.Add(49*time.Hour))
	assert.NotEqual(t, shown.SupermarketQuotes, nextDay.SupermarketQuotes)
}
