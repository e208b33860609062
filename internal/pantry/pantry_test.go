package pantry

import (
	"testing"

	"cookwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveIsFullReplace(t *testing.T) {
	medium := storage.NewMemoryMedium()
	s := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))

	require.NoError(t, s.Save([]string{"a", "b"}))
	require.NoError(t, s.Save([]string{"a"}))
	assert.Equal(t, []string{"a"}, s.Items())

	raw, ok, err := medium.Get("cookwise-pantry-items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a"]`, raw)
}

func TestEmptyListPersistsAsArray(t *testing.T) {
	medium := storage.NewMemoryMedium()
	s := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))
	require.NoError(t, s.Save(nil))

	raw, _, _ := medium.Get("cookwise-pantry-items")
	assert.Equal(t, "[]", raw)
}

func TestLegacyFormat(t *testing.T) {
	medium := storage.NewMemoryMedium()
	require.NoError(t, medium.Set("cookwise-pantry-items", "milk, eggs"))

	s := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))
	assert.Equal(t, []string{"milk", "eggs"}, s.Items())
}

func TestContainsIsCaseSensitive(t *testing.T) {
	s := NewStore(storage.NewAdapter(storage.NewMemoryMedium(), ""))
	require.NoError(t, s.Save([]string{"Milk"}))
	assert.True(t, s.Contains("Milk"))
	assert.False(t, s.Contains("milk"))
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore(storage.NewAdapter(storage.NewMemoryMedium(), ""))
	require.NoError(t, s.Save([]string{"rice"}))
	items := s.Items()
	items[0] = "changed"
	assert.Equal(t, []string{"rice"}, s.Items())
}
