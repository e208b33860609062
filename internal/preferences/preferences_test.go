package preferences

import (
	"testing"

	"cookwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPrefs() UserPreferences {
	return UserPreferences{
		FoodPreferences:    "Italian",
		Allergies:          []string{"nuts"},
		CookingLevel:       Intermediate,
		TimeAvailability:   Time30To60,
		PreferredMealTypes: []string{"dinner"},
		Budget:             Float(15),
		DietaryTargets:     &DietaryTargets{TargetProtein: Float(30)},
	}
}

func TestStore(t *testing.T) {
	medium := storage.NewMemoryMedium()
	s := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))

	assert.False(t, s.IsOnboardingComplete())
	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Save(validPrefs()))
	assert.True(t, s.IsOnboardingComplete())

	reloaded := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))
	got, ok := reloaded.Get()
	require.True(t, ok)
	assert.Equal(t, validPrefs(), got)
}

func TestSaveIsFullReplace(t *testing.T) {
	medium := storage.NewMemoryMedium()
	s := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix))
	require.NoError(t, s.Save(validPrefs()))

	next := validPrefs()
	next.Budget = nil
	next.DietaryTargets = nil
	require.NoError(t, s.Save(next))

	got, _ := NewStore(storage.NewAdapter(medium, storage.DefaultPrefix)).Get()
	assert.Nil(t, got.Budget)
	assert.Nil(t, got.DietaryTargets)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UserPreferences)
	}{
		{"UnknownCookingLevel", func(p *UserPreferences) { p.CookingLevel = "chef" }},
		{"UnknownTime", func(p *UserPreferences) { p.TimeAvailability = "5" }},
		{"NoMealTypes", func(p *UserPreferences) { p.PreferredMealTypes = nil }},
		{"ZeroBudget", func(p *UserPreferences) { p.Budget = Float(0) }},
		{"NegativeTarget", func(p *UserPreferences) { p.DietaryTargets.TargetFat = Float(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPrefs()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalid)

			s := NewStore(storage.NewAdapter(storage.NewMemoryMedium(), ""))
			assert.ErrorIs(t, s.Save(p), ErrInvalid)
			assert.False(t, s.IsOnboardingComplete())
		})
	}
}

func TestAllergyList(t *testing.T) {
	p := validPrefs()
	assert.Equal(t, "nuts", p.AllergyList())
	p.Allergies = append(p.Allergies, "dairy")
	assert.Equal(t, "nuts, dairy", p.AllergyList())
	p.Allergies = nil
	assert.Equal(t, "none", p.AllergyList())
}

func TestParseCookingLevel(t *testing.T) {
	for in, want := range map[string]CookingLevel{
		"beginner":     Beginner,
		"Intermediate": Intermediate,
		" ADVANCED ":   Advanced,
	} {
		got, err := ParseCookingLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCookingLevel("Chef")
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Equal(t, "Intermediate", Intermediate.Label())
	assert.Equal(t, "", CookingLevel("").Label())
}

func TestParseTimeAvailability(t *testing.T) {
	for in, want := range map[string]TimeAvailability{
		"15-30":     Time15To30,
		"30 - 60":   Time30To60,
		"60+ min":   Time60Plus,
		"15-30 MIN": Time15To30,
	} {
		got, err := ParseTimeAvailability(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimeAvailability("an hour")
	assert.ErrorIs(t, err, ErrInvalid)
}
