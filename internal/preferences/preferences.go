package preferences

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"cookwise/internal/storage"
)

// ErrInvalid is returned when a preferences record breaks a field rule.
var ErrInvalid = errors.New("invalid preferences")

// CookingLevel is the user's self-assessed skill.
type CookingLevel string

const (
	Beginner     CookingLevel = "beginner"
	Intermediate CookingLevel = "intermediate"
	Advanced     CookingLevel = "advanced"
)

// ParseCookingLevel matches s against the known levels, ignoring case.
func ParseCookingLevel(s string) (CookingLevel, error) {
	s = strings.TrimSpace(s)
	for _, l := range []CookingLevel{Beginner, Intermediate, Advanced} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown cooking level %q", ErrInvalid, s)
}

// Label is the level as shown to users.
func (l CookingLevel) Label() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// TimeAvailability is the cooking time budget in minutes.
type TimeAvailability string

const (
	Time15To30 TimeAvailability = "15-30"
	Time30To60 TimeAvailability = "30-60"
	Time60Plus TimeAvailability = "60+"
)

// ParseTimeAvailability accepts the known ranges with optional spaces and
// a trailing "min".
func ParseTimeAvailability(s string) (TimeAvailability, error) {
	v := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "minutes"), "min")
	for _, t := range []TimeAvailability{Time15To30, Time30To60, Time60Plus} {
		if v == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown time availability %q", ErrInvalid, strings.TrimSpace(s))
}

// DietaryTargets are per meal goals. Nil fields are unset.
type DietaryTargets struct {
	TargetCalories *float64 `json:"targetCalories,omitempty"`
	TargetProtein  *float64 `json:"targetProtein,omitempty"`
	TargetCarbs    *float64 `json:"targetCarbs,omitempty"`
	TargetFat      *float64 `json:"targetFat,omitempty"`
}

// UserPreferences is the user profile collected during onboarding.
type UserPreferences struct {
	FoodPreferences    string           `json:"foodPreferences"`
	Allergies          []string         `json:"allergies"`
	CookingLevel       CookingLevel     `json:"cookingLevel"`
	TimeAvailability   TimeAvailability `json:"timeAvailability"`
	PreferredMealTypes []string         `json:"preferredMealTypes"`
	Budget             *float64         `json:"budget,omitempty"`
	DietaryTargets     *DietaryTargets  `json:"dietaryTargets,omitempty"`
}

// Validate checks the field rules of a complete record.
func (p UserPreferences) Validate() error {
	switch p.CookingLevel {
	case Beginner, Intermediate, Advanced:
	default:
		return fmt.Errorf("%w: unknown cooking level %q", ErrInvalid, p.CookingLevel)
	}

	switch p.TimeAvailability {
	case Time15To30, Time30To60, Time60Plus:
	default:
		return fmt.Errorf("%w: unknown time availability %q", ErrInvalid, p.TimeAvailability)
	}

	if len(p.PreferredMealTypes) == 0 {
		return fmt.Errorf("%w: at least one preferred meal type is required", ErrInvalid)
	}

	if p.Budget != nil && *p.Budget <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalid)
	}

	if t := p.DietaryTargets; t != nil {
		for name, v := range map[string]*float64{
			"calories": t.TargetCalories,
			"protein":  t.TargetProtein,
			"carbs":    t.TargetCarbs,
			"fat":      t.TargetFat,
		} {
			if v != nil && *v < 0 {
				return fmt.Errorf("%w: %s target must not be negative", ErrInvalid, name)
			}
		}
	}

	return nil
}

// AllergyList renders allergies for prompts.
func (p UserPreferences) AllergyList() string {
	if len(p.Allergies) == 0 {
		return "none"
	}
	return strings.Join(p.Allergies, ", ")
}

// Store holds the single preferences record of a session.
type Store struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	current *UserPreferences
}

// NewStore loads the stored record, if any.
func NewStore(adapter *storage.Adapter) *Store {
	s := &Store{adapter: adapter}
	if p, ok := storage.Load[UserPreferences](adapter, storage.KeyPreferences); ok {
		s.current = &p
	}
	return s
}

// Get returns a copy of the current record.
func (s *Store) Get() (UserPreferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return UserPreferences{}, false
	}
	return *s.current, true
}

// Save replaces the whole record. Fields missing from prefs are dropped.
func (s *Store) Save(prefs UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adapter.Save(storage.KeyPreferences, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	s.current = &prefs
	return nil
}

// IsOnboardingComplete reports whether a record exists.
func (s *Store) IsOnboardingComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }
