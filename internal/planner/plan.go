package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cookwise/internal/recipe"
)

var (
	// ErrNotSaved is returned when a recipe outside the favourites is planned.
	ErrNotSaved = errors.New("recipe is not in favorites")
	// ErrDanglingEntry is returned when a plan entry names a recipe that is
	// no longer saved.
	ErrDanglingEntry = errors.New("meal plan references a removed recipe")
)

// Plan maps a recipe title to how many times it is cooked per week.
type Plan map[string]int

// Clone returns an independent copy.
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Titles returns the planned titles sorted alphabetically.
func (p Plan) Titles() []string {
	titles := make([]string, 0, len(p))
	for t := range p {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Updater derives a new plan from the current one. It may modify and
// return its argument.
type Updater func(Plan) Plan

// Toggle adds title with frequency 1 or removes it.
func Toggle(title string, on bool) Updater {
	return func(p Plan) Plan {
		if on {
			if _, ok := p[title]; !ok {
				p[title] = 1
			}
			return p
		}
		delete(p, title)
		return p
	}
}

// Increment adds one weekly cook to a planned title.
func Increment(title string) Updater {
	return func(p Plan) Plan {
		if f, ok := p[title]; ok {
			p[title] = f + 1
		}
		return p
	}
}

// Decrement removes one weekly cook, never going below 1.
func Decrement(title string) Updater {
	return func(p Plan) Plan {
		if f, ok := p[title]; ok {
			p[title] = max(1, f-1)
		}
		return p
	}
}

// Entry is a planned recipe resolved against the favourites.
type Entry struct {
	Recipe    recipe.Recipe
	Frequency int
}

// Resolve pairs plan entries with saved recipes in favourites order. Titles
// with no saved recipe are returned as dangling.
func Resolve(p Plan, recipes []recipe.Recipe) (entries []Entry, dangling []string) {
	seen := make(map[string]bool, len(p))
	for _, r := range recipes {
		f, ok := p[r.Title]
		if !ok || seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		entries = append(entries, Entry{Recipe: r, Frequency: f})
	}
	for _, title := range p.Titles() {
		if !seen[title] {
			dangling = append(dangling, title)
		}
	}
	return entries, dangling
}

// DanglingError wraps ErrDanglingEntry with the offending titles.
func DanglingError(titles []string) error {
	return fmt.Errorf("%w: %s", ErrDanglingEntry, strings.Join(titles, ", "))
}
