package recipe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cookwise/internal/shared"
)

// ErrInvalidRecipe is returned when a recipe breaks a field rule.
var ErrInvalidRecipe = errors.New("invalid recipe")

// NutritionalInfo holds per serving values.
type NutritionalInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is a generated or imported dish. Title is its key in the collection.
type Recipe struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Ingredients     string          `json:"ingredients"`
	Instructions    string          `json:"instructions"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	EstimatedCost   string          `json:"estimatedCost"`
}

// Validate checks what the generation flows promise about their output.
func (r Recipe) Validate() error {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: missing title", ErrInvalidRecipe)
	case strings.TrimSpace(r.Ingredients) == "":
		return fmt.Errorf("%w: missing ingredients", ErrInvalidRecipe)
	case strings.TrimSpace(r.Instructions) == "":
		return fmt.Errorf("%w: missing instructions", ErrInvalidRecipe)
	}

	n := r.NutritionalInfo
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return fmt.Errorf("%w: negative nutritional value", ErrInvalidRecipe)
	}

	if !shared.ValidCost(r.EstimatedCost) {
		return fmt.Errorf("%w: estimated cost %q is not of the form ~€X.XX*", ErrInvalidRecipe, r.EstimatedCost)
	}
	return nil
}

var stepPrefix = regexp.MustCompile(`^\d+\.\s*`)

// IngredientLines splits the bullet list into plain items.
func (r Recipe) IngredientLines() []string {
	return splitLines(r.Ingredients, func(s string) string {
		return strings.TrimSpace(strings.TrimPrefix(s, "- "))
	})
}

// Steps splits the numbered instructions into plain steps.
func (r Recipe) Steps() []string {
	return splitLines(r.Instructions, func(s string) string {
		return stepPrefix.ReplaceAllString(s, "")
	})
}

func splitLines(text string, clean func(string) string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line = clean(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
