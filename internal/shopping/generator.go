package shopping

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"cookwise/internal/llm"
	"cookwise/internal/shared"
)

//go:embed generate_prompt.md
var generatePrompt string

type generatePromptData struct {
	PlannedRecipes       []PlannedRecipe
	AvailableIngredients string
}

// ListGenerator turns a weekly plan into a consolidated grocery list.
type ListGenerator struct {
	textGen llm.TextGenerator
}

// NewListGenerator creates a new ListGenerator.
func NewListGenerator(textGen llm.TextGenerator) *ListGenerator {
	return &ListGenerator{textGen: textGen}
}

// Generate asks the model for the grocery list of recipes minus the pantry.
func (g *ListGenerator) Generate(ctx context.Context, recipes []PlannedRecipe, available []string) (GroceryList, shared.AgentMeta, error) {
	if len(recipes) == 0 {
		return GroceryList{}, shared.AgentMeta{}, fmt.Errorf("%w: no planned recipes", llm.ErrGeneration)
	}
	for _, r := range recipes {
		if r.Frequency < 1 {
			return GroceryList{}, shared.AgentMeta{}, fmt.Errorf("%w: %s has frequency %d", llm.ErrGeneration, r.Title, r.Frequency)
		}
	}

	prompt, err := llm.RenderPrompt("grocery-list", generatePrompt, generatePromptData{
		PlannedRecipes:       recipes,
		AvailableIngredients: strings.Join(available, "\n"),
	})
	if err != nil {
		return GroceryList{}, shared.AgentMeta{}, err
	}

	var list GroceryList
	meta, err := llm.GenerateJSON(ctx, g.textGen, "GroceryList", prompt, &list)
	if err != nil {
		return GroceryList{}, meta, err
	}
	if err := list.Validate(); err != nil {
		return GroceryList{}, meta, fmt.Errorf("%w: %w", llm.ErrGeneration, err)
	}
	return list, meta, nil
}
