package planner

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"cookwise/internal/llm"
	"cookwise/internal/preferences"
	"cookwise/internal/recipe"
	"cookwise/internal/shared"
)

//go:embed analyst_prompt.md
var analystPrompt string

// AnalysisRecipe is one line of the plan sent to the analyst.
type AnalysisRecipe struct {
	Title           string                 `json:"title"`
	NutritionalInfo recipe.NutritionalInfo `json:"nutritionalInfo"`
	Frequency       int                    `json:"frequency"`
}

type analystPromptData struct {
	Targets []string
	Recipes []AnalysisRecipe
}

// Analyst reviews a weekly plan against the user's dietary targets.
type Analyst struct {
	textGen llm.TextGenerator
}

// NewAnalyst creates a new Analyst.
func NewAnalyst(textGen llm.TextGenerator) *Analyst {
	return &Analyst{textGen: textGen}
}

// Analyze returns a markdown report for the planned recipes.
func (a *Analyst) Analyze(ctx context.Context, recipes []AnalysisRecipe, targets *preferences.DietaryTargets) (string, shared.AgentMeta, error) {
	if len(recipes) == 0 {
		return "", shared.AgentMeta{}, fmt.Errorf("%w: meal plan is empty", llm.ErrGeneration)
	}

	prompt, err := llm.RenderPrompt("analyst", analystPrompt, analystPromptData{
		Targets: describeTargets(targets),
		Recipes: recipes,
	})
	if err != nil {
		return "", shared.AgentMeta{}, err
	}

	var out struct {
		Analysis string `json:"analysis"`
	}
	meta, err := llm.GenerateJSON(ctx, a.textGen, "Analyst", prompt, &out)
	if err != nil {
		return "", meta, err
	}
	if strings.TrimSpace(out.Analysis) == "" {
		return "", meta, fmt.Errorf("%w: empty analysis", llm.ErrGeneration)
	}
	return out.Analysis, meta, nil
}

// AnalysisInput converts resolved entries to analyst input.
func AnalysisInput(entries []Entry) []AnalysisRecipe {
	out := make([]AnalysisRecipe, len(entries))
	for i, e := range entries {
		out[i] = AnalysisRecipe{
			Title:           e.Recipe.Title,
			NutritionalInfo: e.Recipe.NutritionalInfo,
			Frequency:       e.Frequency,
		}
	}
	return out
}

func describeTargets(t *preferences.DietaryTargets) []string {
	if t == nil {
		return nil
	}
	var lines []string
	add := func(label string, v *float64, unit string) {
		if v != nil {
			lines = append(lines, fmt.Sprintf("%s: %s%s", label, strconv.FormatFloat(*v, 'f', -1, 64), unit))
		}
	}
	add("Calories", t.TargetCalories, " kcal")
	add("Protein", t.TargetProtein, "g")
	add("Carbohydrates", t.TargetCarbs, "g")
	add("Fat", t.TargetFat, "g")
	return lines
}
