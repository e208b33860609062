package recipe

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"cookwise/internal/llm"
	"cookwise/internal/preferences"
	"cookwise/internal/shared"
)

var (
	//go:embed generate_prompt.md
	generatePrompt string
	//go:embed summary_prompt.md
	summaryPrompt string
	//go:embed alternatives_prompt.md
	alternativesPrompt string
)

// Request describes one recipe generation.
type Request struct {
	Preferences preferences.UserPreferences
	UserPrompt  string
	// Budget overrides the profile budget when set.
	Budget     *float64
	Pantry     []string
	SurpriseMe bool
}

type generatePromptData struct {
	SurpriseMe       bool
	UserPrompt       string
	Pantry           string
	FoodPreferences  string
	Allergies        string
	CookingLevel     string
	TimeAvailability string
	MealTypes        string
	Budget           string
	Targets          []string
}

// Alternatives is the answer of the suggest-alternatives flow.
type Alternatives struct {
	Alternatives string `json:"alternatives"`
	Reasoning    string `json:"reasoning"`
}

// Generator runs the recipe flows against a text generator.
type Generator struct {
	textGen llm.TextGenerator
}

// NewGenerator creates a new Generator.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate asks the model for a new recipe.
func (g *Generator) Generate(ctx context.Context, req Request) (Recipe, shared.AgentMeta, error) {
	prompt, err := llm.RenderPrompt("generate-recipe", generatePrompt, buildGenerateData(req))
	if err != nil {
		return Recipe{}, shared.AgentMeta{}, err
	}

	var r Recipe
	meta, err := llm.GenerateJSON(ctx, g.textGen, "RecipeGenerator", prompt, &r)
	if err != nil {
		return Recipe{}, meta, err
	}
	if err := r.Validate(); err != nil {
		return Recipe{}, meta, fmt.Errorf("%w: %w", llm.ErrGeneration, err)
	}
	return r, meta, nil
}

// Summarize returns a short summary of r.
func (g *Generator) Summarize(ctx context.Context, r Recipe) (string, shared.AgentMeta, error) {
	prompt, err := llm.RenderPrompt("recipe-summary", summaryPrompt, map[string]string{
		"RecipeName":   r.Title,
		"Ingredients":  strings.Join(r.IngredientLines(), ", "),
		"Instructions": r.Instructions,
	})
	if err != nil {
		return "", shared.AgentMeta{}, err
	}

	var out struct {
		Summary string `json:"summary"`
	}
	meta, err := llm.GenerateJSON(ctx, g.textGen, "RecipeSummary", prompt, &out)
	if err != nil {
		return "", meta, err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", meta, fmt.Errorf("%w: empty summary", llm.ErrGeneration)
	}
	return out.Summary, meta, nil
}

// SuggestAlternatives proposes substitutes for a missing ingredient.
func (g *Generator) SuggestAlternatives(ctx context.Context, recipeName, missing string, available []string) (Alternatives, shared.AgentMeta, error) {
	prompt, err := llm.RenderPrompt("suggest-alternatives", alternativesPrompt, map[string]string{
		"RecipeName":           recipeName,
		"MissingIngredient":    missing,
		"AvailableIngredients": strings.Join(available, ", "),
	})
	if err != nil {
		return Alternatives{}, shared.AgentMeta{}, err
	}

	var out Alternatives
	meta, err := llm.GenerateJSON(ctx, g.textGen, "IngredientAlternatives", prompt, &out)
	if err != nil {
		return Alternatives{}, meta, err
	}
	if strings.TrimSpace(out.Alternatives) == "" {
		return Alternatives{}, meta, fmt.Errorf("%w: no alternatives returned", llm.ErrGeneration)
	}
	return out, meta, nil
}

func buildGenerateData(req Request) generatePromptData {
	p := req.Preferences
	data := generatePromptData{
		SurpriseMe:       req.SurpriseMe,
		UserPrompt:       strings.TrimSpace(req.UserPrompt),
		Pantry:           strings.Join(req.Pantry, ", "),
		FoodPreferences:  p.FoodPreferences,
		Allergies:        p.AllergyList(),
		CookingLevel:     string(p.CookingLevel),
		TimeAvailability: string(p.TimeAvailability),
		MealTypes:        strings.Join(p.PreferredMealTypes, ", "),
	}

	budget := p.Budget
	if req.Budget != nil {
		budget = req.Budget
	}
	if budget != nil && *budget > 0 {
		data.Budget = formatNumber(*budget)
	}

	if t := p.DietaryTargets; t != nil {
		add := func(label string, v *float64, unit string) {
			if v != nil && *v > 0 {
				data.Targets = append(data.Targets, fmt.Sprintf("Target %s: ~%s%s", label, formatNumber(*v), unit))
			}
		}
		add("Calories", t.TargetCalories, " kcal")
		add("Protein", t.TargetProtein, "g")
		add("Carbohydrates", t.TargetCarbs, "g")
		add("Fat", t.TargetFat, "g")
	}
	return data
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
