package planner

import (
	"math"

	"cookwise/internal/recipe"
)

// DailyAverages is the average daily intake of the week's plan. Plan entries
// without a saved recipe are ignored.
func DailyAverages(p Plan, recipes []recipe.Recipe) recipe.NutritionalInfo {
	entries, _ := Resolve(p, recipes)

	var total recipe.NutritionalInfo
	for _, e := range entries {
		f := float64(e.Frequency)
		total.Calories += e.Recipe.NutritionalInfo.Calories * f
		total.Protein += e.Recipe.NutritionalInfo.Protein * f
		total.Carbs += e.Recipe.NutritionalInfo.Carbs * f
		total.Fat += e.Recipe.NutritionalInfo.Fat * f
	}

	return recipe.NutritionalInfo{
		Calories: math.Round(total.Calories / 7),
		Protein:  math.Round(total.Protein / 7),
		Carbs:    math.Round(total.Carbs / 7),
		Fat:      math.Round(total.Fat / 7),
	}
}
