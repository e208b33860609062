package cli

import (
	"fmt"
	"io"
	"strings"

	"cookwise/internal/history"
	"cookwise/internal/planner"
	"cookwise/internal/preferences"
	"cookwise/internal/recipe"
	"cookwise/internal/shopping"
)

func printNutrition(w io.Writer, n recipe.NutritionalInfo) {
	fmt.Fprintf(w, "%.0f kcal, protein %.0fg, carbs %.0fg, fat %.0fg\n", n.Calories, n.Protein, n.Carbs, n.Fat)
}

func printRecipe(w io.Writer, r recipe.Recipe) {
	fmt.Fprintf(w, "%s\n%s\n", r.Title, strings.Repeat("=", len([]rune(r.Title))))
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n", r.Description)
	}
	fmt.Fprintln(w, "\nIngredients:")
	for _, line := range r.IngredientLines() {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range r.Steps() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, strings.ReplaceAll(step, "**", ""))
	}
	fmt.Fprint(w, "\nNutrition: ")
	printNutrition(w, r.NutritionalInfo)
	fmt.Fprintf(w, "Estimated cost: %s\n", r.EstimatedCost)
}

func printPreferences(w io.Writer, p preferences.UserPreferences) {
	fmt.Fprintf(w, "Food preferences: %s\n", p.FoodPreferences)
	fmt.Fprintf(w, "Allergies: %s\n", p.AllergyList())
	fmt.Fprintf(w, "Cooking level: %s\n", p.CookingLevel.Label())
	fmt.Fprintf(w, "Time availability: %s min\n", p.TimeAvailability)
	fmt.Fprintf(w, "Meal types: %s\n", strings.Join(p.PreferredMealTypes, ", "))
	if p.Budget != nil {
		fmt.Fprintf(w, "Budget: €%.2f\n", *p.Budget)
	}
	if t := p.DietaryTargets; t != nil {
		for _, tg := range []struct {
			label string
			v     *float64
		}{
			{"Calories", t.TargetCalories},
			{"Protein", t.TargetProtein},
			{"Carbs", t.TargetCarbs},
			{"Fat", t.TargetFat},
		} {
			if tg.v != nil {
				fmt.Fprintf(w, "%s target: %.0f\n", tg.label, *tg.v)
			}
		}
	}
}

func printPlan(w io.Writer, entries []planner.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recipes selected.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-40s x%d/week\n", e.Recipe.Title, e.Frequency)
	}
}

func printGroceryList(w io.Writer, list shopping.GroceryList, quotes []shopping.Quote, stale bool) {
	for ci, c := range list.GroceryList {
		fmt.Fprintf(w, "%d. %s\n", ci+1, c.Category)
		for ii, it := range c.Items {
			fmt.Fprintf(w, "   %d.%d %s (%s)\n", ci+1, ii+1, it.Item, it.EstimatedCost)
		}
	}
	if stale {
		fmt.Fprintln(w, "\nThe list was edited; prices may be out of date.")
	}
	if len(quotes) > 0 {
		fmt.Fprintln(w, "\nQuotes:")
		for _, q := range quotes {
			fmt.Fprintf(w, "  %s: %s\n", q.Name, shopping.FormatEuro(q.TotalCost))
		}
	}
}

func printSavedLists(w io.Writer, lists []history.SavedList) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "No saved lists.")
		return
	}
	for i, l := range lists {
		titles := make([]string, len(l.Recipes))
		for j, r := range l.Recipes {
			titles[j] = r.Title
		}
		fmt.Fprintf(w, "%d. %s  %s  %s\n", i+1, l.CreatedAt.Local().Format("2006-01-02 15:04"), shopping.FormatEuro(l.TotalCost), strings.Join(titles, ", "))
		for _, q := range l.SupermarketQuotes {
			fmt.Fprintf(w, "     %s: %s\n", q.Name, shopping.FormatEuro(q.TotalCost))
		}
	}
}

func printDeliveries(w io.Writer, plans []history.DeliveryPlan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No deliveries scheduled.")
		return
	}
	for i, p := range plans {
		fmt.Fprintf(w, "%d. %s  %s  %s  %s  %d items\n",
			i+1,
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.Supermarket.Name,
			shopping.FormatEuro(p.Supermarket.TotalCost),
			p.Status,
			p.GroceryList.ItemCount(),
		)
	}
}
