package telegram

import (
	"fmt"
	"strings"

	"cookwise/internal/history"
	"cookwise/internal/metrics"
	"cookwise/internal/notify"
	"cookwise/internal/planner"
	"cookwise/internal/preferences"
	"cookwise/internal/recipe"
	"cookwise/internal/shopping"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape makes user or model text safe inside a Markdown message.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatNotice(n notify.Notice) string {
	return fmt.Sprintf("🔔 *%s*\n%s", escape(n.Title), escape(n.Description))
}

func formatNutrition(n recipe.NutritionalInfo) string {
	return fmt.Sprintf("%.0f kcal · P %.0fg · C %.0fg · F %.0fg", n.Calories, n.Protein, n.Carbs, n.Fat)
}

func formatRecipe(r recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🍽 *%s*\n", escape(r.Title)))
	if r.Description != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", escape(r.Description)))
	}

	sb.WriteString("\n*Ingredients*\n")
	for _, line := range r.IngredientLines() {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(line)))
	}

	sb.WriteString("\n*Instructions*\n")
	for i, step := range r.Steps() {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(strings.ReplaceAll(step, "**", ""))))
	}

	sb.WriteString(fmt.Sprintf("\n📊 %s\n", formatNutrition(r.NutritionalInfo)))
	sb.WriteString(fmt.Sprintf("💶 %s", escape(r.EstimatedCost)))
	return sb.String()
}

func formatFavorites(recipes []recipe.Recipe, plan planner.Plan) string {
	if len(recipes) == 0 {
		return "⭐ *Favorites*\n\n_No saved recipes yet. Generate one with /recipe._"
	}
	var sb strings.Builder
	sb.WriteString("⭐ *Favorites*\n\n")
	for i, r := range recipes {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, escape(r.Title)))
		if f, ok := plan[r.Title]; ok {
			sb.WriteString(fmt.Sprintf(" 🗓 x%d", f))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatPreferences(p preferences.UserPreferences) string {
	var sb strings.Builder
	sb.WriteString("👤 *Your Preferences*\n\n")
	sb.WriteString(fmt.Sprintf("• Food: %s\n", escape(orDash(p.FoodPreferences))))
	sb.WriteString(fmt.Sprintf("• Allergies: %s\n", escape(p.AllergyList())))
	sb.WriteString(fmt.Sprintf("• Cooking level: %s\n", p.CookingLevel.Label()))
	sb.WriteString(fmt.Sprintf("• Time: %s min\n", p.TimeAvailability))
	sb.WriteString(fmt.Sprintf("• Meals: %s\n", escape(strings.Join(p.PreferredMealTypes, ", "))))
	if p.Budget != nil {
		sb.WriteString(fmt.Sprintf("• Budget: €%.2f per meal\n", *p.Budget))
	}
	if t := p.DietaryTargets; t != nil {
		targets := []struct {
			label string
			v     *float64
			unit  string
		}{
			{"Calories", t.TargetCalories, " kcal"},
			{"Protein", t.TargetProtein, "g"},
			{"Carbs", t.TargetCarbs, "g"},
			{"Fat", t.TargetFat, "g"},
		}
		for _, tg := range targets {
			if tg.v != nil {
				sb.WriteString(fmt.Sprintf("• %s target: %.0f%s\n", tg.label, *tg.v, tg.unit))
			}
		}
	}
	return sb.String()
}

func formatPantry(items []string) string {
	if len(items) == 0 {
		return "🧺 *Pantry*\n\n_Empty. Add items with /pantry\\_add._"
	}
	var sb strings.Builder
	sb.WriteString("🧺 *Pantry*\n\n")
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(it)))
	}
	return sb.String()
}

func formatPlan(entries []planner.Entry, daily recipe.NutritionalInfo) string {
	if len(entries) == 0 {
		return "🗓 *Meal Plan*\n\n_No recipes selected. Add favorites with /plan\\_add._"
	}
	var sb strings.Builder
	sb.WriteString("🗓 *Meal Plan*\n\n")
	total := 0
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("• %s x%d/week\n", escape(e.Recipe.Title), e.Frequency))
		total += e.Frequency
	}
	sb.WriteString(fmt.Sprintf("\n*Meals per week:* %d\n", total))
	sb.WriteString(fmt.Sprintf("*Daily average:* %s", formatNutrition(daily)))
	return sb.String()
}

func formatGroceryList(list shopping.GroceryList, quotes []shopping.Quote, stale bool) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n")
	for ci, c := range list.GroceryList {
		sb.WriteString(fmt.Sprintf("\n*%d. %s*\n", ci+1, escape(c.Category)))
		for ii, it := range c.Items {
			sb.WriteString(fmt.Sprintf("  %d.%d %s (%s)\n", ci+1, ii+1, escape(it.Item), escape(it.EstimatedCost)))
		}
	}
	if stale {
		sb.WriteString("\n⚠️ _The list was edited; prices may be out of date._\n")
	}
	if len(quotes) > 0 {
		sb.WriteString("\n🏪 *Supermarket Quotes*\n")
		for _, q := range quotes {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", q.Name, escape(shopping.FormatEuro(q.TotalCost))))
		}
	}
	return sb.String()
}

func formatDeliveries(plans []history.DeliveryPlan) string {
	if len(plans) == 0 {
		return "🚚 *Deliveries*\n\n_No deliveries scheduled._"
	}
	var sb strings.Builder
	sb.WriteString("🚚 *Deliveries*\n\n")
	for i, p := range plans {
		sb.WriteString(fmt.Sprintf("%d. %s · %s · %s\n   %s, %d items\n",
			i+1,
			p.CreatedAt.Format("2006-01-02 15:04"),
			p.Supermarket.Name,
			escape(shopping.FormatEuro(p.Supermarket.TotalCost)),
			p.Status,
			p.GroceryList.ItemCount(),
		))
	}
	return sb.String()
}

func formatSavedLists(lists []history.SavedList) string {
	if len(lists) == 0 {
		return "📋 *My Lists*\n\n_No saved lists._"
	}
	var sb strings.Builder
	sb.WriteString("📋 *My Lists*\n\n")
	for i, l := range lists {
		titles := make([]string, len(l.Recipes))
		for j, r := range l.Recipes {
			titles[j] = r.Title
		}
		sb.WriteString(fmt.Sprintf("%d. %s · %s\n   %s\n",
			i+1,
			l.CreatedAt.Format("2006-01-02 15:04"),
			escape(shopping.FormatEuro(l.TotalCost)),
			escape(strings.Join(titles, ", ")),
		))
		for _, q := range l.SupermarketQuotes {
			sb.WriteString(fmt.Sprintf("   • %s: %s\n", q.Name, escape(shopping.FormatEuro(q.TotalCost))))
		}
	}
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
