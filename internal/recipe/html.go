package recipe

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var boldMarkdown = regexp.MustCompile(`\*\*(.+?)\*\*`)

// ToHTML renders r as a blog post body.
func ToHTML(r Recipe) string {
	var sb strings.Builder
	if r.Description != "" {
		sb.WriteString(fmt.Sprintf("<p><i>%s</i></p>", html.EscapeString(r.Description)))
	}

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, ing := range r.IngredientLines() {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(ing)))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Instructions</h2><ol>")
	for _, step := range r.Steps() {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", inlineMarkdown(step)))
	}
	sb.WriteString("</ol>")

	n := r.NutritionalInfo
	sb.WriteString("<hr>")
	sb.WriteString(fmt.Sprintf(
		"<p><strong>Calories:</strong> %s kcal | <strong>Protein:</strong> %sg | <strong>Carbs:</strong> %sg | <strong>Fat:</strong> %sg</p>",
		formatNumber(n.Calories), formatNumber(n.Protein), formatNumber(n.Carbs), formatNumber(n.Fat),
	))
	if r.EstimatedCost != "" {
		sb.WriteString(fmt.Sprintf("<p><strong>Estimated cost:</strong> %s</p>", html.EscapeString(r.EstimatedCost)))
	}

	return sb.String()
}

func inlineMarkdown(s string) string {
	return boldMarkdown.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}
