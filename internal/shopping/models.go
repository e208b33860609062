package shopping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cookwise/internal/shared"
)

// ErrInvalidList is returned when a generated grocery list breaks its schema.
var ErrInvalidList = errors.New("invalid grocery list")

// Item is one consolidated grocery entry.
type Item struct {
	Item          string `json:"item"`
	EstimatedCost string `json:"estimatedCost"`
}

// Category groups items by store aisle.
type Category struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// GroceryList is the output of the grocery list flow.
type GroceryList struct {
	GroceryList []Category `json:"groceryList"`
}

// PlannedRecipe is a recipe of the plan as sent to the list generator and
// stored in delivery and saved list snapshots.
type PlannedRecipe struct {
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	Frequency   int    `json:"frequency"`
}

// Validate checks the schema promised by the generation flow.
func (g GroceryList) Validate() error {
	if len(g.GroceryList) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidList)
	}
	for _, c := range g.GroceryList {
		if strings.TrimSpace(c.Category) == "" {
			return fmt.Errorf("%w: unnamed category", ErrInvalidList)
		}
		for _, it := range c.Items {
			if !shared.ValidCost(it.EstimatedCost) {
				return fmt.Errorf("%w: item %q has cost %q", ErrInvalidList, it.Item, it.EstimatedCost)
			}
		}
	}
	return nil
}

// BaseTotal sums the item cost estimates.
func (g GroceryList) BaseTotal() float64 {
	var total float64
	for _, c := range g.GroceryList {
		for _, it := range c.Items {
			total += ParseCost(it.EstimatedCost)
		}
	}
	return total
}

// Clone returns a deep copy.
func (g GroceryList) Clone() GroceryList {
	out := GroceryList{GroceryList: make([]Category, len(g.GroceryList))}
	for i, c := range g.GroceryList {
		out.GroceryList[i] = Category{
			Category: c.Category,
			Items:    append([]Item(nil), c.Items...),
		}
	}
	return out
}

// ItemCount is the number of items across categories.
func (g GroceryList) ItemCount() int {
	n := 0
	for _, c := range g.GroceryList {
		n += len(c.Items)
	}
	return n
}

// ParseCost reads "~€2,50*" as 2.5. Unparsable input yields 0.
func ParseCost(s string) float64 {
	s = strings.ReplaceAll(s, "~€", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatEuro renders an estimate the way costs are shown to users.
func FormatEuro(v float64) string {
	return "~€" + strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + "*"
}
