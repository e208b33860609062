package shared

import "regexp"

// CostPattern matches estimate strings such as "~€8.50*" or "~€8,50*".
var CostPattern = regexp.MustCompile(`^~€\d+(?:[.,]\d{1,2})?\*$`)

// ValidCost reports whether s is a well formed cost estimate.
func ValidCost(s string) bool {
	return CostPattern.MatchString(s)
}
