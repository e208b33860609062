package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"cookwise/internal/preferences"
)

const onboardingHelp = `👋 *Let's set up your profile*

Send /onboard followed by one setting per line, for example:

/onboard
food: Mediterranean, lots of vegetables
allergies: peanuts, shellfish
level: intermediate
time: 30-60
meals: Dinner, Lunch
budget: 12
protein: 120

level is beginner, intermediate or advanced. time is 15-30, 30-60 or 60+. budget and the calories, protein, carbs and fat targets are optional.`

// parsePreferences reads "key: value" lines into a profile.
func parsePreferences(text string) (preferences.UserPreferences, error) {
	var p preferences.UserPreferences
	var targets preferences.DietaryTargets
	hasTargets := false

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return p, fmt.Errorf("%w: expected \"key: value\", got %q", preferences.ErrInvalid, strings.TrimSpace(line))
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "food":
			p.FoodPreferences = value
		case "allergies":
			p.Allergies = splitList(value)
		case "level":
			level, err := preferences.ParseCookingLevel(value)
			if err != nil {
				return p, err
			}
			p.CookingLevel = level
		case "time":
			t, err := preferences.ParseTimeAvailability(value)
			if err != nil {
				return p, err
			}
			p.TimeAvailability = t
		case "meals":
			p.PreferredMealTypes = splitList(value)
		case "budget":
			v, err := parseAmount(key, value)
			if err != nil {
				return p, err
			}
			p.Budget = v
		case "calories", "protein", "carbs", "fat":
			v, err := parseAmount(key, value)
			if err != nil {
				return p, err
			}
			hasTargets = true
			switch key {
			case "calories":
				targets.TargetCalories = v
			case "protein":
				targets.TargetProtein = v
			case "carbs":
				targets.TargetCarbs = v
			default:
				targets.TargetFat = v
			}
		default:
			return p, fmt.Errorf("%w: unknown setting %q", preferences.ErrInvalid, key)
		}
	}

	if hasTargets {
		p.DietaryTargets = &targets
	}
	return p, p.Validate()
}

func parseAmount(key, s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "€"))
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", preferences.ErrInvalid, key)
	}
	return &v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && !strings.EqualFold(part, "none") {
			out = append(out, part)
		}
	}
	return out
}
