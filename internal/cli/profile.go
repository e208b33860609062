package cli

import (
	"cookwise/internal/preferences"

	"github.com/spf13/cobra"
)

func newOnboardCommand(st *state) *cobra.Command {
	var (
		prefs                         preferences.UserPreferences
		level, timeAvail              string
		budget                        float64
		calories, protein, carbs, fat float64
	)

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Save your cooking profile",
		Example: `  cookwise onboard --level beginner --time 30-60 --meals Dinner,Lunch \
    --food "Mediterranean" --allergies peanuts --budget 12 --protein 120`,
		Args: cobra.NoArgs,
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			p := prefs
			var err error
			if p.CookingLevel, err = preferences.ParseCookingLevel(level); err != nil {
				return err
			}
			if p.TimeAvailability, err = preferences.ParseTimeAvailability(timeAvail); err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("budget") {
				p.Budget = preferences.Float(budget)
			}
			var targets preferences.DietaryTargets
			hasTargets := false
			for name, dst := range map[string]**float64{
				"calories": &targets.TargetCalories,
				"protein":  &targets.TargetProtein,
				"carbs":    &targets.TargetCarbs,
				"fat":      &targets.TargetFat,
			} {
				if !flags.Changed(name) {
					continue
				}
				v, _ := flags.GetFloat64(name)
				*dst = preferences.Float(v)
				hasTargets = true
			}
			if hasTargets {
				p.DietaryTargets = &targets
			}

			if err := st.session.SavePreferences(p); err != nil {
				return err
			}
			st.printf("Profile saved for %s.\n", st.user)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&prefs.FoodPreferences, "food", "", "Free text food preferences")
	f.StringSliceVar(&prefs.Allergies, "allergies", nil, "Allergies, comma separated")
	f.StringVar(&level, "level", string(preferences.Beginner), "Cooking level: beginner, intermediate or advanced")
	f.StringVar(&timeAvail, "time", string(preferences.Time30To60), "Time per meal: 15-30, 30-60 or 60+")
	f.StringSliceVar(&prefs.PreferredMealTypes, "meals", nil, "Preferred meal types, comma separated")
	f.Float64Var(&budget, "budget", 0, "Budget per meal in euros")
	f.Float64Var(&calories, "calories", 0, "Daily calorie target")
	f.Float64Var(&protein, "protein", 0, "Daily protein target in grams")
	f.Float64Var(&carbs, "carbs", 0, "Daily carbohydrate target in grams")
	f.Float64Var(&fat, "fat", 0, "Daily fat target in grams")
	return cmd
}

func newPrefsCommand(st *state) *cobra.Command {
	prefs := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect your profile",
	}
	prefs.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		Args:  cobra.NoArgs,
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			p, ok := st.session.Preferences.Get()
			if !ok {
				st.printf("No profile yet. Run `cookwise onboard` first.\n")
				return nil
			}
			printPreferences(st.out, p)
			return nil
		}),
	})
	return prefs
}
