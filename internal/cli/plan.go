package cli

import (
	"strings"

	"cookwise/internal/planner"

	"github.com/spf13/cobra"
)

func newPantryCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage the ingredients you have at home",
	}

	printItems := func() {
		items := st.session.Pantry.Items()
		if len(items) == 0 {
			st.printf("Pantry is empty.\n")
			return
		}
		for _, it := range items {
			st.printf("- %s\n", it)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <item...>",
			Short: "Add items, separated by commas",
			Args:  cobra.MinimumNArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				for _, item := range strings.Split(strings.Join(args, " "), ",") {
					if _, err := st.session.AddPantryItem(item); err != nil {
						return err
					}
				}
				printItems()
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <item...>",
			Short: "Remove an item",
			Args:  cobra.MinimumNArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				if err := st.session.RemovePantryItem(strings.Join(args, " ")); err != nil {
					return err
				}
				printItems()
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the pantry",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				printItems()
				return nil
			}),
		},
	)
	return cmd
}

func newPlanCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build your weekly meal plan from favorites",
	}

	show := func() error {
		entries, dangling := planner.Resolve(st.session.Plan.Get(), st.session.Recipes.List())
		if len(dangling) > 0 {
			return planner.DanglingError(dangling)
		}
		printPlan(st.out, entries)
		return nil
	}

	// edit wraps a plan mutation keyed by a recipe reference.
	edit := func(use, short string, apply func(title string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <n|title>",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				if err := st.session.RequireOnboarding(); err != nil {
					return err
				}
				title, err := st.session.PlannedTitle(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if err := apply(title); err != nil {
					return err
				}
				return show()
			}),
		}
	}

	var off bool
	toggle := edit("toggle", "Add a favorite to the plan, or remove it with --off", func(title string) error {
		return st.session.TogglePlanned(title, !off)
	})
	toggle.Flags().BoolVar(&off, "off", false, "Remove the recipe from the plan")

	cmd.AddCommand(
		toggle,
		edit("inc", "Cook a planned recipe once more per week", st.sessionIncrement),
		edit("dec", "Cook a planned recipe once less per week", st.sessionDecrement),
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the plan and its grocery list",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				return st.session.ClearMealPlan()
			}),
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the plan",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				return show()
			}),
		},
		&cobra.Command{
			Use:   "analyze",
			Short: "Review the plan against your dietary targets",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				analysis, err := st.session.AnalyzePlan(cmd.Context())
				if err != nil {
					return err
				}
				st.printf("%s\n", analysis)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "nutrition",
			Short: "Show the average daily intake of the plan",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				st.printf("Daily average: ")
				printNutrition(st.out, st.session.DailyNutrition())
				return nil
			}),
		},
	)
	return cmd
}

func (st *state) sessionIncrement(title string) error { return st.session.IncrementPlanned(title) }

func (st *state) sessionDecrement(title string) error { return st.session.DecrementPlanned(title) }
