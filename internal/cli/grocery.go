package cli

import (
	"fmt"
	"strconv"
	"strings"

	"cookwise/internal/app"
	"cookwise/internal/history"
	"cookwise/internal/shopping"

	"github.com/spf13/cobra"
)

func newGroceryCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grocery",
		Short: "Turn the meal plan into a grocery list and order it",
		Long: `The grocery list is kept until it is scheduled, saved or the plan is cleared.
Supermarket quotes are recomputed each time the list is loaded.`,
	}

	// flow resumes the grocery flow; comparison requires a cached list.
	flow := func(comparison bool) (*app.GroceryFlow, error) {
		f := app.NewGroceryFlow(st.session)
		if comparison && f.Stage() != app.StageComparison {
			return nil, app.ErrNoGroceryList
		}
		return f, nil
	}
	show := func(f *app.GroceryFlow) {
		list, _ := f.List()
		printGroceryList(st.out, list, f.Quotes(), f.IsStale())
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Generate the grocery list for the current plan",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				f, _ := flow(false)
				if err := f.CreatePlan(cmd.Context()); err != nil {
					return err
				}
				show(f)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the grocery list and quotes",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				f, err := flow(true)
				if err != nil {
					return err
				}
				show(f)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "edit <category> <item> <new name...>",
			Short: "Rename an item, using the numbers shown by `grocery show`",
			Args:  cobra.MinimumNArgs(3),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				ci, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid category number %q", args[0])
				}
				ii, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid item number %q", args[1])
				}
				f, err := flow(true)
				if err != nil {
					return err
				}
				if err := f.EditItem(ci-1, ii-1, strings.Join(args[2:], " ")); err != nil {
					return err
				}
				show(f)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "schedule <supermarket>",
			Short: "Schedule a delivery from a supermarket (A, B or C)",
			Args:  cobra.MinimumNArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				f, err := flow(true)
				if err != nil {
					return err
				}
				if err := f.SelectSupermarket(shopping.SupermarketName(strings.Join(args, " "))); err != nil {
					return err
				}
				_, err = f.ScheduleDelivery()
				return err
			}),
		},
		&cobra.Command{
			Use:   "save",
			Short: "Save the list with its quotes for later",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				f, err := flow(true)
				if err != nil {
					return err
				}
				_, err = f.SaveList()
				return err
			}),
		},
	)
	return cmd
}

func newListsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Saved grocery lists",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show saved lists with current quotes",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				printSavedLists(st.out, st.session.SavedListViews())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "schedule <n> <supermarket>",
			Short: "Schedule a delivery for a saved list",
			Args:  cobra.MinimumNArgs(2),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				l, err := entryAt(st.session.SavedListViews(), args[0])
				if err != nil {
					return err
				}
				_, err = st.session.ScheduleSavedList(l.ID, shopping.SupermarketName(strings.Join(args[1:], " ")))
				return err
			}),
		},
		&cobra.Command{
			Use:   "remove <n>",
			Short: "Remove a saved list",
			Args:  cobra.ExactArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				l, err := entryAt(st.session.SavedListViews(), args[0])
				if err != nil {
					return err
				}
				return st.session.RemoveSavedList(l.ID)
			}),
		},
	)
	return cmd
}

func newDeliveriesCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "Scheduled deliveries",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show scheduled deliveries",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				printDeliveries(st.out, st.session.DeliveryPlans())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <n>",
			Short: "Remove a delivery",
			Args:  cobra.ExactArgs(1),
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				p, err := entryAt(st.session.DeliveryPlans(), args[0])
				if err != nil {
					return err
				}
				return st.session.RemoveDeliveryPlan(p.ID)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the delivery history",
			Args:  cobra.NoArgs,
			RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
				return st.session.ClearDeliveryPlans()
			}),
		},
	)
	return cmd
}

// entryAt returns the 1-based entry n of items.
func entryAt[T any](items []T, n string) (T, error) {
	var zero T
	i, err := strconv.Atoi(n)
	if err != nil || i < 1 || i > len(items) {
		return zero, fmt.Errorf("%w: no entry %q", history.ErrNotFound, n)
	}
	return items[i-1], nil
}
