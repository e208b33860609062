// Package cli is the cookwise command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"cookwise/internal/app"
	"cookwise/internal/notify"
	"cookwise/internal/recipe"
	"cookwise/internal/storage"

	"github.com/spf13/cobra"
)

// keyLastRecipe holds the last generated recipe between invocations.
const keyLastRecipe = "cli-last-recipe"

// Loader opens the runtime a command works against.
type Loader func(ctx context.Context) (*app.Runtime, error)

type state struct {
	load    Loader
	user    string
	rt      *app.Runtime
	session *app.Session
	scratch *storage.Adapter
	out     io.Writer
}

// NewRootCommand builds the command tree. Every command except metrics
// opens the session of --user before it runs.
func NewRootCommand(load Loader) *cobra.Command {
	st := &state{load: load}

	root := &cobra.Command{
		Use:           "cookwise",
		Short:         "Plan meals, keep a pantry and order groceries",
		Long:          `cookwise generates recipes for your profile, turns a weekly meal plan into a grocery list and compares supermarket quotes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.rt == nil {
				return nil
			}
			return st.rt.Close()
		},
	}
	root.PersistentFlags().StringVarP(&st.user, "user", "u", "default", "Storage scope of the user")

	root.AddCommand(
		newOnboardCommand(st),
		newPrefsCommand(st),
		newRecipeCommand(st),
		newPantryCommand(st),
		newPlanCommand(st),
		newGroceryCommand(st),
		newListsCommand(st),
		newDeliveriesCommand(st),
		newMetricsCommand(st),
		newUsersCommand(st),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute(load Loader) {
	root := NewRootCommand(load)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", app.UserMessage(err))
		os.Exit(1)
	}
}

// open loads the runtime and, unless runtimeOnly, the user's session.
func (st *state) open(cmd *cobra.Command, runtimeOnly bool) error {
	st.out = cmd.OutOrStdout()
	if st.rt == nil {
		rt, err := st.load(cmd.Context())
		if err != nil {
			return err
		}
		st.rt = rt
	}
	if runtimeOnly || st.session != nil {
		return nil
	}

	notifier := notify.NotifierFunc(func(n notify.Notice) {
		if n.Description == "" {
			fmt.Fprintf(st.out, "[%s]\n", n.Title)
			return
		}
		fmt.Fprintf(st.out, "[%s] %s\n", n.Title, n.Description)
	})
	s, err := st.rt.OpenSession(st.user, notifier)
	if err != nil {
		return err
	}
	medium, err := st.rt.Medium(st.user)
	if err != nil {
		return err
	}
	st.session = s
	st.scratch = storage.NewAdapter(medium, storage.DefaultPrefix)
	return nil
}

// withSession wraps run so it executes with the user's session open.
func (st *state) withSession(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := st.open(cmd, false); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func (st *state) lastRecipe() (recipe.Recipe, bool) {
	return storage.Load[recipe.Recipe](st.scratch, keyLastRecipe)
}

func (st *state) printf(format string, args ...any) {
	fmt.Fprintf(st.out, format, args...)
}
