package cli

import (
	"strings"

	"cookwise/internal/preferences"

	"github.com/spf13/cobra"
)

func newRecipeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Generate, save and manage recipes",
	}

	var budget float64
	generate := &cobra.Command{
		Use:   "generate <idea...>",
		Short: "Generate a recipe for your profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			var override *float64
			if cmd.Flags().Changed("budget") {
				override = preferences.Float(budget)
			}
			return st.generate(strings.Join(args, " "), override, false, cmd)
		}),
	}
	generate.Flags().Float64Var(&budget, "budget", 0, "Budget override for this recipe in euros")

	surprise := &cobra.Command{
		Use:   "surprise",
		Short: "Generate a surprise recipe",
		Args:  cobra.NoArgs,
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			return st.generate("", nil, true, cmd)
		}),
	}

	saveLast := &cobra.Command{
		Use:   "save-last",
		Short: "Save the last generated recipe to your favorites",
		Args:  cobra.NoArgs,
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, ok := st.lastRecipe()
			if !ok {
				st.printf("No generated recipe to save. Run `cookwise recipe generate` first.\n")
				return nil
			}
			_, err := st.session.SaveRecipe(r)
			return err
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your favorites",
		Args:  cobra.NoArgs,
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			recipes := st.session.Recipes.List()
			if len(recipes) == 0 {
				st.printf("No saved recipes yet.\n")
				return nil
			}
			plan := st.session.Plan.Get()
			for i, r := range recipes {
				st.printf("%d. %s", i+1, r.Title)
				if f, ok := plan[r.Title]; ok {
					st.printf("  (planned x%d)", f)
				}
				st.printf("\n")
			}
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <n|title>",
		Short: "Show a saved recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, err := st.session.FindRecipe(strings.Join(args, " "))
			if err != nil {
				return err
			}
			printRecipe(st.out, r)
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:   "remove <n|title>",
		Short: "Remove a recipe from your favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, err := st.session.FindRecipe(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return st.session.RemoveRecipe(r.Title)
		}),
	}

	summary := &cobra.Command{
		Use:   "summary <n|title>",
		Short: "Summarize a saved recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, err := st.session.FindRecipe(strings.Join(args, " "))
			if err != nil {
				return err
			}
			text, err := st.session.SummarizeRecipe(cmd.Context(), r.Title)
			if err != nil {
				return err
			}
			st.printf("%s\n", text)
			return nil
		}),
	}

	alternatives := &cobra.Command{
		Use:   "alternatives <n|title> <missing ingredient...>",
		Short: "Suggest substitutes for a missing ingredient",
		Args:  cobra.MinimumNArgs(2),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, err := st.session.FindRecipe(args[0])
			if err != nil {
				return err
			}
			alt, err := st.session.SuggestAlternatives(cmd.Context(), r.Title, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			st.printf("%s\n\n%s\n", alt.Alternatives, alt.Reasoning)
			return nil
		}),
	}

	importCmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Import a recipe from a web page into your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, added, err := st.session.ImportRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if added {
				printRecipe(st.out, r)
			}
			return nil
		}),
	}

	var live bool
	publish := &cobra.Command{
		Use:   "publish <n|title>",
		Short: "Publish a saved recipe to the Ghost blog",
		Args:  cobra.MinimumNArgs(1),
		RunE: st.withSession(func(cmd *cobra.Command, args []string) error {
			r, err := st.session.FindRecipe(strings.Join(args, " "))
			if err != nil {
				return err
			}
			post, err := st.session.PublishRecipe(cmd.Context(), r.Title, live)
			if err != nil {
				return err
			}
			st.printf("Created %s post %q: %s\n", post.Status, post.Title, post.URL)
			return nil
		}),
	}
	publish.Flags().BoolVar(&live, "publish", false, "Publish immediately instead of creating a draft")

	cmd.AddCommand(generate, surprise, saveLast, list, show, remove, summary, alternatives, importCmd, publish)
	return cmd
}

func (st *state) generate(prompt string, budget *float64, surprise bool, cmd *cobra.Command) error {
	r, err := st.session.GenerateRecipe(cmd.Context(), prompt, budget, surprise)
	if err != nil {
		return err
	}
	if err := st.scratch.Save(keyLastRecipe, r); err != nil {
		return err
	}
	printRecipe(st.out, r)
	st.printf("\nRun `cookwise recipe save-last` to keep it.\n")
	return nil
}
