package cli

import (
	"github.com/spf13/cobra"
)

func newMetricsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "AI usage recorded in the database",
	}

	var days int
	usage := &cobra.Command{
		Use:   "usage",
		Short: "Show token usage per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.open(cmd, true); err != nil {
				return err
			}
			rows, err := st.rt.Metrics.GetDailyUsage(cmd.Context(), days)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				st.printf("No usage recorded in the last %d days.\n", days)
				return nil
			}
			for _, d := range rows {
				st.printf("%s  %6d prompt  %6d completion  %4d calls\n", d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
			}
			return nil
		},
	}
	usage.Flags().IntVar(&days, "days", 7, "Number of days to report")

	var olderThan int
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete usage records older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.open(cmd, true); err != nil {
				return err
			}
			n, err := st.rt.Metrics.Cleanup(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			st.printf("Deleted %d records.\n", n)
			return nil
		},
	}
	cleanup.Flags().IntVar(&olderThan, "days", 30, "Keep records newer than this many days")

	cmd.AddCommand(usage, cleanup)
	return cmd
}

func newUsersCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the storage scopes that hold state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.open(cmd, true); err != nil {
				return err
			}
			scopes, err := st.rt.Scopes()
			if err != nil {
				return err
			}
			for _, s := range scopes {
				st.printf("%s\n", s)
			}
			return nil
		},
	}
}
