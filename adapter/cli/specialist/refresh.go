package specialist

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Apply scheduled availability now",
	Long: `Evaluate every specialist's schedule once, the same pass the worker
runs on its cron cadence. OFFLINE specialists are left alone.

Examples:
  responder specialists refresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AvailabilityJob == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Availability refresh requires database connection.")
			return nil
		}

		summary, err := app.AvailabilityJob.RunOnce(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Evaluated %d, changed %d, skipped %d, failed %d\n",
			summary.Evaluated, summary.Changed, summary.Skipped, summary.Failed)
		return nil
	},
}
