package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check dependency health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return fmt.Errorf("app not initialized")
		}

		health := app.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", health.Status)

		names := make([]string, 0, len(health.Checks))
		for name := range health.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := health.Checks[name]
			if check.Message != "" {
				fmt.Fprintf(out, "  %-16s %s (%s)\n", name, check.Status, check.Message)
			} else {
				fmt.Fprintf(out, "  %-16s %s\n", name, check.Status)
			}
		}

		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
