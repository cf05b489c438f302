package specialist

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [phone-number] [status]",
	Short: "Set or recompute a specialist's status",
	Long: `Set a specialist's user status. OFFLINE stays until the status is set
again or recomputed. Without a status the schedule is evaluated now.

Examples:
  responder specialists status +16045550002 OFFLINE
  responder specialists status +16045550002`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateUserStatusHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Status updates require database connection.")
			return nil
		}

		update := specialistCommands.UpdateUserStatusCommand{PhoneNumber: args[0]}
		if len(args) == 2 {
			status := specialistsDomain.UserStatus(strings.ToUpper(args[1]))
			update.Status = &status
		}

		p, err := app.UpdateUserStatusHandler.Handle(cmd.Context(), update)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.PhoneNumber(), p.UserStatus())
		return nil
	},
}
