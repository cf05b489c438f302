package meeting

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show [meeting-id]",
	Short: "Show a meeting and its attendees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetMeetingHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Meeting lookup requires database connection.")
			return nil
		}

		m, err := app.GetMeetingHandler.Handle(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printSummary(cmd, *m)
		if m.Comments != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    Comments: %s\n", m.Comments)
		}
		for _, a := range m.Attendees {
			who := a.PhoneNumber
			if who == "" {
				who = a.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "    - %s %s (%s, %s, %s)\n", a.AttendeeID, who, a.Type, a.JoinType, a.State)
		}
		return nil
	},
}
