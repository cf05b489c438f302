package meeting

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	meetingCommands "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
)

var endCmd = &cobra.Command{
	Use:   "end [meeting-id]",
	Short: "End a meeting",
	Long: `End a meeting for everyone. The media session is torn down, the
meeting is closed and its specialists become available for pages again.

Examples:
  responder meetings end 2b8f0c3e-7d1a-4c55-9b1e-8a3f6d2c9e10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.EndMeetingHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Ending meetings requires database connection.")
			return nil
		}

		m, err := app.EndMeetingHandler.Handle(cmd.Context(), meetingCommands.EndMeetingCommand{MeetingID: args[0]})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Meeting ended: %s (%s)\n", m.ID(), m.ExternalID())
		return nil
	},
}
