package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

var (
	listStatus string
	listPhone  string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List meetings",
	Long: `List meetings by status, newest first. With --phone only meetings the
number took part in are shown.

Examples:
  responder meetings list
  responder meetings list --status CLOSED --limit 20
  responder meetings list --phone +16045550001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListMeetingsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Meeting listing requires database connection.")
			return nil
		}

		status := meetingsDomain.Status(strings.ToUpper(listStatus))
		if status != "" && !status.IsValid() {
			return fmt.Errorf("unknown meeting status %q", listStatus)
		}

		meetings, err := app.ListMeetingsHandler.Handle(cmd.Context(), meetingQueries.ListMeetingsQuery{
			Status: status,
			Phone:  listPhone,
			Limit:  listLimit,
		})
		if err != nil {
			return err
		}

		if len(meetings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No meetings found.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Meetings (%d):\n", len(meetings))
		for _, m := range meetings {
			printSummary(cmd, m)
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, m meetingsDomain.Snapshot) {
	title := m.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", m.MeetingID, title)
	fmt.Fprintf(cmd.OutOrStdout(), "    Code: %s, status: %s, attendees: %d\n", m.ExternalID, m.Status, len(m.Attendees))
	fmt.Fprintf(cmd.OutOrStdout(), "    Started: %s\n", m.CreatedAt.Local().Format(time.RFC1123))
	if m.EndedAt != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "    Ended: %s\n", m.EndedAt.Local().Format(time.RFC1123))
	}
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", string(meetingsDomain.StatusActive), "meeting status (ACTIVE or CLOSED)")
	listCmd.Flags().StringVarP(&listPhone, "phone", "p", "", "only meetings this phone number took part in")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "maximum meetings to show")
}
