package specialist

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List specialists",
	Long: `List registered specialists, optionally filtered by user status.

Examples:
  responder specialists list
  responder specialists list --status AVAILABLE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListSpecialistsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Specialist listing requires database connection.")
			return nil
		}

		list, err := app.ListSpecialistsHandler.Handle(cmd.Context(), specialistQueries.ListSpecialistsQuery{
			Status: specialistsDomain.UserStatus(listStatus),
		})
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No specialists found.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Specialists (%d):\n", len(list))
		for _, s := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s (%s)\n", s.FirstName, s.LastName, s.PhoneNumber)
			if s.Occupation != "" || s.Organization != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    Role: %s, %s\n", s.Occupation, s.Organization)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "    Status: %s, call: %s\n", s.UserStatus, s.CallStatus)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by user status (AVAILABLE, NOT_AVAILABLE, OFFLINE)")
}
