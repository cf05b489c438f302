package specialist

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

var (
	registerFirstName    string
	registerLastName     string
	registerEmail        string
	registerOrganization string
	registerOccupation   string
)

var registerCmd = &cobra.Command{
	Use:   "register [phone-number]",
	Short: "Register a specialist",
	Long: `Register a specialist with no schedule. Use the HTTP API to attach
availability schedules and overrides.

Examples:
  responder specialists register +16045550002 --first Grace --last Hopper --occupation Toxicologist`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RegisterSpecialistHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Specialist registration requires database connection.")
			return nil
		}

		p, err := app.RegisterSpecialistHandler.Handle(cmd.Context(), specialistCommands.RegisterSpecialistCommand{
			Details: specialistsDomain.Details{
				PhoneNumber:  args[0],
				FirstName:    registerFirstName,
				LastName:     registerLastName,
				Email:        registerEmail,
				Organization: registerOrganization,
				Occupation:   registerOccupation,
			},
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Specialist registered: %s (%s)\n", p.PhoneNumber(), p.UserStatus())
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerFirstName, "first", "", "first name")
	registerCmd.Flags().StringVar(&registerLastName, "last", "", "last name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address for pages")
	registerCmd.Flags().StringVar(&registerOrganization, "organization", "", "organization")
	registerCmd.Flags().StringVar(&registerOccupation, "occupation", "", "occupation")
}
