package specialist

import "github.com/spf13/cobra"

// Cmd is the specialists command group.
var Cmd = &cobra.Command{
	Use:     "specialists",
	Aliases: []string{"specialist"},
	Short:   "Manage on-call specialists",
	Long:    `Register specialists, set their status, and refresh scheduled availability.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(registerCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(refreshCmd)
}
