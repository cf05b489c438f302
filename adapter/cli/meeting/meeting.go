package meeting

import "github.com/spf13/cobra"

// Cmd is the meetings command group.
var Cmd = &cobra.Command{
	Use:     "meetings",
	Aliases: []string{"meeting"},
	Short:   "Inspect and close emergency meetings",
	Long:    `List meetings from the status index and end them on behalf of an operator.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(endCmd)
}
