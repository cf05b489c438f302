package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	mcpinternal "github.com/UBC-CIC/first-responder-admin/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve meeting, specialist and directory tools to MCP clients over HTTP
on MCP_ADDR. Requests must carry MCP_AUTH_TOKEN as a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		c := app.Container()
		if c == nil {
			return errors.New("the MCP server requires an initialized container")
		}

		err := mcpinternal.Serve(cmd.Context(), c.Config, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
