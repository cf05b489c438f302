package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerCoreTools(srv, deps); err != nil {
		return err
	}
	if err := registerMeetingTools(srv, deps); err != nil {
		return err
	}
	if err := registerSpecialistTools(srv, deps); err != nil {
		return err
	}
	if err := registerDirectoryTools(srv, deps); err != nil {
		return err
	}

	return nil
}
