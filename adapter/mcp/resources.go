package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

// RegisterResources registers MCP resources that expose live meeting and
// roster data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerMeetingResources(srv, deps); err != nil {
		return err
	}
	if err := registerSpecialistResources(srv, deps); err != nil {
		return err
	}
	if err := registerSystemResources(srv, deps); err != nil {
		return err
	}

	return nil
}

func jsonContent(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}

func registerMeetingResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	meetingsBy := func(status meetingsDomain.Status, limit int) func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
		return func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListMeetingsHandler == nil {
				return nil, fmt.Errorf("meeting listing requires database connection")
			}
			meetings, err := app.ListMeetingsHandler.Handle(ctx, meetingQueries.ListMeetingsQuery{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, meetings)
		}
	}

	srv.Resource("responder://meetings/active").
		Name("Active Meetings").
		Description("Meetings currently in progress with their attendees").
		MimeType("application/json").
		Handler(meetingsBy(meetingsDomain.StatusActive, 0))

	srv.Resource("responder://meetings/recent").
		Name("Recently Closed Meetings").
		Description("The 25 most recently started closed meetings").
		MimeType("application/json").
		Handler(meetingsBy(meetingsDomain.StatusClosed, 25))

	return nil
}

func registerSpecialistResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	specialistsBy := func(status specialistsDomain.UserStatus) func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
		return func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListSpecialistsHandler == nil {
				return nil, fmt.Errorf("specialist listing requires database connection")
			}
			list, err := app.ListSpecialistsHandler.Handle(ctx, specialistQueries.ListSpecialistsQuery{Status: status})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, list)
		}
	}

	srv.Resource("responder://specialists").
		Name("Specialists").
		Description("Every registered specialist with status and schedule").
		MimeType("application/json").
		Handler(specialistsBy(""))

	srv.Resource("responder://specialists/available").
		Name("Available Specialists").
		Description("Specialists who can be paged right now").
		MimeType("application/json").
		Handler(specialistsBy(specialistsDomain.UserStatusAvailable))

	return nil
}

func registerSystemResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("responder://system/health").
		Name("Service Health").
		Description("Database, cache, broker and media provider health").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Health == nil {
				return nil, fmt.Errorf("health checks require an initialized container")
			}
			return jsonContent(uri, app.Health.Check(ctx))
		})

	return nil
}
