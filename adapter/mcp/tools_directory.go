package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
)

type firstResponderLookupInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"required"`
}

type serviceDeskLookupInput struct {
	Username string `json:"username" jsonschema:"required"`
}

func registerDirectoryTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("directory.first_responders").
		Description("List first responder profiles").
		Handler(func(ctx context.Context, input struct{}) ([]domain.FirstResponder, error) {
			if app == nil || app.FirstResponders == nil {
				return nil, errors.New("directory requires database connection")
			}
			return app.FirstResponders.List(ctx)
		})

	srv.Tool("directory.first_responder").
		Description("Look up a first responder by phone number").
		Handler(func(ctx context.Context, input firstResponderLookupInput) (*domain.FirstResponder, error) {
			if app == nil || app.FirstResponders == nil {
				return nil, errors.New("directory requires database connection")
			}
			p, err := app.FirstResponders.FindByPhone(ctx, input.PhoneNumber)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, errors.New("first responder not found")
			}
			return p, nil
		})

	srv.Tool("directory.service_desk").
		Description("List service desk agents").
		Handler(func(ctx context.Context, input struct{}) ([]domain.ServiceDeskAgent, error) {
			if app == nil || app.ServiceDesk == nil {
				return nil, errors.New("directory requires database connection")
			}
			return app.ServiceDesk.List(ctx)
		})

	srv.Tool("directory.service_desk_agent").
		Description("Look up a service desk agent by username").
		Handler(func(ctx context.Context, input serviceDeskLookupInput) (*domain.ServiceDeskAgent, error) {
			if app == nil || app.ServiceDesk == nil {
				return nil, errors.New("directory requires database connection")
			}
			a, err := app.ServiceDesk.FindByUsername(ctx, input.Username)
			if err != nil {
				return nil, err
			}
			if a == nil {
				return nil, errors.New("service desk agent not found")
			}
			return a, nil
		})

	return nil
}
