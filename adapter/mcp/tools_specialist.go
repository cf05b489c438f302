package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/application/jobs"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

type specialistListInput struct {
	Status string `json:"user_status,omitempty"`
}

type specialistPhoneInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"required"`
}

type specialistRegisterInput struct {
	PhoneNumber  string              `json:"phone_number" jsonschema:"required"`
	FirstName    string              `json:"first_name,omitempty"`
	LastName     string              `json:"last_name,omitempty"`
	Email        string              `json:"email,omitempty"`
	Organization string              `json:"organization,omitempty"`
	Occupation   string              `json:"occupation,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Availability domain.Availability `json:"availability,omitempty"`
}

type specialistStatusInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"required"`
	Status      string `json:"user_status,omitempty"`
}

func registerSpecialistTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("specialist.list").
		Description("List specialists, optionally filtered by user status").
		Handler(func(ctx context.Context, input specialistListInput) ([]queries.SpecialistDTO, error) {
			if app == nil || app.ListSpecialistsHandler == nil {
				return nil, errors.New("specialist listing requires database connection")
			}
			return app.ListSpecialistsHandler.Handle(ctx, queries.ListSpecialistsQuery{
				Status: domain.UserStatus(strings.ToUpper(input.Status)),
			})
		})

	srv.Tool("specialist.get").
		Description("Get a specialist by phone number").
		Handler(func(ctx context.Context, input specialistPhoneInput) (*queries.SpecialistDTO, error) {
			if app == nil || app.GetSpecialistHandler == nil {
				return nil, errors.New("specialist lookup requires database connection")
			}
			dto, err := app.GetSpecialistHandler.Handle(ctx, input.PhoneNumber)
			if err != nil {
				return nil, err
			}
			if dto == nil {
				return nil, domain.ErrProfileNotFound
			}
			return dto, nil
		})

	srv.Tool("specialist.register").
		Description("Register a specialist with optional availability schedules and overrides").
		Handler(func(ctx context.Context, input specialistRegisterInput) (*queries.SpecialistDTO, error) {
			if app == nil || app.RegisterSpecialistHandler == nil {
				return nil, errors.New("specialist registration requires database connection")
			}
			p, err := app.RegisterSpecialistHandler.Handle(ctx, commands.RegisterSpecialistCommand{
				Details: domain.Details{
					PhoneNumber:  input.PhoneNumber,
					FirstName:    input.FirstName,
					LastName:     input.LastName,
					Email:        input.Email,
					Organization: input.Organization,
					Occupation:   input.Occupation,
					Notes:        input.Notes,
				},
				Availability: input.Availability,
			})
			if err != nil {
				return nil, err
			}
			dto := queries.ToDTO(p)
			return &dto, nil
		})

	srv.Tool("specialist.status").
		Description("Set a specialist's user status, or recompute it from the schedule when no status is given").
		Handler(func(ctx context.Context, input specialistStatusInput) (*queries.SpecialistDTO, error) {
			if app == nil || app.UpdateUserStatusHandler == nil {
				return nil, errors.New("status updates require database connection")
			}
			update := commands.UpdateUserStatusCommand{PhoneNumber: input.PhoneNumber}
			if input.Status != "" {
				status := domain.UserStatus(strings.ToUpper(input.Status))
				update.Status = &status
			}
			p, err := app.UpdateUserStatusHandler.Handle(ctx, update)
			if err != nil {
				return nil, err
			}
			dto := queries.ToDTO(p)
			return &dto, nil
		})

	srv.Tool("specialist.refresh").
		Description("Apply every specialist's scheduled availability now").
		Handler(func(ctx context.Context, input struct{}) (*jobs.RunSummary, error) {
			if app == nil || app.AvailabilityJob == nil {
				return nil, errors.New("availability refresh requires database connection")
			}
			summary, err := app.AvailabilityJob.RunOnce(ctx)
			if err != nil {
				return nil, err
			}
			return &summary, nil
		})

	return nil
}
