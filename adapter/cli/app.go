package cli

import (
	internalApp "github.com/UBC-CIC/first-responder-admin/internal/app"
	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	meetingCommands "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/subscribers"
	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/application/jobs"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Meeting Command Handlers
	EndMeetingHandler      *meetingCommands.EndMeetingHandler
	KickAttendeeHandler    *meetingCommands.KickAttendeeHandler
	AnnotateMeetingHandler *meetingCommands.AnnotateMeetingHandler
	PageSpecialistHandler  *meetingCommands.PageSpecialistHandler

	// Meeting Query Handlers
	ListMeetingsHandler *meetingQueries.ListMeetingsHandler
	GetMeetingHandler   *meetingQueries.GetMeetingHandler
	MeetingFeed         *subscribers.MeetingFeed

	// Specialist Handlers
	RegisterSpecialistHandler *specialistCommands.RegisterSpecialistHandler
	UpdateUserStatusHandler   *specialistCommands.UpdateUserStatusHandler
	ListSpecialistsHandler    *specialistQueries.ListSpecialistsHandler
	GetSpecialistHandler      *specialistQueries.GetSpecialistHandler
	AvailabilityJob           *jobs.AvailabilityJob

	// Directories
	FirstResponders directoryDomain.FirstResponderRepository
	ServiceDesk     directoryDomain.ServiceDeskRepository

	Health *observability.HealthRegistry

	container *internalApp.Container
}

// NewApp creates a CLI application backed by the container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		EndMeetingHandler:         c.EndMeetingHandler,
		KickAttendeeHandler:       c.KickAttendeeHandler,
		AnnotateMeetingHandler:    c.AnnotateMeetingHandler,
		PageSpecialistHandler:     c.PageSpecialistHandler,
		ListMeetingsHandler:       c.ListMeetingsHandler,
		GetMeetingHandler:         c.GetMeetingHandler,
		MeetingFeed:               c.MeetingFeed,
		RegisterSpecialistHandler: c.RegisterSpecialistHandler,
		UpdateUserStatusHandler:   c.UpdateUserStatusHandler,
		ListSpecialistsHandler:    c.ListSpecialistsHandler,
		GetSpecialistHandler:      c.GetSpecialistHandler,
		AvailabilityJob:           c.AvailabilityJob,
		FirstResponders:           c.Repos.FirstResponders,
		ServiceDesk:               c.Repos.ServiceDesk,
		Health:                    c.Health,
		container:                 c,
	}
}

// Container returns the container the app was built from, or nil.
func (a *App) Container() *internalApp.Container {
	if a == nil {
		return nil
	}
	return a.container
}

// Global app instance
var app *App

// SetApp sets the global app instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global app instance.
func GetApp() *App {
	return app
}
