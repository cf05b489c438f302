package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/subscribers"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

type meetingListInput struct {
	Status string `json:"status,omitempty"`
	Phone  string `json:"phone_number,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type meetingIDInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"required"`
}

type meetingKickInput struct {
	MeetingID  string `json:"meeting_id" jsonschema:"required"`
	AttendeeID string `json:"attendee_id" jsonschema:"required"`
}

type meetingAnnotateInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"required"`
	Title     string `json:"meeting_title,omitempty"`
	Comments  string `json:"meeting_comments,omitempty"`
}

type meetingPageInput struct {
	ExternalMeetingID string `json:"external_meeting_id" jsonschema:"required"`
	PhoneNumber       string `json:"phone_number" jsonschema:"required"`
}

type meetingPageOutput struct {
	Meeting    domain.Snapshot `json:"meeting"`
	AttendeeID string          `json:"attendee_id"`
	SMSSent    bool            `json:"sms_sent"`
	EmailSent  bool            `json:"email_sent"`
}

func registerMeetingTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("meeting.list").
		Description("List meetings by status (ACTIVE or CLOSED), newest first").
		Handler(func(ctx context.Context, input meetingListInput) ([]domain.Snapshot, error) {
			if app == nil || app.ListMeetingsHandler == nil {
				return nil, errors.New("meeting listing requires database connection")
			}
			if input.Limit == 0 {
				input.Limit = 50
			}

			return app.ListMeetingsHandler.Handle(ctx, queries.ListMeetingsQuery{
				Status: domain.Status(strings.ToUpper(input.Status)),
				Phone:  input.Phone,
				Limit:  input.Limit,
			})
		})

	srv.Tool("meeting.get").
		Description("Get a meeting by id or by the dial-in code of an active meeting").
		Handler(func(ctx context.Context, input meetingIDInput) (*domain.Snapshot, error) {
			if app == nil || app.GetMeetingHandler == nil {
				return nil, errors.New("meeting lookup requires database connection")
			}
			if input.MeetingID == "" {
				return nil, errors.New("meeting_id is required")
			}
			return app.GetMeetingHandler.Handle(ctx, input.MeetingID)
		})

	srv.Tool("meeting.feed").
		Description("Get the latest meeting snapshot delivered through the change feed").
		Handler(func(ctx context.Context, input meetingIDInput) (*domain.Snapshot, error) {
			if app == nil {
				return nil, errors.New("meeting feed requires database connection")
			}
			return latestFeedSnapshot(ctx, app.MeetingFeed, input.MeetingID)
		})

	srv.Tool("meeting.end").
		Description("End a meeting for every attendee and release its specialists").
		Handler(func(ctx context.Context, input meetingIDInput) (*domain.Snapshot, error) {
			if app == nil || app.EndMeetingHandler == nil {
				return nil, errors.New("ending meetings requires database connection")
			}
			m, err := app.EndMeetingHandler.Handle(ctx, commands.EndMeetingCommand{MeetingID: input.MeetingID})
			if err != nil {
				return nil, err
			}
			snap := m.Snapshot()
			return &snap, nil
		})

	srv.Tool("meeting.kick").
		Description("Remove an in-call attendee from a meeting").
		Handler(func(ctx context.Context, input meetingKickInput) (*domain.Snapshot, error) {
			if app == nil || app.KickAttendeeHandler == nil {
				return nil, errors.New("kicking attendees requires database connection")
			}
			m, err := app.KickAttendeeHandler.Handle(ctx, commands.KickAttendeeCommand{
				MeetingID:  input.MeetingID,
				AttendeeID: input.AttendeeID,
			})
			if err != nil {
				return nil, err
			}
			snap := m.Snapshot()
			return &snap, nil
		})

	srv.Tool("meeting.annotate").
		Description("Set a meeting's title and operator comments").
		Handler(func(ctx context.Context, input meetingAnnotateInput) (*domain.Snapshot, error) {
			if app == nil || app.AnnotateMeetingHandler == nil {
				return nil, errors.New("annotating meetings requires database connection")
			}
			m, err := app.AnnotateMeetingHandler.Handle(ctx, commands.AnnotateMeetingCommand{
				MeetingID: input.MeetingID,
				Title:     input.Title,
				Comments:  input.Comments,
			})
			if err != nil {
				return nil, err
			}
			snap := m.Snapshot()
			return &snap, nil
		})

	srv.Tool("meeting.page").
		Description("Page a specialist into an active meeting by dial-in code; sends SMS and email").
		Handler(func(ctx context.Context, input meetingPageInput) (*meetingPageOutput, error) {
			if app == nil || app.PageSpecialistHandler == nil {
				return nil, errors.New("paging requires database connection")
			}
			res, err := app.PageSpecialistHandler.Handle(ctx, commands.PageSpecialistCommand{
				PhoneNumber:       input.PhoneNumber,
				ExternalMeetingID: input.ExternalMeetingID,
			})
			if err != nil {
				return nil, err
			}
			return &meetingPageOutput{
				Meeting:    res.Meeting.Snapshot(),
				AttendeeID: res.AttendeeID,
				SMSSent:    res.SMSSent,
				EmailSent:  res.EmailSent,
			}, nil
		})

	return nil
}

// latestFeedSnapshot reads what change-feed consumers last saw for a meeting,
// which can lag the store while the outbox drains.
func latestFeedSnapshot(ctx context.Context, feed *subscribers.MeetingFeed, meetingID string) (*domain.Snapshot, error) {
	if feed == nil {
		return nil, errors.New("meeting feed is not configured")
	}
	if meetingID == "" {
		return nil, errors.New("meeting_id is required")
	}
	snap, err := feed.Latest(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrMeetingNotFound
	}
	return snap, nil
}
