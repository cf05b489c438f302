package meeting

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/adapter/cli"
	internalApp "github.com/UBC-CIC/first-responder-admin/internal/app"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/config"
)

// setupTestApp creates a CLI app over a SQLite-backed container.
func setupTestApp(t *testing.T) (*cli.App, *internalApp.Container) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                   "test",
		DatabaseDriver:           "sqlite",
		SQLitePath:               filepath.Join(t.TempDir(), "test.db"),
		LiveKitURL:               "http://127.0.0.1:1",
		MediaRegion:              "ca-central-1",
		ParticipantTokenTTL:      time.Hour,
		MaxPromptAttempts:        3,
		ExternalIDReservationTTL: time.Hour,
		AvailabilitySchedule:     "@every 30m",
		OutboxPollInterval:       time.Second,
		OutboxBatchSize:          10,
		OutboxMaxRetries:         3,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app, container
}

func seedMeeting(t *testing.T, c *internalApp.Container, id, code, phone string) {
	t.Helper()
	m, err := meetingsDomain.NewMeeting(id, code, "call-"+id, meetingsDomain.Attendee{
		AttendeeID:  "att-" + id,
		PhoneNumber: phone,
		Type:        meetingsDomain.AttendeeTypeFirstResponder,
		JoinType:    meetingsDomain.JoinTypePSTN,
		State:       meetingsDomain.AttendeeStateInCall,
	})
	require.NoError(t, err)
	require.NoError(t, c.Repos.Meetings.Save(context.Background(), m))
}

func TestListCmd_EmptyList(t *testing.T) {
	setupTestApp(t)

	var out bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetContext(context.Background())
	listStatus, listPhone, listLimit = "ACTIVE", "", 50

	require.NoError(t, listCmd.RunE(listCmd, nil))
	assert.Contains(t, out.String(), "No meetings found.")
}

func TestListCmd_FiltersByPhone(t *testing.T) {
	_, c := setupTestApp(t)
	seedMeeting(t, c, "m-1", "123456", "+16045550001")
	seedMeeting(t, c, "m-2", "654321", "+16045550009")

	var out bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetContext(context.Background())
	listStatus, listPhone, listLimit = "active", "+16045550001", 50

	require.NoError(t, listCmd.RunE(listCmd, nil))
	assert.Contains(t, out.String(), "Meetings (1):")
	assert.Contains(t, out.String(), "m-1")
	assert.NotContains(t, out.String(), "m-2")
}

func TestListCmd_RejectsUnknownStatus(t *testing.T) {
	setupTestApp(t)

	listCmd.SetContext(context.Background())
	listStatus, listPhone, listLimit = "PENDING", "", 50

	err := listCmd.RunE(listCmd, nil)
	assert.ErrorContains(t, err, "unknown meeting status")
}

func TestShowCmd(t *testing.T) {
	_, c := setupTestApp(t)
	seedMeeting(t, c, "m-1", "123456", "+16045550001")

	var out bytes.Buffer
	showCmd.SetOut(&out)
	showCmd.SetContext(context.Background())

	require.NoError(t, showCmd.RunE(showCmd, []string{"m-1"}))
	assert.Contains(t, out.String(), "att-m-1 +16045550001")
	assert.Contains(t, out.String(), "FIRST_RESPONDER")
}

func TestEndCmd_EndsMeeting(t *testing.T) {
	app, c := setupTestApp(t)
	seedMeeting(t, c, "m-1", "123456", "+16045550001")

	var out bytes.Buffer
	endCmd.SetOut(&out)
	endCmd.SetContext(context.Background())

	require.NoError(t, endCmd.RunE(endCmd, []string{"m-1"}))
	assert.Contains(t, out.String(), "Meeting ended: m-1 (123456)")

	m, err := app.GetMeetingHandler.Handle(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, meetingsDomain.StatusClosed, m.Status)
	assert.NotNil(t, m.EndedAt)
}

func TestEndCmd_UnknownMeeting(t *testing.T) {
	setupTestApp(t)

	endCmd.SetContext(context.Background())
	err := endCmd.RunE(endCmd, []string{"missing"})
	assert.ErrorIs(t, err, meetingsDomain.ErrMeetingNotFound)
}

func TestCommands_WithoutApp(t *testing.T) {
	cli.SetApp(nil)

	var out bytes.Buffer
	endCmd.SetOut(&out)
	endCmd.SetContext(context.Background())

	require.NoError(t, endCmd.RunE(endCmd, []string{"m-1"}))
	assert.Contains(t, out.String(), "requires database connection")
}
