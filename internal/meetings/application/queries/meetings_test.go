package queries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/infrastructure/persistence"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database/sqlite"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/migrations"
)

func seed(t *testing.T) domain.Repository {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	repo := persistence.NewSQLMeetingRepository(conn)

	for i, id := range []string{"m-1", "m-2", "m-3"} {
		m, err := domain.NewMeeting(id, fmt.Sprintf("1000000%d", i+1), "", domain.Attendee{
			AttendeeID:  "att-" + id,
			PhoneNumber: fmt.Sprintf("+1604555000%d", i+1),
			Type:        domain.AttendeeTypeFirstResponder,
			JoinType:    domain.JoinTypePSTN,
			State:       domain.AttendeeStateInCall,
		})
		require.NoError(t, err)
		if id == "m-2" {
			m.End(time.Now())
		}
		require.NoError(t, repo.Save(ctx, m))
		time.Sleep(2 * time.Millisecond)
	}
	return repo
}

func TestListMeetingsHandler(t *testing.T) {
	ctx := context.Background()
	h := NewListMeetingsHandler(seed(t))

	all, err := h.Handle(ctx, ListMeetingsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m-3", all[0].MeetingID)

	active, err := h.Handle(ctx, ListMeetingsQuery{Status: domain.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	byPhone, err := h.Handle(ctx, ListMeetingsQuery{Phone: "+16045550002"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, domain.StatusClosed, byPhone[0].Status)

	limited, err := h.Handle(ctx, ListMeetingsQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = h.Handle(ctx, ListMeetingsQuery{Status: "OPEN"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetMeetingHandler(t *testing.T) {
	ctx := context.Background()
	h := NewGetMeetingHandler(seed(t))

	byID, err := h.Handle(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "10000001", byID.ExternalID)

	byCode, err := h.Handle(ctx, "10000003")
	require.NoError(t, err)
	assert.Equal(t, "m-3", byCode.MeetingID)

	_, err = h.Handle(ctx, "10000002")
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}
