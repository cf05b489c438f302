package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
)

const meetingColumns = `meeting_id, external_id, call_id, status, title, comments, attendees,
	version, created_at, updated_at, ended_at`

// SQLMeetingRepository implements domain.Repository on PostgreSQL or SQLite.
type SQLMeetingRepository struct {
	conn database.Connection
}

// NewSQLMeetingRepository creates a meeting repository on conn.
func NewSQLMeetingRepository(conn database.Connection) *SQLMeetingRepository {
	return &SQLMeetingRepository{conn: conn}
}

func (r *SQLMeetingRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// Save inserts new meetings and updates stored ones conditionally on their
// loaded version.
func (r *SQLMeetingRepository) Save(ctx context.Context, m *domain.Meeting) error {
	attendees, err := json.Marshal(m.Attendees())
	if err != nil {
		return fmt.Errorf("encode attendees: %w", err)
	}
	exec := database.ExecutorFromContext(ctx, r.conn)

	if m.IsNew() {
		_, err := exec.Exec(ctx, r.q(`
			INSERT INTO meetings (`+meetingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			m.ID(), m.ExternalID(), m.CallID(), string(m.Status()),
			nullString(m.Title()), nullString(m.Comments()), string(attendees),
			1, m.CreatedAt().UTC(), m.UpdatedAt().UTC(), m.EndedAt(),
		)
		if database.IsUniqueViolation(err) {
			return domain.ErrExternalIDTaken
		}
		if err != nil {
			return wrapStore(err)
		}
		m.SetVersion(1)
		return nil
	}

	next := m.Version() + 1
	result, err := exec.Exec(ctx, r.q(`
		UPDATE meetings SET
			status = ?, title = ?, comments = ?, attendees = ?,
			version = ?, updated_at = ?, ended_at = ?
		WHERE meeting_id = ? AND version = ?`),
		string(m.Status()), nullString(m.Title()), nullString(m.Comments()), string(attendees),
		next, m.UpdatedAt().UTC(), m.EndedAt(),
		m.ID(), m.Version(),
	)
	if err != nil {
		return wrapStore(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapStore(err)
	}
	if n == 0 {
		return domain.ErrConcurrentModification
	}
	m.SetVersion(next)
	return nil
}

func (r *SQLMeetingRepository) FindByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, r.q(`
		SELECT `+meetingColumns+` FROM meetings WHERE meeting_id = ?`), meetingID)
	m, err := scanMeeting(row)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStore(err)
	}
	return m, nil
}

func (r *SQLMeetingRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Meeting, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, r.q(`
		SELECT `+meetingColumns+` FROM meetings WHERE status = ? ORDER BY created_at`), string(status))
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make([]*domain.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, wrapStore(rows.Err())
}

func scanMeeting(row database.Row) (*domain.Meeting, error) {
	var (
		meetingID  string
		externalID string
		callID     string
		status     string
		title      sql.NullString
		comments   sql.NullString
		attendees  string
		version    int
		createdAt  database.NullTime
		updatedAt  database.NullTime
		endedAt    database.NullTime
	)
	err := row.Scan(
		&meetingID, &externalID, &callID, &status, &title, &comments, &attendees,
		&version, &createdAt, &updatedAt, &endedAt,
	)
	if err != nil {
		return nil, err
	}

	var roster []domain.Attendee
	if attendees != "" {
		if err := json.Unmarshal([]byte(attendees), &roster); err != nil {
			return nil, fmt.Errorf("decode attendees for %s: %w", meetingID, err)
		}
	}

	return domain.RehydrateMeeting(
		meetingID,
		externalID,
		callID,
		domain.Status(status),
		title.String,
		comments.String,
		roster,
		version,
		createdAt.Time,
		updatedAt.Time,
		endedAt.Ptr(),
	), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func wrapStore(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
