package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

const profileColumns = `phone_number, first_name, last_name, email, organization, occupation,
	notes, picture_url, location, user_status, call_status, availability, created_at, updated_at`

// errUndecodable marks a row whose JSON columns could not be decoded.
var errUndecodable = errors.New("undecodable profile row")

// SQLProfileRepository implements domain.Repository for any database.Connection.
type SQLProfileRepository struct {
	conn   database.Connection
	logger *slog.Logger
}

// NewSQLProfileRepository creates a specialist repository on conn.
func NewSQLProfileRepository(conn database.Connection) *SQLProfileRepository {
	return &SQLProfileRepository{conn: conn, logger: slog.Default()}
}

// WithLogger sets the logger used to report skipped rows.
func (r *SQLProfileRepository) WithLogger(logger *slog.Logger) *SQLProfileRepository {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *SQLProfileRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

func (r *SQLProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	args, err := profileArgs(p)
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, r.q(`
		INSERT INTO specialist_profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`), args...)
	if database.IsUniqueViolation(err) {
		return domain.ErrProfileExists
	}
	return wrapStore(err)
}

func (r *SQLProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	args, err := profileArgs(p)
	if err != nil {
		return err
	}
	// created_at is immutable; phone_number is the key.
	update := []any{
		args[1], args[2], args[3], args[4], args[5],
		args[6], args[7], args[8], args[9], args[10],
		args[11], args[13], args[0],
	}
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, r.q(`
		UPDATE specialist_profiles SET
			first_name = ?, last_name = ?, email = ?, organization = ?, occupation = ?,
			notes = ?, picture_url = ?, location = ?, user_status = ?, call_status = ?,
			availability = ?, updated_at = ?
		WHERE phone_number = ?`), update...)
	if err != nil {
		return wrapStore(err)
	}
	return requireRow(result)
}

func (r *SQLProfileRepository) FindByPhone(ctx context.Context, phone string) (*domain.Profile, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, r.q(`
		SELECT `+profileColumns+` FROM specialist_profiles WHERE phone_number = ?`), phone)
	p, err := scanProfile(row)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStore(err)
	}
	return p, nil
}

func (r *SQLProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM specialist_profiles ORDER BY phone_number`)
}

func (r *SQLProfileRepository) ListByUserStatus(ctx context.Context, status domain.UserStatus) ([]*domain.Profile, error) {
	return r.list(ctx, r.q(`SELECT `+profileColumns+` FROM specialist_profiles
		WHERE user_status = ? ORDER BY phone_number`), string(status))
}

func (r *SQLProfileRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Profile, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	// A row that fails to decode is skipped so one bad profile does not
	// hide the rest from the availability job.
	out := make([]*domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if errors.Is(err, errUndecodable) {
			r.logger.WarnContext(ctx, "skipping specialist profile", "error", err)
			continue
		}
		if err != nil {
			return nil, wrapStore(err)
		}
		out = append(out, p)
	}
	return out, wrapStore(rows.Err())
}

func (r *SQLProfileRepository) UpdateCallStatus(ctx context.Context, phone string, status domain.CallStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidCallStatus
	}
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, r.q(`
		UPDATE specialist_profiles SET call_status = ?, updated_at = ? WHERE phone_number = ?`),
		string(status), time.Now().UTC(), phone)
	if err != nil {
		return wrapStore(err)
	}
	return requireRow(result)
}

func (r *SQLProfileRepository) ApplyScheduledStatus(ctx context.Context, phone string, status domain.UserStatus) (bool, error) {
	if !status.IsValid() {
		return false, domain.ErrInvalidStatus
	}
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, r.q(`
		UPDATE specialist_profiles SET user_status = ?, updated_at = ?
		WHERE phone_number = ? AND user_status <> 'OFFLINE'`),
		string(status), time.Now().UTC(), phone)
	if err != nil {
		return false, wrapStore(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, wrapStore(err)
	}
	return n > 0, nil
}

func profileArgs(p *domain.Profile) ([]any, error) {
	d := p.Details()
	availability, err := json.Marshal(p.Availability())
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	var location any
	if d.Location != nil {
		b, err := json.Marshal(d.Location)
		if err != nil {
			return nil, fmt.Errorf("encode location: %w", err)
		}
		location = string(b)
	}
	return []any{
		p.PhoneNumber(), d.FirstName, d.LastName, d.Email, d.Organization, d.Occupation,
		d.Notes, d.PictureURL, location, string(p.UserStatus()), string(p.CallStatus()),
		string(availability), p.CreatedAt().UTC(), p.UpdatedAt().UTC(),
	}, nil
}

func scanProfile(row database.Row) (*domain.Profile, error) {
	var (
		d            domain.Details
		location     sql.NullString
		userStatus   string
		callStatus   string
		availability string
		createdAt    database.NullTime
		updatedAt    database.NullTime
	)
	err := row.Scan(
		&d.PhoneNumber, &d.FirstName, &d.LastName, &d.Email, &d.Organization, &d.Occupation,
		&d.Notes, &d.PictureURL, &location, &userStatus, &callStatus, &availability,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var a domain.Availability
	if availability != "" {
		if err := json.Unmarshal([]byte(availability), &a); err != nil {
			return nil, fmt.Errorf("%w: availability for %s: %v", errUndecodable, d.PhoneNumber, err)
		}
	}
	if location.Valid && location.String != "" {
		var c domain.Coordinates
		if err := json.Unmarshal([]byte(location.String), &c); err != nil {
			return nil, fmt.Errorf("%w: location for %s: %v", errUndecodable, d.PhoneNumber, err)
		}
		d.Location = &c
	}

	return domain.RehydrateProfile(
		d, a,
		domain.UserStatus(userStatus),
		domain.CallStatus(callStatus),
		createdAt.Time,
		updatedAt.Time,
	), nil
}

func requireRow(result database.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return wrapStore(err)
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func wrapStore(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
