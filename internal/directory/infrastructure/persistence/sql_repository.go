package persistence

import (
	"context"

	"github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
)

// FirstResponderRepository implements domain.FirstResponderRepository.
type FirstResponderRepository struct {
	conn database.Connection
}

// NewFirstResponderRepository creates a repository on conn.
func NewFirstResponderRepository(conn database.Connection) *FirstResponderRepository {
	return &FirstResponderRepository{conn: conn}
}

func (r *FirstResponderRepository) Create(ctx context.Context, p domain.FirstResponder) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, database.Rebind(r.conn.Driver(), `
		INSERT INTO first_responder_profiles (phone_number, first_name, last_name, occupation, organization)
		VALUES (?, ?, ?, ?, ?)`),
		p.PhoneNumber, p.FirstName, p.LastName, p.Occupation, p.Organization)
	if database.IsUniqueViolation(err) {
		return domain.ErrProfileExists
	}
	return err
}

func (r *FirstResponderRepository) FindByPhone(ctx context.Context, phone string) (*domain.FirstResponder, error) {
	var p domain.FirstResponder
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, database.Rebind(r.conn.Driver(), `
		SELECT phone_number, first_name, last_name, occupation, organization
		FROM first_responder_profiles WHERE phone_number = ?`), phone).
		Scan(&p.PhoneNumber, &p.FirstName, &p.LastName, &p.Occupation, &p.Organization)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FirstResponderRepository) List(ctx context.Context) ([]domain.FirstResponder, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT phone_number, first_name, last_name, occupation, organization
		FROM first_responder_profiles ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.FirstResponder, 0)
	for rows.Next() {
		var p domain.FirstResponder
		if err := rows.Scan(&p.PhoneNumber, &p.FirstName, &p.LastName, &p.Occupation, &p.Organization); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ServiceDeskRepository implements domain.ServiceDeskRepository.
type ServiceDeskRepository struct {
	conn database.Connection
}

// NewServiceDeskRepository creates a repository on conn.
func NewServiceDeskRepository(conn database.Connection) *ServiceDeskRepository {
	return &ServiceDeskRepository{conn: conn}
}

func (r *ServiceDeskRepository) Create(ctx context.Context, p domain.ServiceDeskAgent) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, database.Rebind(r.conn.Driver(), `
		INSERT INTO service_desk_profiles (username, name, phone_number, email)
		VALUES (?, ?, ?, ?)`),
		p.Username, p.Name, p.PhoneNumber, p.Email)
	if database.IsUniqueViolation(err) {
		return domain.ErrProfileExists
	}
	return err
}

func (r *ServiceDeskRepository) FindByUsername(ctx context.Context, username string) (*domain.ServiceDeskAgent, error) {
	var p domain.ServiceDeskAgent
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, database.Rebind(r.conn.Driver(), `
		SELECT username, name, phone_number, email
		FROM service_desk_profiles WHERE username = ?`), username).
		Scan(&p.Username, &p.Name, &p.PhoneNumber, &p.Email)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ServiceDeskRepository) List(ctx context.Context) ([]domain.ServiceDeskAgent, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT username, name, phone_number, email
		FROM service_desk_profiles ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ServiceDeskAgent, 0)
	for rows.Next() {
		var p domain.ServiceDeskAgent
		if err := rows.Scan(&p.Username, &p.Name, &p.PhoneNumber, &p.Email); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
