package app

import (
	"log/slog"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	directoryPersistence "github.com/UBC-CIC/first-responder-admin/internal/directory/infrastructure/persistence"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	meetingsPersistence "github.com/UBC-CIC/first-responder-admin/internal/meetings/infrastructure/persistence"
	sharedApplication "github.com/UBC-CIC/first-responder-admin/internal/shared/application"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/database"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/outbox"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	specialistsPersistence "github.com/UBC-CIC/first-responder-admin/internal/specialists/infrastructure/persistence"
)

// Repositories groups every store backed by one connection. The SQL
// repositories rebind placeholders per driver, so the same constructors
// serve SQLite and Postgres.
type Repositories struct {
	Meetings        meetingsDomain.Repository
	Specialists     specialistsDomain.Repository
	FirstResponders directoryDomain.FirstResponderRepository
	ServiceDesk     directoryDomain.ServiceDeskRepository
	Outbox          outbox.Repository
	UnitOfWork      sharedApplication.UnitOfWork
}

// RepositoryFactory creates repositories for a connection.
type RepositoryFactory struct {
	conn   database.Connection
	logger *slog.Logger
}

// NewRepositoryFactory creates a new repository factory. A nil logger means
// slog.Default().
func NewRepositoryFactory(conn database.Connection, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{conn: conn, logger: logger}
}

// Driver reports the backend the repositories run on.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.conn.Driver()
}

// Build creates all repositories.
func (f *RepositoryFactory) Build() *Repositories {
	return &Repositories{
		Meetings:        meetingsPersistence.NewSQLMeetingRepository(f.conn),
		Specialists:     specialistsPersistence.NewSQLProfileRepository(f.conn).WithLogger(f.logger),
		FirstResponders: directoryPersistence.NewFirstResponderRepository(f.conn),
		ServiceDesk:     directoryPersistence.NewServiceDeskRepository(f.conn),
		Outbox:          outbox.NewSQLRepository(f.conn),
		UnitOfWork:      database.NewUnitOfWork(f.conn),
	}
}
