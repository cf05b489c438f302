package services

import (
	"context"
	"log/slog"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

const serviceDeskRole = "Service Desk"

// Enricher looks up directory information for new attendees. Lookup failures
// are not errors: the attendee joins with whatever was found.
type Enricher interface {
	ByPhone(ctx context.Context, phone string) (domain.AttendeeType, domain.ProfileSnapshot)
	ByUsername(ctx context.Context, username string) domain.ProfileSnapshot
}

// DirectoryEnricher consults the specialist roster first, then the first
// responder directory. Service desk attendees come from their own directory.
type DirectoryEnricher struct {
	specialists     specialistsDomain.Repository
	firstResponders directoryDomain.FirstResponderRepository
	serviceDesk     directoryDomain.ServiceDeskRepository
	logger          *slog.Logger
}

// NewDirectoryEnricher creates an enricher over the three directories.
func NewDirectoryEnricher(
	specialists specialistsDomain.Repository,
	firstResponders directoryDomain.FirstResponderRepository,
	serviceDesk directoryDomain.ServiceDeskRepository,
	logger *slog.Logger,
) *DirectoryEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryEnricher{
		specialists:     specialists,
		firstResponders: firstResponders,
		serviceDesk:     serviceDesk,
		logger:          logger,
	}
}

// ByPhone returns the attendee type and profile snapshot for a phone number.
func (e *DirectoryEnricher) ByPhone(ctx context.Context, phone string) (domain.AttendeeType, domain.ProfileSnapshot) {
	if e.specialists != nil {
		p, err := e.specialists.FindByPhone(ctx, phone)
		if err != nil {
			e.logger.Warn("specialist lookup failed", "phone_number", phone, "error", err)
		} else if p != nil {
			d := p.Details()
			return domain.AttendeeTypeSpecialist, domain.ProfileSnapshot{
				FirstName:    d.FirstName,
				LastName:     d.LastName,
				Organization: d.Organization,
				Role:         d.Occupation,
			}
		}
	}

	if e.firstResponders != nil {
		p, err := e.firstResponders.FindByPhone(ctx, phone)
		if err != nil {
			e.logger.Warn("first responder lookup failed", "phone_number", phone, "error", err)
		} else if p != nil {
			return domain.AttendeeTypeFirstResponder, domain.ProfileSnapshot{
				FirstName:    p.FirstName,
				LastName:     p.LastName,
				Organization: p.Organization,
				Role:         p.Occupation,
			}
		}
	}

	return domain.AttendeeTypeNotSpecified, domain.ProfileSnapshot{}
}

// ByUsername returns the snapshot of a service desk agent.
func (e *DirectoryEnricher) ByUsername(ctx context.Context, username string) domain.ProfileSnapshot {
	if e.serviceDesk == nil {
		return domain.ProfileSnapshot{}
	}
	agent, err := e.serviceDesk.FindByUsername(ctx, username)
	if err != nil {
		e.logger.Warn("service desk lookup failed", "username", username, "error", err)
		return domain.ProfileSnapshot{}
	}
	if agent == nil {
		return domain.ProfileSnapshot{}
	}
	return domain.ProfileSnapshot{FirstName: agent.Name, Role: serviceDeskRole}
}
