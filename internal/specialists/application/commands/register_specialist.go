package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

// RegisterSpecialistCommand enrolls a new on-call specialist.
type RegisterSpecialistCommand struct {
	Details      domain.Details
	Availability domain.Availability
}

// RegisterSpecialistHandler handles RegisterSpecialistCommand.
type RegisterSpecialistHandler struct {
	repo   domain.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewRegisterSpecialistHandler(repo domain.Repository, logger *slog.Logger) *RegisterSpecialistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterSpecialistHandler{repo: repo, logger: logger, now: time.Now}
}

// Handle stores the profile with its status resolved from the schedule. A
// phone number already on file fails with ErrProfileExists.
func (h *RegisterSpecialistHandler) Handle(ctx context.Context, cmd RegisterSpecialistCommand) (*domain.Profile, error) {
	p, err := domain.NewProfile(cmd.Details, cmd.Availability, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	h.logger.Info("specialist registered", "phone_number", p.PhoneNumber(), "user_status", p.UserStatus())
	return p, nil
}
