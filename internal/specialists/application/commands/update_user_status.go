package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

// UpdateUserStatusCommand sets a specialist's status. A nil Status
// recomputes it from the schedule, which also lifts a manual OFFLINE.
type UpdateUserStatusCommand struct {
	PhoneNumber string
	Status      *domain.UserStatus
}

// UpdateUserStatusHandler handles UpdateUserStatusCommand.
type UpdateUserStatusHandler struct {
	repo   domain.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewUpdateUserStatusHandler(repo domain.Repository, logger *slog.Logger) *UpdateUserStatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateUserStatusHandler{repo: repo, logger: logger, now: time.Now}
}

func (h *UpdateUserStatusHandler) Handle(ctx context.Context, cmd UpdateUserStatusCommand) (*domain.Profile, error) {
	p, err := h.repo.FindByPhone(ctx, cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}

	previous := p.UserStatus()
	if cmd.Status != nil {
		if err := p.SetUserStatus(*cmd.Status); err != nil {
			return nil, err
		}
	} else {
		p.Recompute(h.now())
	}

	if err := h.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	h.logger.Info("specialist status updated",
		"phone_number", p.PhoneNumber(),
		"from", previous,
		"to", p.UserStatus(),
		"manual", cmd.Status != nil,
	)
	return p, nil
}
