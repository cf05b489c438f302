// Package logsink writes notifications to the log. It stands in for SMTP and
// the SMS gateway in local mode.
package logsink

import (
	"context"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
)

// Sink implements both domain.SMSSender and domain.EmailSender.
type Sink struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger.With("component", "notification_log")}
}

func (s *Sink) SendSMS(ctx context.Context, msg domain.SMS) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "sms not delivered, no gateway configured", "body", msg.Body)
	return nil
}

func (s *Sink) SendEmail(ctx context.Context, msg domain.Email) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email not delivered, no relay configured", "subject", msg.Subject)
	return nil
}
