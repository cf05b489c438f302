// Package smtp delivers notification mail through an SMTP relay.
package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// Config configures the relay connection.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Enabled reports whether a relay host and sender address are configured.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender implements domain.EmailSender.
type Sender struct {
	cfg      Config
	send     sendFunc
	breaker  *gobreaker.CircuitBreaker[struct{}]
	logger   *slog.Logger
	metrics  observability.Metrics
	boundary func() string
}

// NewSender creates a sender. Five consecutive failures open the breaker for
// a minute unless configured otherwise.
func NewSender(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = time.Minute
	}

	s := &Sender{
		cfg:     cfg,
		send:    smtp.SendMail,
		logger:  logger.With("component", "smtp_sender"),
		metrics: metrics,
	}
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "smtp",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			s.metrics.Counter(observability.MetricBreakerTransitions, 1,
				observability.T("breaker", name), observability.T("state", to.String()))
		},
	})
	return s
}

// BreakerState reports the breaker state for health checks.
func (s *Sender) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// SendEmail renders msg as multipart/alternative and hands it to the relay.
// net/smtp has no context support, so ctx is only checked before dialing.
func (s *Sender) SendEmail(ctx context.Context, msg domain.Email) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.render(msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(addr, auth, s.cfg.From, []string{msg.To}, body)
	})
	if err != nil {
		s.metrics.Counter(observability.MetricNotificationsFailed, 1, observability.T("channel", "email"))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: smtp: %v", domain.ErrNotifierUnavailable, err)
		}
		return fmt.Errorf("send email: %w", err)
	}

	s.metrics.Counter(observability.MetricNotificationsSent, 1, observability.T("channel", "email"))
	s.logger.Info("email sent", "subject", msg.Subject)
	return nil
}

func (s *Sender) render(msg domain.Email) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if s.boundary != nil {
		if err := mw.SetBoundary(s.boundary()); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.TextBody},
		{"text/html; charset=UTF-8", msg.HTMLBody},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
