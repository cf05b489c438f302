package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"log/slog"

	"github.com/google/uuid"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	notificationsDomain "github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// PageSubject is the subject line of the paging email.
const PageSubject = "STARS: Emergency Assistance Meeting Request"

// PagingConfig holds the links put into paging messages.
type PagingConfig struct {
	CallURL         string
	JoinPhoneNumber string
}

// SpecialistFinder loads specialist profiles.
type SpecialistFinder interface {
	FindByPhone(ctx context.Context, phone string) (*specialistsDomain.Profile, error)
}

// PageSpecialistCommand asks a specialist to join a meeting.
type PageSpecialistCommand struct {
	PhoneNumber       string
	ExternalMeetingID string
}

// PageResult reports what was recorded and which notifications went out.
type PageResult struct {
	Meeting    *domain.Meeting
	AttendeeID string
	SMSSent    bool
	EmailSent  bool
}

// PageSpecialistHandler handles PageSpecialistCommand.
type PageSpecialistHandler struct {
	registry    Registry
	provider    telephonyDomain.Provider
	specialists SpecialistFinder
	sweeper     Sweeper
	sms         notificationsDomain.SMSSender
	email       notificationsDomain.EmailSender
	cfg         PagingConfig
	logger      *slog.Logger
	metrics     observability.Metrics
}

func NewPageSpecialistHandler(
	registry Registry,
	provider telephonyDomain.Provider,
	specialists SpecialistFinder,
	sweeper Sweeper,
	sms notificationsDomain.SMSSender,
	email notificationsDomain.EmailSender,
	cfg PagingConfig,
	logger *slog.Logger,
	metrics observability.Metrics,
) *PageSpecialistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &PageSpecialistHandler{
		registry:    registry,
		provider:    provider,
		specialists: specialists,
		sweeper:     sweeper,
		sms:         sms,
		email:       email,
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
	}
}

// Handle records the specialist as PAGED on the meeting and then notifies
// them. The page stands even when every notification fails.
func (h *PageSpecialistHandler) Handle(ctx context.Context, cmd PageSpecialistCommand) (*PageResult, error) {
	meeting, err := h.registry.FindActiveByExternalID(ctx, cmd.ExternalMeetingID)
	if err != nil {
		return nil, err
	}
	ctx = observability.WithMeetingID(ctx, meeting.ID())

	profile, err := h.specialists.FindByPhone(ctx, cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, specialistsDomain.ErrProfileNotFound
	}
	for _, a := range meeting.Attendees() {
		if a.PhoneNumber == profile.PhoneNumber() && a.State == domain.AttendeeStateInCall {
			return nil, domain.ErrAttendeeInCall
		}
	}

	participant, err := h.provider.CreateParticipant(ctx, meeting.ID(), uuid.NewString())
	if err != nil {
		return nil, err
	}
	if participant.ID == "" {
		return nil, telephonyDomain.ErrSessionCreationFailed
	}

	meeting, err = h.registry.UpsertAttendeeByPhone(ctx, meeting.ID(), participant.ID, profile.PhoneNumber(), domain.JoinTypePSTN, domain.AttendeeStatePaged)
	if err != nil {
		return nil, err
	}
	h.sweeper.MarkPaged(ctx, meeting.ID(), profile.PhoneNumber())
	h.metrics.Counter(observability.MetricSpecialistPaged, 1)

	result := &PageResult{Meeting: meeting, AttendeeID: participant.ID}
	message := PageMessage(h.cfg, profile, meeting.ExternalID())

	if err := h.sms.SendSMS(ctx, notificationsDomain.SMS{PhoneNumber: profile.PhoneNumber(), Body: message}); err != nil {
		h.logger.WarnContext(ctx, "failed to text paged specialist", "error", err)
	} else {
		result.SMSSent = true
	}

	if to := profile.Details().Email; to != "" {
		err := h.email.SendEmail(ctx, notificationsDomain.Email{
			To:       to,
			Subject:  PageSubject,
			HTMLBody: pageHTML(message),
			TextBody: message,
		})
		if err != nil {
			h.logger.WarnContext(ctx, "failed to email paged specialist", "error", err)
		} else {
			result.EmailSent = true
		}
	}

	h.logger.InfoContext(ctx, "specialist paged",
		"attendee_id", participant.ID,
		"sms_sent", result.SMSSent,
		"email_sent", result.EmailSent,
	)
	return result, nil
}

// PageMessage renders the paging text. The link carries the specialist's
// phone and the dial-in code, both base64 encoded.
func PageMessage(cfg PagingConfig, p *specialistsDomain.Profile, externalMeetingID string) string {
	d := p.Details()
	return fmt.Sprintf(
		"STARS: %s %s, you have been requested to assist in an emergency. Please visit %s?p=%s&m=%s or call %s to join the meeting.",
		d.FirstName,
		d.LastName,
		cfg.CallURL,
		base64.StdEncoding.EncodeToString([]byte(p.PhoneNumber())),
		base64.StdEncoding.EncodeToString([]byte(externalMeetingID)),
		cfg.JoinPhoneNumber,
	)
}

func pageHTML(message string) string {
	return "<html><body><h3>This is the request detail:</h3><p>" + html.EscapeString(message) + "</p></body></html>"
}
