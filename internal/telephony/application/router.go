// Package application turns telephony gateway invocations into meeting
// registry calls and IVR actions.
package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/application/services"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// Flow selects the dial-in number's behaviour.
type Flow int

const (
	// FlowCreate starts a new meeting for every caller.
	FlowCreate Flow = iota
	// FlowJoin puts the caller into an existing meeting.
	FlowJoin
)

func (f Flow) String() string {
	if f == FlowJoin {
		return "join"
	}
	return "create"
}

const (
	DefaultAudioBucket       = "first-responder-audio-assets"
	DefaultMaxPromptAttempts = 3

	// AttrPromptAttempts counts meeting-code prompts played on this call.
	AttrPromptAttempts = "prompt_attempts"

	AudioConnecting = "pstn-connecting.wav"
	AudioMeetingPIN = "pstn-meeting-pin.wav"
	AudioWelcome    = "pstn-create-welcome.wav"

	codeDigits = 8
)

// Registry is the part of the meeting registry used by the IVR.
type Registry interface {
	CreateMeeting(ctx context.Context, in services.CreateMeetingInput) (*services.CreateMeetingResult, error)
	FindActiveByPhoneNumber(ctx context.Context, phone string) (*meetingsDomain.Meeting, error)
	FindActiveByExternalID(ctx context.Context, externalID string) (*meetingsDomain.Meeting, error)
	UpsertAttendeeByPhone(ctx context.Context, meetingID, attendeeID, phone string, joinType meetingsDomain.JoinType, state meetingsDomain.AttendeeState) (*meetingsDomain.Meeting, error)
}

// RouterConfig configures prompts.
type RouterConfig struct {
	AudioBucket       string
	MaxPromptAttempts int
}

// Router answers gateway invocations. It never fails an invocation; errors
// degrade to a re-prompt or a hangup.
type Router struct {
	registry Registry
	provider domain.Provider
	cfg      RouterConfig
	logger   *slog.Logger
	metrics  observability.Metrics
}

func NewRouter(registry Registry, provider domain.Provider, cfg RouterConfig, logger *slog.Logger, metrics observability.Metrics) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.AudioBucket == "" {
		cfg.AudioBucket = DefaultAudioBucket
	}
	if cfg.MaxPromptAttempts <= 0 {
		cfg.MaxPromptAttempts = DefaultMaxPromptAttempts
	}
	return &Router{
		registry: registry,
		provider: provider,
		cfg:      cfg,
		logger:   logger.With("component", "call_router"),
		metrics:  metrics,
	}
}

// Route handles one invocation for the given flow.
func (r *Router) Route(ctx context.Context, flow Flow, inv domain.Invocation) domain.Response {
	leg, _ := inv.Caller()
	ctx = observability.WithCallID(ctx, leg.CallID)
	r.metrics.Counter(observability.MetricCallEvents, 1,
		observability.T("flow", flow.String()), observability.T("kind", inv.Kind.String()))
	r.logger.DebugContext(ctx, "call event", "flow", flow.String(), "kind", inv.Kind.String())

	attrs := copyAttributes(inv.Attributes)

	switch inv.Kind {
	case domain.EventNewInboundCall:
		if flow == FlowJoin {
			return r.joinByPhone(ctx, leg, attrs)
		}
		return r.create(ctx, leg, attrs)
	case domain.EventActionSuccessful:
		return r.actionSuccessful(ctx, flow, inv, leg, attrs)
	case domain.EventDigitsReceived:
		return domain.Response{Attributes: attrs}
	case domain.EventHangup:
		r.logger.InfoContext(ctx, "caller hung up", "status", leg.Status)
		return domain.Response{Attributes: attrs}
	case domain.EventActionFailed:
		if inv.Action != nil {
			r.logger.WarnContext(ctx, "gateway action failed",
				"action", inv.Action.Type,
				"error_type", inv.Action.ErrorType,
				"error_message", inv.Action.ErrorMessage,
			)
		}
		return domain.HangupResponse(attrs)
	case domain.EventCallAnswered, domain.EventInvalidLifecycleAction, domain.EventUnknown:
		return domain.HangupResponse(attrs)
	default:
		return domain.HangupResponse(attrs)
	}
}

func (r *Router) actionSuccessful(ctx context.Context, flow Flow, inv domain.Invocation, leg domain.CallLeg, attrs map[string]string) domain.Response {
	if inv.Action == nil {
		return domain.Response{Attributes: attrs}
	}
	switch inv.Action.Type {
	case domain.ActionJoinSession:
		return domain.Response{Actions: []domain.Action{r.welcome()}, Attributes: attrs}
	case domain.ActionPlayAudioAndGetDigits:
		if flow == FlowJoin {
			return r.joinByCode(ctx, leg, inv.Action.ReceivedDigits, attrs)
		}
		return domain.Response{Attributes: attrs}
	case domain.ActionPlayAudio, domain.ActionReceiveDigits, domain.ActionHangup:
		return domain.Response{Attributes: attrs}
	default:
		if flow == FlowJoin {
			return r.prompt(ctx, attrs)
		}
		return domain.Response{Attributes: attrs}
	}
}

func (r *Router) create(ctx context.Context, leg domain.CallLeg, attrs map[string]string) domain.Response {
	result, err := r.registry.CreateMeeting(ctx, services.CreateMeetingInput{
		CallerIdentity: leg.From,
		CallID:         leg.CallID,
		JoinType:       meetingsDomain.JoinTypePSTN,
		State:          meetingsDomain.AttendeeStateInCall,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create meeting for caller", "error", err)
		return domain.HangupResponse(attrs)
	}
	r.metrics.Counter(observability.MetricMeetingsCreated, 1, observability.T("join_type", string(meetingsDomain.JoinTypePSTN)))
	return domain.Response{
		Actions: []domain.Action{domain.JoinSession{
			JoinToken: result.Participant.JoinToken,
			CallID:    leg.CallID,
			MeetingID: result.Meeting.ID(),
		}},
		Attributes: attrs,
	}
}

func (r *Router) joinByPhone(ctx context.Context, leg domain.CallLeg, attrs map[string]string) domain.Response {
	m, err := r.registry.FindActiveByPhoneNumber(ctx, leg.From)
	if err != nil {
		if !errors.Is(err, meetingsDomain.ErrMeetingNotFound) {
			r.logger.WarnContext(ctx, "meeting lookup by phone failed, prompting for code", "error", err)
		}
		return r.prompt(ctx, attrs)
	}
	resp, err := r.bridge(ctx, m, leg, attrs)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to join caller to their meeting, prompting for code", "meeting_id", m.ID(), "error", err)
		return r.prompt(ctx, attrs)
	}
	return resp
}

func (r *Router) joinByCode(ctx context.Context, leg domain.CallLeg, digits string, attrs map[string]string) domain.Response {
	m, err := r.registry.FindActiveByExternalID(ctx, digits)
	if err != nil {
		if !errors.Is(err, meetingsDomain.ErrMeetingNotFound) {
			r.logger.WarnContext(ctx, "meeting lookup by code failed", "error", err)
		}
		return r.prompt(ctx, attrs)
	}
	resp, err := r.bridge(ctx, m, leg, attrs)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to join caller by code", "meeting_id", m.ID(), "error", err)
		return r.prompt(ctx, attrs)
	}
	return resp
}

func (r *Router) bridge(ctx context.Context, m *meetingsDomain.Meeting, leg domain.CallLeg, attrs map[string]string) (domain.Response, error) {
	participant, err := r.provider.CreateParticipant(ctx, m.ID(), leg.From)
	if err != nil {
		return domain.Response{}, err
	}
	if participant.ID == "" {
		return domain.Response{}, domain.ErrSessionCreationFailed
	}
	if _, err := r.registry.UpsertAttendeeByPhone(ctx, m.ID(), participant.ID, leg.From, meetingsDomain.JoinTypePSTN, meetingsDomain.AttendeeStateInCall); err != nil {
		return domain.Response{}, err
	}
	r.metrics.Counter(observability.MetricAttendeesJoined, 1, observability.T("join_type", string(meetingsDomain.JoinTypePSTN)))
	delete(attrs, AttrPromptAttempts)
	return domain.Response{
		Actions: []domain.Action{domain.JoinSession{
			JoinToken: participant.JoinToken,
			CallID:    leg.CallID,
			MeetingID: m.ID(),
		}},
		Attributes: attrs,
	}, nil
}

// prompt asks for the meeting code, or hangs up once the caller has been
// prompted MaxPromptAttempts times.
func (r *Router) prompt(ctx context.Context, attrs map[string]string) domain.Response {
	attempts, _ := strconv.Atoi(attrs[AttrPromptAttempts])
	if attempts >= r.cfg.MaxPromptAttempts {
		r.metrics.Counter(observability.MetricPromptExhausted, 1)
		r.logger.InfoContext(ctx, "meeting code attempts exhausted", "attempts", attempts)
		return domain.HangupResponse(attrs)
	}
	attrs[AttrPromptAttempts] = strconv.Itoa(attempts + 1)
	return domain.Response{
		Actions: []domain.Action{domain.PlayAudioAndGetDigits{
			MinNumberOfDigits:                     codeDigits,
			MaxNumberOfDigits:                     codeDigits,
			Repeat:                                3,
			InBetweenDigitsDurationInMilliseconds: 1000,
			RepeatDurationInMilliseconds:          5000,
			TerminatorDigits:                      []string{"#"},
			AudioSource:                           r.audio(AudioConnecting),
			FailureAudioSource:                    r.audio(AudioMeetingPIN),
		}},
		Attributes: attrs,
	}
}

func (r *Router) welcome() domain.PlayAudio {
	return domain.PlayAudio{ParticipantTag: domain.LegA, AudioSource: r.audio(AudioWelcome)}
}

func (r *Router) audio(key string) domain.AudioSource {
	return domain.AudioSource{Type: "S3", BucketName: r.cfg.AudioBucket, Key: key}
}

func copyAttributes(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
