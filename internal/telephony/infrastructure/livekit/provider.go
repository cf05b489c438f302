// Package livekit implements the telephony provider on a LiveKit server.
// Rooms are sessions and participant identities are attendee ids.
package livekit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/sony/gobreaker/v2"

	"github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// roomService is the subset of lksdk.RoomServiceClient the provider uses.
type roomService interface {
	CreateRoom(ctx context.Context, req *lkproto.CreateRoomRequest) (*lkproto.Room, error)
	ListRooms(ctx context.Context, req *lkproto.ListRoomsRequest) (*lkproto.ListRoomsResponse, error)
	DeleteRoom(ctx context.Context, req *lkproto.DeleteRoomRequest) (*lkproto.DeleteRoomResponse, error)
	RemoveParticipant(ctx context.Context, req *lkproto.RoomParticipantIdentity) (*lkproto.RemoveParticipantResponse, error)
}

// Config configures the LiveKit provider.
type Config struct {
	URL             string
	APIKey          string
	APISecret       string
	MediaRegion     string
	TokenTTL        time.Duration
	EmptyTimeout    time.Duration
	MaxParticipants uint32

	// Breaker settings.
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns defaults suitable for production.
func DefaultConfig() Config {
	return Config{
		MediaRegion:      "ca-central-1",
		TokenTTL:         6 * time.Hour,
		EmptyTimeout:     10 * time.Minute,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

type roomMetadata struct {
	ExternalMeetingID string `json:"external_meeting_id"`
	MediaRegion       string `json:"media_region"`
}

// Provider implements domain.Provider.
type Provider struct {
	rooms   roomService
	cfg     Config
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewProvider creates a provider talking to the configured LiveKit server.
func NewProvider(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Provider {
	return newProvider(lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret), cfg, logger, metrics)
}

func newProvider(rooms roomService, cfg Config, logger *slog.Logger, metrics observability.Metrics) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	p := &Provider{
		rooms:   rooms,
		cfg:     cfg,
		logger:  logger.With("component", "livekit_provider"),
		metrics: metrics,
	}
	p.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "livekit",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrSessionNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			p.metrics.Counter(observability.MetricBreakerTransitions, 1,
				observability.T("breaker", name), observability.T("state", to.String()))
		},
	})
	return p
}

// BreakerState reports the breaker state for health checks.
func (p *Provider) BreakerState() gobreaker.State {
	return p.breaker.State()
}

func (p *Provider) execute(ctx context.Context, operation string, fn func() (any, error)) (any, error) {
	timer := observability.StartTimer("provider." + operation).WithMetrics(p.metrics)
	result, err := p.breaker.Execute(fn)
	timer.StopWithError(err)

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		p.metrics.Counter(observability.MetricProviderErrors, 1, observability.T("operation", operation), observability.T("reason", "breaker_open"))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, operation, err)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionCreationFailed):
		return nil, err
	default:
		p.metrics.Counter(observability.MetricProviderErrors, 1, observability.T("operation", operation))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, operation, err)
	}
}

// CreateSession creates a room named by a fresh uuid, tagged with the
// external meeting id.
func (p *Provider) CreateSession(ctx context.Context, externalID string) (domain.Session, error) {
	metadata, err := json.Marshal(roomMetadata{ExternalMeetingID: externalID, MediaRegion: p.cfg.MediaRegion})
	if err != nil {
		return domain.Session{}, err
	}

	result, err := p.execute(ctx, "create_session", func() (any, error) {
		return p.rooms.CreateRoom(ctx, &lkproto.CreateRoomRequest{
			Name:            uuid.NewString(),
			EmptyTimeout:    uint32(p.cfg.EmptyTimeout.Seconds()),
			MaxParticipants: p.cfg.MaxParticipants,
			Metadata:        string(metadata),
		})
	})
	if err != nil {
		return domain.Session{}, err
	}

	room, _ := result.(*lkproto.Room)
	if room == nil || room.GetName() == "" {
		return domain.Session{}, domain.ErrSessionCreationFailed
	}
	p.logger.Info("session created", "meeting_id", room.GetName(), "external_meeting_id", externalID)
	return p.session(room), nil
}

// GetSession returns ErrSessionNotFound when the room has expired.
func (p *Provider) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	result, err := p.execute(ctx, "get_session", func() (any, error) {
		resp, err := p.rooms.ListRooms(ctx, &lkproto.ListRoomsRequest{Names: []string{sessionID}})
		if err != nil {
			return nil, err
		}
		for _, room := range resp.GetRooms() {
			if room.GetName() == sessionID {
				return room, nil
			}
		}
		return nil, domain.ErrSessionNotFound
	})
	if err != nil {
		return domain.Session{}, err
	}
	return p.session(result.(*lkproto.Room)), nil
}

// CreateParticipant issues a join token for a new identity in the room. The
// external user id becomes the participant's display name.
func (p *Provider) CreateParticipant(ctx context.Context, sessionID, externalUserID string) (domain.Participant, error) {
	if sessionID == "" {
		return domain.Participant{}, domain.ErrSessionCreationFailed
	}
	attendeeID := uuid.NewString()
	if externalUserID == "" {
		externalUserID = uuid.NewString()
	}

	token, err := auth.NewAccessToken(p.cfg.APIKey, p.cfg.APISecret).
		AddGrant(&auth.VideoGrant{Room: sessionID, RoomJoin: true}).
		SetIdentity(attendeeID).
		SetName(externalUserID).
		SetValidFor(p.cfg.TokenTTL).
		ToJWT()
	if err != nil {
		return domain.Participant{}, fmt.Errorf("%w: sign join token: %v", domain.ErrSessionCreationFailed, err)
	}

	return domain.Participant{
		ID:             attendeeID,
		ExternalUserID: externalUserID,
		JoinToken:      token,
	}, nil
}

// EndSession deletes the room, disconnecting everyone.
func (p *Provider) EndSession(ctx context.Context, sessionID string) error {
	_, err := p.execute(ctx, "end_session", func() (any, error) {
		return p.rooms.DeleteRoom(ctx, &lkproto.DeleteRoomRequest{Room: sessionID})
	})
	return err
}

// RemoveParticipant disconnects one identity from the room.
func (p *Provider) RemoveParticipant(ctx context.Context, sessionID, participantID string) error {
	_, err := p.execute(ctx, "remove_participant", func() (any, error) {
		return p.rooms.RemoveParticipant(ctx, &lkproto.RoomParticipantIdentity{Room: sessionID, Identity: participantID})
	})
	return err
}

func (p *Provider) session(room *lkproto.Room) domain.Session {
	s := domain.Session{
		ID:             room.GetName(),
		MediaRegion:    p.cfg.MediaRegion,
		MediaPlacement: domain.MediaPlacement{SignalingURL: p.cfg.URL},
	}
	var md roomMetadata
	if err := json.Unmarshal([]byte(room.GetMetadata()), &md); err == nil {
		s.ExternalID = md.ExternalMeetingID
		if md.MediaRegion != "" {
			s.MediaRegion = md.MediaRegion
		}
	}
	return s
}
