package domain

import (
	"context"
	"errors"
)

var (
	ErrProviderUnavailable   = errors.New("telephony provider unavailable")
	ErrSessionCreationFailed = errors.New("provider did not return a session or participant identity")
	ErrSessionNotFound       = errors.New("provider session not found")
)

// MediaPlacement tells clients where to connect for media.
type MediaPlacement struct {
	SignalingURL string `json:"signaling_url"`
}

// Session is a provider media session. Its ID is the meeting id.
type Session struct {
	ID             string
	ExternalID     string
	MediaRegion    string
	MediaPlacement MediaPlacement
}

// Participant is a provider seat in a session. Its ID is the attendee id.
type Participant struct {
	ID             string
	ExternalUserID string
	JoinToken      string
}

// Provider is the command surface of the media backend.
type Provider interface {
	CreateSession(ctx context.Context, externalID string) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	CreateParticipant(ctx context.Context, sessionID, externalUserID string) (Participant, error)
	EndSession(ctx context.Context, sessionID string) error
	RemoveParticipant(ctx context.Context, sessionID, participantID string) error
}

// LifecycleEvent is reported by the provider out of band.
type LifecycleEvent struct {
	Kind          LifecycleKind
	SessionID     string
	ParticipantID string
}

// LifecycleKind distinguishes provider lifecycle notifications.
type LifecycleKind int

const (
	LifecycleIgnored LifecycleKind = iota
	LifecycleSessionEnded
	LifecycleParticipantLeft
)

func (k LifecycleKind) String() string {
	switch k {
	case LifecycleSessionEnded:
		return "session_ended"
	case LifecycleParticipantLeft:
		return "participant_left"
	default:
		return "ignored"
	}
}
