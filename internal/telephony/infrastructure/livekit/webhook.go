package livekit

import (
	"fmt"
	"net/http"

	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

const (
	eventRoomFinished    = "room_finished"
	eventParticipantLeft = "participant_left"
)

var unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: true, AllowPartial: true}

// WebhookReceiver verifies and decodes LiveKit webhook deliveries.
type WebhookReceiver struct {
	keys auth.KeyProvider
}

// NewWebhookReceiver creates a receiver that checks signatures with the API key pair.
func NewWebhookReceiver(apiKey, apiSecret string) *WebhookReceiver {
	return &WebhookReceiver{keys: auth.NewSimpleKeyProvider(apiKey, apiSecret)}
}

// Receive verifies the request signature and maps the delivery to a lifecycle event.
func (w *WebhookReceiver) Receive(r *http.Request) (domain.LifecycleEvent, error) {
	body, err := webhook.Receive(r, w.keys)
	if err != nil {
		return domain.LifecycleEvent{}, fmt.Errorf("verify webhook: %w", err)
	}
	return DecodeWebhook(body)
}

// DecodeWebhook maps a verified webhook body to a lifecycle event. Events
// other than room_finished and participant_left are reported as ignored.
func DecodeWebhook(body []byte) (domain.LifecycleEvent, error) {
	var event lkproto.WebhookEvent
	if err := unmarshalOptions.Unmarshal(body, &event); err != nil {
		return domain.LifecycleEvent{}, fmt.Errorf("decode webhook: %w", err)
	}

	switch event.GetEvent() {
	case eventRoomFinished:
		return domain.LifecycleEvent{
			Kind:      domain.LifecycleSessionEnded,
			SessionID: event.GetRoom().GetName(),
		}, nil
	case eventParticipantLeft:
		return domain.LifecycleEvent{
			Kind:          domain.LifecycleParticipantLeft,
			SessionID:     event.GetRoom().GetName(),
			ParticipantID: event.GetParticipant().GetIdentity(),
		}, nil
	default:
		return domain.LifecycleEvent{Kind: domain.LifecycleIgnored, SessionID: event.GetRoom().GetName()}, nil
	}
}
