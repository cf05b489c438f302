package livekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

func TestDecodeWebhook(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.LifecycleEvent
	}{
		{
			name: "room finished",
			body: `{"event":"room_finished","room":{"name":"room-1"}}`,
			want: domain.LifecycleEvent{Kind: domain.LifecycleSessionEnded, SessionID: "room-1"},
		},
		{
			name: "participant left",
			body: `{"event":"participant_left","room":{"name":"room-1"},"participant":{"identity":"att-1"}}`,
			want: domain.LifecycleEvent{Kind: domain.LifecycleParticipantLeft, SessionID: "room-1", ParticipantID: "att-1"},
		},
		{
			name: "other events ignored",
			body: `{"event":"participant_joined","room":{"name":"room-1"},"someFutureField":true}`,
			want: domain.LifecycleEvent{Kind: domain.LifecycleIgnored, SessionID: "room-1"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeWebhook([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeWebhook_Malformed(t *testing.T) {
	_, err := DecodeWebhook([]byte(`not json`))
	assert.Error(t, err)
}
