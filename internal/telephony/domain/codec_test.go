package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inboundCall = `{
  "SchemaVersion": "1.0",
  "Sequence": 2,
  "InvocationEventType": "ACTION_SUCCESSFUL",
  "CallDetails": {
    "TransactionId": "tx-1",
    "TransactionAttributes": {"prompt_attempts": "1"},
    "Participants": [
      {"CallId": "call-a", "ParticipantTag": "LEG-A", "To": "+18005550000", "From": "+16045550001", "Direction": "Inbound", "Status": "Connected"}
    ]
  },
  "ActionData": {"Type": "PlayAudioAndGetDigits", "ReceivedDigits": "12345678"}
}`

func TestDecodeInvocation(t *testing.T) {
	inv, err := DecodeInvocation([]byte(inboundCall))
	require.NoError(t, err)

	assert.Equal(t, EventActionSuccessful, inv.Kind)
	assert.Equal(t, "tx-1", inv.TransactionID)
	assert.Equal(t, "1", inv.Attribute("prompt_attempts"))
	caller, ok := inv.Caller()
	require.True(t, ok)
	assert.Equal(t, "+16045550001", caller.From)
	assert.Equal(t, "call-a", caller.CallID)
	require.NotNil(t, inv.Action)
	assert.Equal(t, ActionPlayAudioAndGetDigits, inv.Action.Type)
	assert.Equal(t, "12345678", inv.Action.ReceivedDigits)
}

func TestDecodeInvocation_Malformed(t *testing.T) {
	_, err := DecodeInvocation([]byte(`{"InvocationEventType":`))
	assert.Error(t, err)
}

func TestParseEventKind(t *testing.T) {
	tests := map[string]EventKind{
		"NEW_INBOUND_CALL":         EventNewInboundCall,
		"DIGITS_RECEIVED":          EventDigitsReceived,
		"ACTION_SUCCESSFUL":        EventActionSuccessful,
		"ACTION_FAILED":            EventActionFailed,
		"HANGUP":                   EventHangup,
		"CALL_ANSWERED":            EventCallAnswered,
		"INVALID_LIFECYCLE_ACTION": EventInvalidLifecycleAction,
		"RINGING":                  EventUnknown,
		"":                         EventUnknown,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ParseEventKind(name))
		})
	}
	assert.Equal(t, "HANGUP", EventHangup.String())
	assert.Equal(t, "UNKNOWN", EventKind(99).String())
}

func TestEncodeResponse(t *testing.T) {
	body, err := EncodeResponse(Response{
		Actions: []Action{
			JoinSession{JoinToken: "tok", CallID: "call-a"},
			NewHangup(),
		},
		Attributes: map[string]string{"meeting_id": "m-1"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"SchemaVersion": "1.0",
		"Actions": [
			{"Type": "JoinSession", "Parameters": {"JoinToken": "tok", "CallId": "call-a"}},
			{"Type": "Hangup", "Parameters": {"SipResponseCode": "0"}}
		],
		"TransactionAttributes": {"meeting_id": "m-1"}
	}`, string(body))
}

func TestEncodeResponse_NoActions(t *testing.T) {
	body, err := EncodeResponse(Response{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"SchemaVersion": "1.0", "Actions": []}`, string(body))
}

type bogusAction struct{}

func (bogusAction) Type() ActionType { return "Bogus" }

func TestEncodeResponse_UnknownAction(t *testing.T) {
	_, err := EncodeResponse(Response{Actions: []Action{bogusAction{}}})
	assert.Error(t, err)
}
