package domain

// ActionType is the wire name of an action.
type ActionType string

const (
	ActionJoinSession           ActionType = "JoinSession"
	ActionPlayAudio             ActionType = "PlayAudio"
	ActionPlayAudioAndGetDigits ActionType = "PlayAudioAndGetDigits"
	ActionHangup                ActionType = "Hangup"
	ActionReceiveDigits         ActionType = "ReceiveDigits"
)

// LegA tags the caller's leg.
const LegA = "LEG-A"

// SchemaVersion is the response envelope version.
const SchemaVersion = "1.0"

// Action is an instruction for the telephony gateway.
type Action interface {
	Type() ActionType
}

// AudioSource points at a stored prompt.
type AudioSource struct {
	Type       string `json:"Type"`
	BucketName string `json:"BucketName"`
	Key        string `json:"Key"`
}

// JoinSession bridges the caller's leg into a media session.
type JoinSession struct {
	JoinToken string `json:"JoinToken"`
	CallID    string `json:"CallId"`
	MeetingID string `json:"MeetingId,omitempty"`
}

// PlayAudio plays a prompt to one leg.
type PlayAudio struct {
	ParticipantTag string      `json:"ParticipantTag"`
	AudioSource    AudioSource `json:"AudioSource"`
}

// PlayAudioAndGetDigits plays a prompt and collects DTMF digits with retries
// handled by the gateway.
type PlayAudioAndGetDigits struct {
	MinNumberOfDigits                     int         `json:"MinNumberOfDigits"`
	MaxNumberOfDigits                     int         `json:"MaxNumberOfDigits"`
	Repeat                                int         `json:"Repeat"`
	InBetweenDigitsDurationInMilliseconds int         `json:"InBetweenDigitsDurationInMilliseconds"`
	RepeatDurationInMilliseconds          int         `json:"RepeatDurationInMilliseconds"`
	TerminatorDigits                      []string    `json:"TerminatorDigits"`
	AudioSource                           AudioSource `json:"AudioSource"`
	FailureAudioSource                    AudioSource `json:"FailureAudioSource"`
}

// Hangup ends the call.
type Hangup struct {
	SipResponseCode string `json:"SipResponseCode"`
}

func (JoinSession) Type() ActionType           { return ActionJoinSession }
func (PlayAudio) Type() ActionType             { return ActionPlayAudio }
func (PlayAudioAndGetDigits) Type() ActionType { return ActionPlayAudioAndGetDigits }
func (Hangup) Type() ActionType                { return ActionHangup }

// NewHangup returns the normal-clearing hangup action.
func NewHangup() Hangup {
	return Hangup{SipResponseCode: "0"}
}

// Response is returned for every invocation.
type Response struct {
	Actions    []Action
	Attributes map[string]string
}

// HangupResponse is a response that terminates the call.
func HangupResponse(attrs map[string]string) Response {
	return Response{Actions: []Action{NewHangup()}, Attributes: attrs}
}
