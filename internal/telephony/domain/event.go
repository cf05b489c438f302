package domain

// EventKind is the type of a telephony invocation.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventNewInboundCall
	EventDigitsReceived
	EventActionSuccessful
	EventActionFailed
	EventHangup
	EventCallAnswered
	EventInvalidLifecycleAction
)

var eventKindNames = map[EventKind]string{
	EventUnknown:                "UNKNOWN",
	EventNewInboundCall:         "NEW_INBOUND_CALL",
	EventDigitsReceived:         "DIGITS_RECEIVED",
	EventActionSuccessful:       "ACTION_SUCCESSFUL",
	EventActionFailed:           "ACTION_FAILED",
	EventHangup:                 "HANGUP",
	EventCallAnswered:           "CALL_ANSWERED",
	EventInvalidLifecycleAction: "INVALID_LIFECYCLE_ACTION",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return eventKindNames[EventUnknown]
}

// ParseEventKind maps a wire name to its kind. Unrecognised names are EventUnknown.
func ParseEventKind(name string) EventKind {
	for kind, n := range eventKindNames {
		if n == name {
			return kind
		}
	}
	return EventUnknown
}

// CallLeg is one participant of the telephony call, not of the meeting.
type CallLeg struct {
	CallID         string
	ParticipantTag string
	From           string
	To             string
	Status         string
}

// ActionResult describes the outcome of the previously returned action.
type ActionResult struct {
	Type           ActionType
	ReceivedDigits string
	ErrorType      string
	ErrorMessage   string
}

// Invocation is one event delivered by the telephony gateway for a call.
type Invocation struct {
	Kind          EventKind
	TransactionID string
	Attributes    map[string]string
	Legs          []CallLeg
	Action        *ActionResult
}

// Caller returns the inbound leg.
func (inv Invocation) Caller() (CallLeg, bool) {
	if len(inv.Legs) == 0 {
		return CallLeg{}, false
	}
	for _, leg := range inv.Legs {
		if leg.ParticipantTag == LegA {
			return leg, true
		}
	}
	return inv.Legs[0], true
}

// Attribute reads a transaction attribute.
func (inv Invocation) Attribute(key string) string {
	if inv.Attributes == nil {
		return ""
	}
	return inv.Attributes[key]
}
