package domain

import (
	sharedDomain "github.com/UBC-CIC/first-responder-admin/internal/shared/domain"
)

const (
	RoutingKeyMeetingCreated = "meetings.meeting.created"
	RoutingKeyMeetingUpdated = "meetings.meeting.updated"
)

// MeetingCreated is emitted when a meeting is first stored.
type MeetingCreated struct {
	sharedDomain.BaseEvent
	Meeting Snapshot `json:"meeting"`
}

// NewMeetingCreated creates a MeetingCreated event.
func NewMeetingCreated(after Snapshot) *MeetingCreated {
	return &MeetingCreated{
		BaseEvent: sharedDomain.NewBaseEvent(after.MeetingID, AggregateType, RoutingKeyMeetingCreated),
		Meeting:   after,
	}
}

// Payload is the published body.
func (e *MeetingCreated) Payload() any { return e.Meeting }

// MeetingUpdated is emitted for every later write of a meeting.
type MeetingUpdated struct {
	sharedDomain.BaseEvent
	Previous Snapshot `json:"previous"`
	Meeting  Snapshot `json:"meeting"`
}

// NewMeetingUpdated creates a MeetingUpdated event.
func NewMeetingUpdated(before, after Snapshot) *MeetingUpdated {
	return &MeetingUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(after.MeetingID, AggregateType, RoutingKeyMeetingUpdated),
		Previous:  before,
		Meeting:   after,
	}
}

// Payload is the published body. Consumers only need the new state.
func (e *MeetingUpdated) Payload() any { return e.Meeting }
