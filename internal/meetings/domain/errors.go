package domain

import "errors"

var (
	ErrMeetingNotFound        = errors.New("meeting not found")
	ErrMeetingClosed          = errors.New("meeting is closed")
	ErrMeetingIDRequired      = errors.New("meeting id is required")
	ErrExternalIDRequired     = errors.New("external meeting id is required")
	ErrExternalIDTaken        = errors.New("external meeting id is already used by an active meeting")
	ErrIDSpaceExhausted       = errors.New("could not allocate a free external meeting id")
	ErrConcurrentModification = errors.New("meeting was modified concurrently")
	ErrStoreUnavailable       = errors.New("meeting store unavailable")
	ErrInvalidStatus          = errors.New("invalid meeting status")

	ErrAttendeeNotFound     = errors.New("attendee not found")
	ErrAttendeeNotInCall    = errors.New("attendee is not in the call")
	ErrAttendeeKicked       = errors.New("attendee was removed from the meeting")
	ErrAttendeeInCall       = errors.New("attendee is already in the call")
	ErrAttendeeIDRequired   = errors.New("attendee id is required")
	ErrPhoneRequired        = errors.New("phone number is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrInvalidJoinType      = errors.New("invalid join type")
	ErrInvalidAttendeeState = errors.New("invalid attendee state")
	ErrInvalidAttendeeType  = errors.New("invalid attendee type")
)
