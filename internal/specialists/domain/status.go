package domain

// UserStatus is a specialist's availability.
type UserStatus string

const (
	UserStatusAvailable    UserStatus = "AVAILABLE"
	UserStatusNotAvailable UserStatus = "NOT_AVAILABLE"
	// UserStatusOffline is set manually and is never overwritten by the
	// availability schedule.
	UserStatusOffline UserStatus = "OFFLINE"
)

// IsValid checks if the status is known.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusAvailable, UserStatusNotAvailable, UserStatusOffline:
		return true
	default:
		return false
	}
}

// IsScheduled reports whether the status is owned by the schedule.
func (s UserStatus) IsScheduled() bool {
	return s == UserStatusAvailable || s == UserStatusNotAvailable
}

// CallStatus tracks a specialist's involvement in a call. It is owned by the
// meeting lifecycle.
type CallStatus string

const (
	CallStatusPaged     CallStatus = "PAGED"
	CallStatusInCall    CallStatus = "IN_CALL"
	CallStatusNotInCall CallStatus = "NOT_IN_CALL"
)

// IsValid checks if the call status is known.
func (s CallStatus) IsValid() bool {
	switch s {
	case CallStatusPaged, CallStatusInCall, CallStatusNotInCall:
		return true
	default:
		return false
	}
}
