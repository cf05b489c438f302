package domain

import "errors"

var (
	ErrProfileNotFound   = errors.New("specialist profile not found")
	ErrProfileExists     = errors.New("specialist profile already exists")
	ErrPhoneRequired     = errors.New("phone number is required")
	ErrInvalidStatus     = errors.New("invalid user status")
	ErrInvalidCallStatus = errors.New("invalid call status")
	ErrInvalidRange      = errors.New("invalid availability range")
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 and 6")
	ErrUnknownTimezone   = errors.New("unknown time zone")
	ErrStoreUnavailable  = errors.New("specialist store unavailable")
)
