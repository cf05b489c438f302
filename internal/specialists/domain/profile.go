package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/UBC-CIC/first-responder-admin/internal/shared/domain"
)

// Coordinates is a specialist's reported position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Details is the directory information of a specialist.
type Details struct {
	PhoneNumber  string
	FirstName    string
	LastName     string
	Email        string
	Organization string
	Occupation   string
	Notes        string
	PictureURL   string
	Location     *Coordinates
}

// Profile is an on-call specialist keyed by phone number.
type Profile struct {
	sharedDomain.BaseEntity
	details      Details
	availability Availability
	userStatus   UserStatus
	callStatus   CallStatus
}

// NewProfile creates a specialist who is not in a call. The initial user
// status is resolved from the availability at now.
func NewProfile(details Details, availability Availability, now time.Time) (*Profile, error) {
	details.PhoneNumber = strings.TrimSpace(details.PhoneNumber)
	if details.PhoneNumber == "" {
		return nil, ErrPhoneRequired
	}
	if err := availability.Validate(); err != nil {
		return nil, err
	}

	p := &Profile{
		BaseEntity:   sharedDomain.NewBaseEntity(details.PhoneNumber),
		details:      details,
		availability: availability,
		callStatus:   CallStatusNotInCall,
	}
	p.userStatus = Resolve(p, now)
	return p, nil
}

func (p *Profile) PhoneNumber() string        { return p.ID() }
func (p *Profile) Details() Details           { return p.details }
func (p *Profile) Availability() Availability { return p.availability }
func (p *Profile) UserStatus() UserStatus     { return p.userStatus }
func (p *Profile) CallStatus() CallStatus     { return p.callStatus }

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.details.FirstName + " " + p.details.LastName)
}

// SetUserStatus sets the status manually. OFFLINE set here is sticky.
func (p *Profile) SetUserStatus(status UserStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	p.userStatus = status
	p.Touch()
	return nil
}

// SetCallStatus records the call lifecycle state.
func (p *Profile) SetCallStatus(status CallStatus) error {
	if !status.IsValid() {
		return ErrInvalidCallStatus
	}
	p.callStatus = status
	p.Touch()
	return nil
}

// SetAvailability replaces overrides and schedules. The user status is not
// recomputed until the next refresh.
func (p *Profile) SetAvailability(a Availability) error {
	if err := a.Validate(); err != nil {
		return err
	}
	p.availability = a
	p.Touch()
	return nil
}

// Recompute resolves the status from the schedule regardless of any manual
// status, clearing a sticky OFFLINE.
func (p *Profile) Recompute(now time.Time) {
	p.userStatus = Resolve(p, now)
	p.Touch()
}

// Refresh applies the scheduled status unless the specialist is OFFLINE. It
// reports whether the status changed.
func (p *Profile) Refresh(now time.Time) (bool, []SkippedSchedule) {
	if !p.userStatus.IsScheduled() {
		return false, nil
	}
	next, skipped := Evaluate(p.availability, now)
	if next == p.userStatus {
		return false, skipped
	}
	p.userStatus = next
	p.Touch()
	return true, skipped
}

// RehydrateProfile recreates a profile from persisted state.
func RehydrateProfile(
	details Details,
	availability Availability,
	userStatus UserStatus,
	callStatus CallStatus,
	createdAt time.Time,
	updatedAt time.Time,
) *Profile {
	return &Profile{
		BaseEntity:   sharedDomain.RehydrateBaseEntity(details.PhoneNumber, createdAt, updatedAt),
		details:      details,
		availability: availability,
		userStatus:   userStatus,
		callStatus:   callStatus,
	}
}
