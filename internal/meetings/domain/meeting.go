package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/UBC-CIC/first-responder-admin/internal/shared/domain"
)

// AggregateType names meetings in published events.
const AggregateType = "Meeting"

// Status is the lifecycle status of a meeting.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusClosed
}

// Meeting is a conference session reachable by phone and by data join. The
// meeting id is the provider session id; the external id is the 8-digit code
// callers dial in with.
type Meeting struct {
	sharedDomain.BaseAggregateRoot
	externalID string
	callID     string
	status     Status
	title      string
	comments   string
	attendees  []Attendee
	endedAt    *time.Time
}

// NewMeeting creates an active meeting with its first attendee.
func NewMeeting(meetingID, externalID, callID string, first Attendee) (*Meeting, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, ErrMeetingIDRequired
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrExternalIDRequired
	}
	if err := validateAttendee(first); err != nil {
		return nil, err
	}

	return &Meeting{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(meetingID),
		externalID:        externalID,
		callID:            callID,
		status:            StatusActive,
		attendees:         []Attendee{first},
	}, nil
}

func (m *Meeting) ExternalID() string  { return m.externalID }
func (m *Meeting) CallID() string      { return m.callID }
func (m *Meeting) Status() Status      { return m.status }
func (m *Meeting) Title() string       { return m.title }
func (m *Meeting) Comments() string    { return m.comments }
func (m *Meeting) EndedAt() *time.Time { return m.endedAt }
func (m *Meeting) IsActive() bool      { return m.status == StatusActive }
func (m *Meeting) AttendeeCount() int  { return len(m.attendees) }

// Attendees returns a copy of the roster.
func (m *Meeting) Attendees() []Attendee {
	out := make([]Attendee, len(m.attendees))
	copy(out, m.attendees)
	return out
}

// AttendeeByID returns the attendee with the given provider id.
func (m *Meeting) AttendeeByID(attendeeID string) (Attendee, bool) {
	if i := m.indexOf(func(a Attendee) bool { return a.AttendeeID == attendeeID }); i >= 0 {
		return m.attendees[i], true
	}
	return Attendee{}, false
}

// HasPhone reports whether an attendee with the phone number is on the roster.
func (m *Meeting) HasPhone(phone string) bool {
	return phone != "" && m.indexOf(byPhone(phone)) >= 0
}

// HasUsername reports whether a service desk attendee with the username is on the roster.
func (m *Meeting) HasUsername(username string) bool {
	return username != "" && m.indexOf(byUsername(username)) >= 0
}

// UpsertByPhone updates the attendee with a.PhoneNumber in place, or appends a
// when the phone is new to the meeting.
func (m *Meeting) UpsertByPhone(a Attendee) error {
	if strings.TrimSpace(a.PhoneNumber) == "" {
		return ErrPhoneRequired
	}
	return m.upsert(byPhone(a.PhoneNumber), a)
}

// UpsertByUsername is UpsertByPhone keyed on the service desk username.
func (m *Meeting) UpsertByUsername(a Attendee) error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrUsernameRequired
	}
	return m.upsert(byUsername(a.Username), a)
}

func (m *Meeting) upsert(match func(Attendee) bool, a Attendee) error {
	if !m.IsActive() {
		return ErrMeetingClosed
	}
	if err := validateAttendee(a); err != nil {
		return err
	}

	i := m.indexOf(match)
	if i < 0 {
		m.attendees = append(m.attendees, a)
		m.Touch()
		return nil
	}

	existing := &m.attendees[i]
	if existing.State == AttendeeStateKicked {
		return ErrAttendeeKicked
	}
	existing.AttendeeID = a.AttendeeID
	existing.JoinType = a.JoinType
	existing.State = a.State
	if a.Location != nil {
		existing.Location = a.Location
	}
	if existing.ProfileSnapshot.IsZero() {
		existing.ProfileSnapshot = a.ProfileSnapshot
	}
	if existing.Type == AttendeeTypeNotSpecified && a.Type != "" {
		existing.Type = a.Type
	}
	m.Touch()
	return nil
}

// AttendeeLeft marks the attendee as LEFT. It is accepted on closed meetings
// so in-flight legs can still be cleaned up. A kicked attendee stays KICKED.
// It reports whether anything changed.
func (m *Meeting) AttendeeLeft(attendeeID string) bool {
	i := m.indexOf(func(a Attendee) bool { return a.AttendeeID == attendeeID })
	if i < 0 {
		return false
	}
	a := &m.attendees[i]
	if a.State == AttendeeStateKicked || a.State == AttendeeStateLeft {
		return false
	}
	a.State = AttendeeStateLeft
	m.Touch()
	return true
}

// Kick moves an in-call attendee to KICKED. Kicking twice is a no-op.
func (m *Meeting) Kick(attendeeID string) error {
	if !m.IsActive() {
		return ErrMeetingClosed
	}
	i := m.indexOf(func(a Attendee) bool { return a.AttendeeID == attendeeID })
	if i < 0 {
		return ErrAttendeeNotFound
	}
	a := &m.attendees[i]
	switch a.State {
	case AttendeeStateKicked:
		return nil
	case AttendeeStateInCall:
		a.State = AttendeeStateKicked
		m.Touch()
		return nil
	default:
		return ErrAttendeeNotInCall
	}
}

// End closes the meeting. It reports false when the meeting was already closed.
func (m *Meeting) End(at time.Time) bool {
	if !m.IsActive() {
		return false
	}
	at = at.UTC()
	m.status = StatusClosed
	m.endedAt = &at
	m.Touch()
	return true
}

// Annotate sets the operator title and comments.
func (m *Meeting) Annotate(title, comments string) {
	m.title = strings.TrimSpace(title)
	m.comments = strings.TrimSpace(comments)
	m.Touch()
}

// Specialists returns specialist attendees with a phone number, optionally
// restricted to one attendee id.
func (m *Meeting) Specialists(attendeeID string) []Attendee {
	out := make([]Attendee, 0)
	for _, a := range m.attendees {
		if !a.IsSpecialist() || a.PhoneNumber == "" {
			continue
		}
		if attendeeID != "" && a.AttendeeID != attendeeID {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (m *Meeting) indexOf(match func(Attendee) bool) int {
	for i := range m.attendees {
		if match(m.attendees[i]) {
			return i
		}
	}
	return -1
}

func byPhone(phone string) func(Attendee) bool {
	return func(a Attendee) bool { return a.PhoneNumber == phone }
}

func byUsername(username string) func(Attendee) bool {
	return func(a Attendee) bool { return a.Username == username }
}

func validateAttendee(a Attendee) error {
	if strings.TrimSpace(a.AttendeeID) == "" {
		return ErrAttendeeIDRequired
	}
	if !a.JoinType.IsValid() {
		return ErrInvalidJoinType
	}
	if !a.State.IsValid() {
		return ErrInvalidAttendeeState
	}
	if a.Type != "" && !a.Type.IsValid() {
		return ErrInvalidAttendeeType
	}
	return nil
}

// RehydrateMeeting recreates a meeting from persisted state.
func RehydrateMeeting(
	meetingID string,
	externalID string,
	callID string,
	status Status,
	title string,
	comments string,
	attendees []Attendee,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
	endedAt *time.Time,
) *Meeting {
	baseEntity := sharedDomain.RehydrateBaseEntity(meetingID, createdAt, updatedAt)
	if attendees == nil {
		attendees = []Attendee{}
	}
	return &Meeting{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version),
		externalID:        externalID,
		callID:            callID,
		status:            status,
		title:             title,
		comments:          comments,
		attendees:         attendees,
		endedAt:           endedAt,
	}
}
