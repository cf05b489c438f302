package domain

// AttendeeType classifies who an attendee is.
type AttendeeType string

const (
	AttendeeTypeFirstResponder AttendeeType = "FIRST_RESPONDER"
	AttendeeTypeSpecialist     AttendeeType = "SPECIALIST"
	AttendeeTypeServiceDesk    AttendeeType = "SERVICE_DESK"
	AttendeeTypeNotSpecified   AttendeeType = "NOT_SPECIFIED"
)

// IsValid checks if the attendee type is known.
func (t AttendeeType) IsValid() bool {
	switch t {
	case AttendeeTypeFirstResponder, AttendeeTypeSpecialist, AttendeeTypeServiceDesk, AttendeeTypeNotSpecified:
		return true
	default:
		return false
	}
}

// JoinType records how an attendee reached the meeting.
type JoinType string

const (
	JoinTypePSTN JoinType = "PSTN"
	JoinTypeData JoinType = "DATA"
)

// IsValid checks if the join type is known.
func (j JoinType) IsValid() bool {
	return j == JoinTypePSTN || j == JoinTypeData
}

// AttendeeState is the presence state of an attendee.
type AttendeeState string

const (
	AttendeeStatePaged  AttendeeState = "PAGED"
	AttendeeStateInCall AttendeeState = "IN_CALL"
	AttendeeStateLeft   AttendeeState = "LEFT"
	AttendeeStateKicked AttendeeState = "KICKED"
)

// IsValid checks if the state is known.
func (s AttendeeState) IsValid() bool {
	switch s {
	case AttendeeStatePaged, AttendeeStateInCall, AttendeeStateLeft, AttendeeStateKicked:
		return true
	default:
		return false
	}
}

// Location is a caller-reported position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProfileSnapshot is the directory information copied onto an attendee when
// it first joins. Later directory edits do not rewrite it.
type ProfileSnapshot struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
}

// IsZero reports whether no directory information was found.
func (p ProfileSnapshot) IsZero() bool {
	return p == ProfileSnapshot{}
}

// Attendee is a participant of a meeting. Attendees are never removed; they
// move to LEFT or KICKED instead.
type Attendee struct {
	AttendeeID  string        `json:"attendee_id"`
	PhoneNumber string        `json:"phone_number,omitempty"`
	Username    string        `json:"username,omitempty"`
	Type        AttendeeType  `json:"attendee_type"`
	JoinType    JoinType      `json:"attendee_join_type"`
	State       AttendeeState `json:"attendee_state"`
	Location    *Location     `json:"location,omitempty"`
	ProfileSnapshot
}

// IsSpecialist reports whether the attendee was enrolled as a specialist.
func (a Attendee) IsSpecialist() bool {
	return a.Type == AttendeeTypeSpecialist
}
