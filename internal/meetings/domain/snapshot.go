package domain

import "time"

// Snapshot is an immutable copy of a meeting at one version. It is the body
// of published change events and what feed consumers store.
type Snapshot struct {
	MeetingID  string     `json:"meeting_id"`
	ExternalID string     `json:"external_meeting_id"`
	CallID     string     `json:"call_id"`
	Status     Status     `json:"meeting_status"`
	Title      string     `json:"meeting_title,omitempty"`
	Comments   string     `json:"meeting_comments,omitempty"`
	Attendees  []Attendee `json:"attendees"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"create_date_time"`
	UpdatedAt  time.Time  `json:"update_date_time"`
	EndedAt    *time.Time `json:"end_date_time,omitempty"`
}

// Snapshot captures the current state of the meeting.
func (m *Meeting) Snapshot() Snapshot {
	return Snapshot{
		MeetingID:  m.ID(),
		ExternalID: m.externalID,
		CallID:     m.callID,
		Status:     m.status,
		Title:      m.title,
		Comments:   m.comments,
		Attendees:  m.Attendees(),
		Version:    m.Version(),
		CreatedAt:  m.CreatedAt(),
		UpdatedAt:  m.UpdatedAt(),
		EndedAt:    m.endedAt,
	}
}
