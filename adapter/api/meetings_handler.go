package api

import (
	"net/http"
	"strconv"

	meetingCommands "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

type joinMeetingRequest struct {
	PhoneNumber       string                   `json:"phone_number"`
	MeetingID         string                   `json:"meeting_id"`
	ExternalMeetingID string                   `json:"external_meeting_id"`
	ExternalUserID    string                   `json:"external_user_id"`
	Location          *meetingsDomain.Location `json:"location"`
	Username          string                   `json:"username"`
	AttendeeType      string                   `json:"attendee_type"`
}

// handleJoinMeeting handles POST /api/v1/meetings/join
func (s *Server) handleJoinMeeting(w http.ResponseWriter, r *http.Request) {
	var req joinMeetingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	descriptor, err := s.handlers.JoinMeeting.Handle(r.Context(), meetingCommands.JoinMeetingCommand{
		PhoneNumber:       req.PhoneNumber,
		MeetingID:         req.MeetingID,
		ExternalMeetingID: req.ExternalMeetingID,
		ExternalUserID:    req.ExternalUserID,
		Location:          req.Location,
		Username:          req.Username,
		AttendeeType:      meetingsDomain.AttendeeType(req.AttendeeType),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, descriptor)
}

// handleListMeetings handles GET /api/v1/meetings
func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := meetingQueries.ListMeetingsQuery{
		Status: meetingsDomain.Status(q.Get("status")),
		Phone:  q.Get("phone"),
		Limit:  parseIntParam(r, "limit", 0),
	}

	meetings, err := s.handlers.ListMeetings.Handle(r.Context(), query)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meetings": meetings,
		"count":    len(meetings),
	})
}

// handleGetMeeting handles GET /api/v1/meetings/{id}
func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	snap, err := s.handlers.GetMeeting.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type annotateMeetingRequest struct {
	Title    string `json:"meeting_title"`
	Comments string `json:"meeting_comments"`
}

// handleAnnotateMeeting handles PATCH /api/v1/meetings/{id}
func (s *Server) handleAnnotateMeeting(w http.ResponseWriter, r *http.Request) {
	var req annotateMeetingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	m, err := s.handlers.AnnotateMeeting.Handle(r.Context(), meetingCommands.AnnotateMeetingCommand{
		MeetingID: r.PathValue("id"),
		Title:     req.Title,
		Comments:  req.Comments,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

// handleEndMeeting handles POST /api/v1/meetings/{id}/end
func (s *Server) handleEndMeeting(w http.ResponseWriter, r *http.Request) {
	m, err := s.handlers.EndMeeting.Handle(r.Context(), meetingCommands.EndMeetingCommand{
		MeetingID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

// handleKickAttendee handles POST /api/v1/meetings/{id}/attendees/{attendeeID}/kick
func (s *Server) handleKickAttendee(w http.ResponseWriter, r *http.Request) {
	m, err := s.handlers.KickAttendee.Handle(r.Context(), meetingCommands.KickAttendeeCommand{
		MeetingID:  r.PathValue("id"),
		AttendeeID: r.PathValue("attendeeID"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

type pageSpecialistRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type pageSpecialistResponse struct {
	Meeting    meetingsDomain.Snapshot `json:"meeting"`
	AttendeeID string                  `json:"attendee_id"`
	SMSSent    bool                    `json:"sms_sent"`
	EmailSent  bool                    `json:"email_sent"`
}

// handlePageSpecialist handles POST /api/v1/meetings/{externalID}/page
func (s *Server) handlePageSpecialist(w http.ResponseWriter, r *http.Request) {
	var req pageSpecialistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := s.handlers.PageSpecialist.Handle(r.Context(), meetingCommands.PageSpecialistCommand{
		PhoneNumber:       req.PhoneNumber,
		ExternalMeetingID: r.PathValue("externalID"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageSpecialistResponse{
		Meeting:    result.Meeting.Snapshot(),
		AttendeeID: result.AttendeeID,
		SMSSent:    result.SMSSent,
		EmailSent:  result.EmailSent,
	})
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return defaultVal
}
