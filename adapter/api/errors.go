package api

import (
	"errors"
	"net/http"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	meetingsDomain "github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	notificationsDomain "github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{meetingsDomain.ErrMeetingNotFound, http.StatusNotFound, "meeting_not_found"},
	{meetingsDomain.ErrAttendeeNotFound, http.StatusNotFound, "attendee_not_found"},
	{specialistsDomain.ErrProfileNotFound, http.StatusNotFound, "specialist_not_found"},
	{telephonyDomain.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},

	{meetingsDomain.ErrMeetingClosed, http.StatusConflict, "meeting_closed"},
	{meetingsDomain.ErrAttendeeNotInCall, http.StatusConflict, "attendee_not_in_call"},
	{meetingsDomain.ErrAttendeeKicked, http.StatusConflict, "attendee_kicked"},
	{meetingsDomain.ErrAttendeeInCall, http.StatusConflict, "attendee_in_call"},
	{meetingsDomain.ErrExternalIDTaken, http.StatusConflict, "external_id_taken"},
	{meetingsDomain.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{specialistsDomain.ErrProfileExists, http.StatusConflict, "specialist_exists"},
	{directoryDomain.ErrProfileExists, http.StatusConflict, "profile_exists"},

	{meetingsDomain.ErrMeetingIDRequired, http.StatusBadRequest, "meeting_id_required"},
	{meetingsDomain.ErrExternalIDRequired, http.StatusBadRequest, "external_id_required"},
	{meetingsDomain.ErrPhoneRequired, http.StatusBadRequest, "phone_required"},
	{meetingsDomain.ErrUsernameRequired, http.StatusBadRequest, "username_required"},
	{meetingsDomain.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{meetingsDomain.ErrInvalidJoinType, http.StatusBadRequest, "invalid_join_type"},
	{meetingsDomain.ErrInvalidAttendeeState, http.StatusBadRequest, "invalid_attendee_state"},
	{meetingsDomain.ErrInvalidAttendeeType, http.StatusBadRequest, "invalid_attendee_type"},
	{specialistsDomain.ErrPhoneRequired, http.StatusBadRequest, "phone_required"},
	{specialistsDomain.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{specialistsDomain.ErrInvalidCallStatus, http.StatusBadRequest, "invalid_call_status"},
	{specialistsDomain.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
	{specialistsDomain.ErrInvalidDayOfWeek, http.StatusBadRequest, "invalid_day_of_week"},
	{directoryDomain.ErrPhoneRequired, http.StatusBadRequest, "phone_required"},
	{directoryDomain.ErrUsernameRequired, http.StatusBadRequest, "username_required"},

	{telephonyDomain.ErrSessionCreationFailed, http.StatusBadGateway, "session_creation_failed"},
	{telephonyDomain.ErrProviderUnavailable, http.StatusServiceUnavailable, "provider_unavailable"},
	{meetingsDomain.ErrIDSpaceExhausted, http.StatusServiceUnavailable, "id_space_exhausted"},
	{meetingsDomain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
	{specialistsDomain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
	{notificationsDomain.ErrNotifierUnavailable, http.StatusServiceUnavailable, "notifier_unavailable"},
}

// writeDomainError maps an application error to a status code. Unknown
// errors are logged and reported as 500 without detail.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, apiErr)
		return
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, &APIError{Status: m.status, Code: m.code, Message: err.Error()})
			return
		}
	}
	s.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	})
}
