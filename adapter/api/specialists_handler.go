package api

import (
	"net/http"

	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	specialistsDomain "github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

type registerSpecialistRequest struct {
	PhoneNumber  string                         `json:"phone_number"`
	FirstName    string                         `json:"first_name"`
	LastName     string                         `json:"last_name"`
	Email        string                         `json:"email"`
	Organization string                         `json:"organization"`
	Occupation   string                         `json:"occupation"`
	Notes        string                         `json:"notes"`
	PictureURL   string                         `json:"profile_picture"`
	Location     *specialistsDomain.Coordinates `json:"location"`
	Availability specialistsDomain.Availability `json:"availability"`
}

// handleListSpecialists handles GET /api/v1/specialists
func (s *Server) handleListSpecialists(w http.ResponseWriter, r *http.Request) {
	list, err := s.handlers.ListSpecialists.Handle(r.Context(), specialistQueries.ListSpecialistsQuery{
		Status: specialistsDomain.UserStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"specialists": list,
		"count":       len(list),
	})
}

// handleRegisterSpecialist handles POST /api/v1/specialists
func (s *Server) handleRegisterSpecialist(w http.ResponseWriter, r *http.Request) {
	var req registerSpecialistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	p, err := s.handlers.RegisterSpecialist.Handle(r.Context(), specialistCommands.RegisterSpecialistCommand{
		Details: specialistsDomain.Details{
			PhoneNumber:  req.PhoneNumber,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Organization: req.Organization,
			Occupation:   req.Occupation,
			Notes:        req.Notes,
			PictureURL:   req.PictureURL,
			Location:     req.Location,
		},
		Availability: req.Availability,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, specialistQueries.ToDTO(p))
}

// handleGetSpecialist handles GET /api/v1/specialists/{phone}
func (s *Server) handleGetSpecialist(w http.ResponseWriter, r *http.Request) {
	dto, err := s.handlers.GetSpecialist.Handle(r.Context(), r.PathValue("phone"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

type updateUserStatusRequest struct {
	// UserStatus is optional; omitting it recomputes from the schedule.
	UserStatus *specialistsDomain.UserStatus `json:"user_status"`
}

// handleUpdateUserStatus handles PUT /api/v1/specialists/{phone}/status
func (s *Server) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req updateUserStatusRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	p, err := s.handlers.UpdateUserStatus.Handle(r.Context(), specialistCommands.UpdateUserStatusCommand{
		PhoneNumber: r.PathValue("phone"),
		Status:      req.UserStatus,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, specialistQueries.ToDTO(p))
}
