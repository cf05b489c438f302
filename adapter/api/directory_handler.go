package api

import (
	"net/http"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
)

// handleListFirstResponders handles GET /api/v1/first-responders
func (s *Server) handleListFirstResponders(w http.ResponseWriter, r *http.Request) {
	list, err := s.handlers.FirstResponders.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []directoryDomain.FirstResponder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"first_responders": list, "count": len(list)})
}

// handleCreateFirstResponder handles POST /api/v1/first-responders
func (s *Server) handleCreateFirstResponder(w http.ResponseWriter, r *http.Request) {
	var p directoryDomain.FirstResponder
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.handlers.FirstResponders.Create(r.Context(), p); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleListServiceDesk handles GET /api/v1/service-desk
func (s *Server) handleListServiceDesk(w http.ResponseWriter, r *http.Request) {
	list, err := s.handlers.ServiceDesk.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []directoryDomain.ServiceDeskAgent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"service_desk": list, "count": len(list)})
}

// handleCreateServiceDesk handles POST /api/v1/service-desk
func (s *Server) handleCreateServiceDesk(w http.ResponseWriter, r *http.Request) {
	var p directoryDomain.ServiceDeskAgent
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.handlers.ServiceDesk.Create(r.Context(), p); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
