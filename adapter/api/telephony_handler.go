package api

import (
	"io"
	"net/http"

	telephonyApp "github.com/UBC-CIC/first-responder-admin/internal/telephony/application"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
)

// handleTelephony answers gateway invocations. The gateway only understands
// action lists, so every failure is answered with a hangup and 200.
func (s *Server) handleTelephony(flow telephonyApp.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			s.logger.WarnContext(r.Context(), "failed to read call event", "flow", flow.String(), "error", err)
			s.writeActions(w, r, telephonyDomain.HangupResponse(nil))
			return
		}

		inv, err := telephonyDomain.DecodeInvocation(body)
		if err != nil {
			s.logger.WarnContext(r.Context(), "undecodable call event", "flow", flow.String(), "error", err)
			s.writeActions(w, r, telephonyDomain.HangupResponse(nil))
			return
		}
		s.writeActions(w, r, s.handlers.Router.Route(r.Context(), flow, inv))
	}
}

func (s *Server) writeActions(w http.ResponseWriter, r *http.Request, resp telephonyDomain.Response) {
	data, err := telephonyDomain.EncodeResponse(resp)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to encode call response", "error", err)
		data, _ = telephonyDomain.EncodeResponse(telephonyDomain.HangupResponse(nil))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleProviderWebhook applies provider lifecycle notifications. A store
// failure answers 500 so the provider redelivers.
func (s *Server) handleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	event, err := s.handlers.Webhooks.Receive(r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "rejected provider webhook", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid webhook")
		return
	}
	if event.Kind == telephonyDomain.LifecycleIgnored {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.handlers.Lifecycle.Handle(r.Context(), event); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
