// Package api serves the telephony gateway, provider webhooks and the
// operator HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	directoryDomain "github.com/UBC-CIC/first-responder-admin/internal/directory/domain"
	meetingCommands "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/commands"
	meetingQueries "github.com/UBC-CIC/first-responder-admin/internal/meetings/application/queries"
	specialistCommands "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/commands"
	specialistQueries "github.com/UBC-CIC/first-responder-admin/internal/specialists/application/queries"
	telephonyApp "github.com/UBC-CIC/first-responder-admin/internal/telephony/application"
	telephonyDomain "github.com/UBC-CIC/first-responder-admin/internal/telephony/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// WebhookReceiver verifies and decodes provider lifecycle deliveries.
type WebhookReceiver interface {
	Receive(r *http.Request) (telephonyDomain.LifecycleEvent, error)
}

// Handlers are the application entry points the server exposes.
type Handlers struct {
	Router    *telephonyApp.Router
	Webhooks  WebhookReceiver
	Lifecycle *meetingCommands.LifecycleHandler

	JoinMeeting     *meetingCommands.JoinMeetingHandler
	EndMeeting      *meetingCommands.EndMeetingHandler
	KickAttendee    *meetingCommands.KickAttendeeHandler
	AnnotateMeeting *meetingCommands.AnnotateMeetingHandler
	PageSpecialist  *meetingCommands.PageSpecialistHandler
	ListMeetings    *meetingQueries.ListMeetingsHandler
	GetMeeting      *meetingQueries.GetMeetingHandler

	RegisterSpecialist *specialistCommands.RegisterSpecialistHandler
	UpdateUserStatus   *specialistCommands.UpdateUserStatusHandler
	ListSpecialists    *specialistQueries.ListSpecialistsHandler
	GetSpecialist      *specialistQueries.GetSpecialistHandler

	FirstResponders directoryDomain.FirstResponderRepository
	ServiceDesk     directoryDomain.ServiceDeskRepository

	Health  *observability.HealthRegistry
	Metrics *observability.InMemoryMetrics
}

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	handlers Handlers
	limiter  *ClientRateLimiter
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// JoinRateLimit is the sustained data-join rate per client, per second.
	JoinRateLimit float64
	JoinRateBurst int
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          "0.0.0.0:8080",
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		JoinRateLimit: 5,
		JoinRateBurst: 10,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		handlers: handlers,
		limiter:  NewClientRateLimiter(cfg.JoinRateLimit, cfg.JoinRateBurst),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Telephony gateway and provider webhooks
	s.mux.HandleFunc("POST /telephony/create", s.handleTelephony(telephonyApp.FlowCreate))
	s.mux.HandleFunc("POST /telephony/join", s.handleTelephony(telephonyApp.FlowJoin))
	s.mux.HandleFunc("POST /webhooks/provider", s.handleProviderWebhook)

	// Meetings
	s.mux.Handle("POST /api/v1/meetings/join", s.limiter.Limit(http.HandlerFunc(s.handleJoinMeeting)))
	s.mux.HandleFunc("GET /api/v1/meetings", s.handleListMeetings)
	s.mux.HandleFunc("GET /api/v1/meetings/{id}", s.handleGetMeeting)
	s.mux.HandleFunc("PATCH /api/v1/meetings/{id}", s.handleAnnotateMeeting)
	s.mux.HandleFunc("POST /api/v1/meetings/{id}/end", s.handleEndMeeting)
	s.mux.HandleFunc("POST /api/v1/meetings/{id}/attendees/{attendeeID}/kick", s.handleKickAttendee)
	s.mux.HandleFunc("POST /api/v1/meetings/{externalID}/page", s.handlePageSpecialist)

	// Specialists
	s.mux.HandleFunc("GET /api/v1/specialists", s.handleListSpecialists)
	s.mux.HandleFunc("POST /api/v1/specialists", s.handleRegisterSpecialist)
	s.mux.HandleFunc("GET /api/v1/specialists/{phone}", s.handleGetSpecialist)
	s.mux.HandleFunc("PUT /api/v1/specialists/{phone}/status", s.handleUpdateUserStatus)

	// Directories
	s.mux.HandleFunc("GET /api/v1/first-responders", s.handleListFirstResponders)
	s.mux.HandleFunc("POST /api/v1/first-responders", s.handleCreateFirstResponder)
	s.mux.HandleFunc("GET /api/v1/service-desk", s.handleListServiceDesk)
	s.mux.HandleFunc("POST /api/v1/service-desk", s.handleCreateServiceDesk)
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return requestContext(s.logger, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.handlers.Health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": string(observability.HealthStatusHealthy),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	health := s.handlers.Health.Check(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.handlers.Metrics == nil {
		writeJSON(w, http.StatusOK, observability.MetricsSnapshot{})
		return
	}
	writeJSON(w, http.StatusOK, s.handlers.Metrics.Snapshot())
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON but leaves dst untouched on an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &APIError{Status: http.StatusBadRequest, Code: "bad_request", Message: err.Error()}
	}
	return nil
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
