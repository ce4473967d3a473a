package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mtlprog/studybuddy/internal/handler/dto"
	"github.com/mtlprog/studybuddy/internal/middleware"
	"github.com/mtlprog/studybuddy/internal/service"
	"github.com/mtlprog/studybuddy/internal/static"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	tracker        *service.Tracker
	db             Pinger
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler. db may be nil when the tracker runs in memory.
func New(tracker *service.Tracker, db Pinger, auth *middleware.AuthMiddleware) *Handler {
	if auth == nil {
		auth = middleware.NewAuthMiddleware("")
	}
	return &Handler{
		tracker:        tracker,
		db:             db,
		authMiddleware: auth,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /api.md", h.handleAPIGuide)

	h.handle(mux, "GET /api/v1/tasks", h.handleListTasks)
	h.handle(mux, "POST /api/v1/tasks", h.handleCreateTask)
	h.handle(mux, "GET /api/v1/tasks/{id}", h.handleGetTask)
	h.handle(mux, "PATCH /api/v1/tasks/{id}/status", h.handleUpdateTaskStatus)
	h.handle(mux, "DELETE /api/v1/tasks/{id}", h.handleDeleteTask)

	h.handle(mux, "GET /api/v1/sessions", h.handleListSessions)
	h.handle(mux, "POST /api/v1/sessions", h.handleStartSession)
	h.handle(mux, "GET /api/v1/sessions/active", h.handleGetActiveSession)
	h.handle(mux, "POST /api/v1/sessions/{id}/end", h.handleEndSession)

	h.handle(mux, "GET /api/v1/stats", h.handleGetStats)
	h.handle(mux, "GET /api/v1/streak", h.handleGetStreak)
	h.handle(mux, "GET /api/v1/reminder", h.handleGetReminder)
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, h.authMiddleware.Authenticate(fn))
}

// handleHealthz returns 200 OK if the database, when configured, is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.Error("database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleAPIGuide serves the embedded API reference.
func (h *Handler) handleAPIGuide(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.APIGuide))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err to a status and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractID extracts and validates the {id} path parameter.
// Returns ("", false) if invalid; the error has already been sent to the client.
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
