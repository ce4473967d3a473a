package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mtlprog/studybuddy/internal/domain"
	"github.com/mtlprog/studybuddy/internal/handler/dto"
)

// handleListSessions lists study sessions.
// @Summary List study sessions
// @Tags sessions
// @Produce json
// @Param subject query string false "Subject, case-insensitive"
// @Param filter query string false "today or productive"
// @Success 200 {object} dto.SessionsListResponse
// @Router /sessions [get]
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	registry := h.tracker.Sessions()

	var sessions []domain.StudySession
	switch filter := query.Get("filter"); filter {
	case "":
		sessions = registry.All()
	case "today":
		sessions = registry.Today()
	case "productive":
		sessions = registry.Productive()
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid filter, must be: today, productive")
		return
	}

	if subject := query.Get("subject"); subject != "" {
		bySubject := make(map[string]bool)
		for _, s := range registry.BySubject(subject) {
			bySubject[s.ID] = true
		}
		filtered := sessions[:0:0]
		for _, s := range sessions {
			if bySubject[s.ID] {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	respondJSON(w, http.StatusOK, dto.ToSessionsListResponse(sessions))
}

// handleStartSession starts a study session.
// @Summary Start study session
// @Description Fails with 409 while another session is active.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Session subject"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sessions [post]
func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req dto.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session, err := h.tracker.StartSession(r.Context(), req.Subject)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToSessionResponse(session))
}

// handleGetActiveSession returns the running session.
// @Summary Get active study session
// @Tags sessions
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/active [get]
func (h *Handler) handleGetActiveSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.tracker.Sessions().Active()
	if !ok {
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "no active study session")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToSessionResponse(session))
}

// handleEndSession ends a study session.
// @Summary End study session
// @Description Unknown or already ended sessions return 404.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.EndSessionRequest false "Notes and productivity"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id}/end [post]
func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	productive := true
	if req.Productive != nil {
		productive = *req.Productive
	}

	session, found, err := h.tracker.EndSession(r.Context(), sessionID, req.Notes, productive)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "no active study session with this id")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToSessionResponse(session))
}
