package handler

import (
	"net/http"

	"github.com/mtlprog/studybuddy/internal/handler/dto"
	"github.com/mtlprog/studybuddy/internal/service"
)

// handleGetStats returns study statistics.
// @Summary Get statistics
// @Description Study time, productivity, streak and task backlog.
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.ToStatsResponse(h.tracker.Statistics()))
}

// handleGetStreak returns the current study streak.
// @Summary Get study streak
// @Tags stats
// @Produce json
// @Success 200 {object} dto.StreakResponse
// @Router /streak [get]
func (h *Handler) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.StreakResponse{Days: h.tracker.Streak()})
}

// handleGetReminder returns the current reminder message.
// @Summary Get reminder
// @Tags stats
// @Produce json
// @Success 200 {object} dto.ReminderResponse
// @Router /reminder [get]
func (h *Handler) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.ReminderResponse{
		Title:   service.ReminderTitle,
		Message: h.tracker.Reminder(),
	})
}
