package dto

import (
	"time"

	"github.com/mtlprog/studybuddy/internal/domain"
	"github.com/mtlprog/studybuddy/internal/service"
)

// TaskResponse represents a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	IsOverdue   bool       `json:"is_overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// SessionResponse represents a study session.
type SessionResponse struct {
	ID              string     `json:"id"`
	Subject         string     `json:"subject"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Notes           string     `json:"notes"`
	Productive      bool       `json:"productive"`
	IsActive        bool       `json:"is_active"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// SessionsListResponse represents the response for GET /sessions.
type SessionsListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

// StatsResponse represents study statistics.
type StatsResponse struct {
	CompletedSessions       int              `json:"completed_sessions"`
	TotalStudyMinutes       int              `json:"total_study_minutes"`
	SessionsToday           int              `json:"sessions_today"`
	ProductiveSessions      int              `json:"productive_sessions"`
	ProductivityRatePercent int              `json:"productivity_rate_percent"`
	BySubject               []SubjectStats   `json:"by_subject"`
	ActiveSession           *SessionResponse `json:"active_session"`
	StreakDays              int              `json:"streak_days"`
	PendingTasks            int              `json:"pending_tasks"`
	OverdueTasks            int              `json:"overdue_tasks"`
}

// SubjectStats represents total study time on one subject.
type SubjectStats struct {
	Subject      string `json:"subject"`
	StudyMinutes int    `json:"study_minutes"`
}

// StreakResponse represents the response for GET /streak.
type StreakResponse struct {
	Days int `json:"days"`
}

// ReminderResponse represents the response for GET /reminder.
type ReminderResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Subject:     task.Subject,
		Priority:    string(task.Priority),
		Deadline:    task.Deadline,
		Status:      string(task.Status),
		IsOverdue:   task.IsOverdue(now),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTasksListResponse converts a task slice to TasksListResponse.
func ToTasksListResponse(tasks []domain.Task, now time.Time) TasksListResponse {
	resp := TasksListResponse{
		Tasks: make([]TaskResponse, len(tasks)),
		Total: len(tasks),
	}
	for i, task := range tasks {
		resp.Tasks[i] = ToTaskResponse(task, now)
	}
	return resp
}

// ToSessionResponse converts domain.StudySession to SessionResponse.
func ToSessionResponse(session domain.StudySession) SessionResponse {
	resp := SessionResponse{
		ID:         session.ID,
		Subject:    session.Subject,
		StartTime:  session.StartTime,
		EndTime:    session.EndTime,
		Notes:      session.Notes,
		Productive: session.Productive,
		IsActive:   session.IsActive(),
	}
	if d, ok := session.Duration(); ok {
		minutes := int(d.Minutes())
		resp.DurationMinutes = &minutes
	}
	return resp
}

// ToSessionsListResponse converts a session slice to SessionsListResponse.
func ToSessionsListResponse(sessions []domain.StudySession) SessionsListResponse {
	resp := SessionsListResponse{
		Sessions: make([]SessionResponse, len(sessions)),
		Total:    len(sessions),
	}
	for i, session := range sessions {
		resp.Sessions[i] = ToSessionResponse(session)
	}
	return resp
}

// ToStatsResponse converts service.Statistics to StatsResponse.
func ToStatsResponse(stats service.Statistics) StatsResponse {
	resp := StatsResponse{
		CompletedSessions:       stats.CompletedSessions,
		TotalStudyMinutes:       int(stats.TotalStudyTime.Minutes()),
		SessionsToday:           stats.SessionsToday,
		ProductiveSessions:      stats.ProductiveSessions,
		ProductivityRatePercent: stats.ProductivityRate,
		BySubject:               make([]SubjectStats, len(stats.BySubject)),
		StreakDays:              stats.Streak,
		PendingTasks:            stats.PendingTasks,
		OverdueTasks:            stats.OverdueTasks,
	}
	for i, st := range stats.BySubject {
		resp.BySubject[i] = SubjectStats{
			Subject:      st.Subject,
			StudyMinutes: int(st.Duration.Minutes()),
		}
	}
	if stats.ActiveSession != nil {
		active := ToSessionResponse(*stats.ActiveSession)
		resp.ActiveSession = &active
	}
	return resp
}
