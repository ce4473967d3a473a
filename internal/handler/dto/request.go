package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Priority    string     `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateStatusRequest represents the request body for PATCH /tasks/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// StartSessionRequest represents the request body for POST /sessions.
type StartSessionRequest struct {
	Subject string `json:"subject"`
}

// EndSessionRequest represents the request body for POST /sessions/:id/end.
// Productive defaults to true when omitted.
type EndSessionRequest struct {
	Notes      string `json:"notes"`
	Productive *bool  `json:"productive,omitempty"`
}
