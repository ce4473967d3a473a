package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptySubject    = errors.New("subject is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")

	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTransition is reserved: the state machine currently allows every transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Session errors
	ErrSessionNotFound      = errors.New("study session not found")
	ErrSessionAlreadyActive = errors.New("a study session is already active")
	ErrSessionAlreadyEnded  = errors.New("study session already ended")
)
