package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the status of a task in the state machine.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsTerminal returns true for COMPLETED and CANCELLED.
// Terminal is a convention only: transitions out of these statuses are allowed.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts user input into a TaskStatus, ignoring case and surrounding space.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Rank orders priorities from most to least pressing: URGENT=0 ... LOW=3.
// Unknown priorities rank after LOW.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityUrgent:
		return 0
	case TaskPriorityHigh:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 3
	default:
		return 4
	}
}

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	return p.Rank() < 4
}

// ParsePriority converts user input into a TaskPriority. Empty input yields MEDIUM.
func ParsePriority(s string) (TaskPriority, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TaskPriorityMedium, nil
	}
	priority := TaskPriority(strings.ToUpper(trimmed))
	if !priority.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

// Task represents an academic task. Tasks are values: transitions return a modified copy.
type Task struct {
	ID          string
	Title       string
	Description string
	Subject     string
	Priority    TaskPriority
	Deadline    *time.Time
	Status      TaskStatus
	CreatedAt   time.Time
	// CompletedAt is set whenever the task is moved to COMPLETED and is kept
	// if the task later leaves that status.
	CompletedAt *time.Time
}

// MarkCompleted returns a copy of the task completed at now.
func (t Task) MarkCompleted(now time.Time) Task {
	completedAt := now
	t.Status = TaskStatusCompleted
	t.CompletedAt = &completedAt
	return t
}

// WithStatus returns a copy of the task in the new status.
func (t Task) WithStatus(status TaskStatus, now time.Time) Task {
	if status == TaskStatusCompleted {
		return t.MarkCompleted(now)
	}
	t.Status = status
	return t
}

// IsOverdue reports whether the deadline has passed and the task is not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && t.Status != TaskStatusCompleted
}

// IsPending reports whether the task still needs work.
func (t Task) IsPending() bool {
	return !t.Status.IsTerminal()
}
