package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/studybuddy/internal/domain"
)

// TaskStore persists tasks on behalf of the Tracker.
type TaskStore interface {
	LoadAllTasks(ctx context.Context) ([]domain.Task, error)
	SaveTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// SessionStore persists study sessions on behalf of the Tracker.
type SessionStore interface {
	LoadAllSessions(ctx context.Context) ([]domain.StudySession, error)
	SaveSession(ctx context.Context, session domain.StudySession) error
}

// Tracker owns the task and session registries of one user and keeps them in
// sync with the optional stores. Without stores it works purely in memory.
type Tracker struct {
	clock        func() time.Time
	tasks        *TaskRegistry
	sessions     *SessionRegistry
	taskStore    TaskStore
	sessionStore SessionStore
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the source of the current time.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithTaskStore enables task persistence.
func WithTaskStore(store TaskStore) Option {
	return func(t *Tracker) { t.taskStore = store }
}

// WithSessionStore enables session persistence.
func WithSessionStore(store SessionStore) Option {
	return func(t *Tracker) { t.sessionStore = store }
}

// NewTracker creates a Tracker with empty registries.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{clock: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.tasks = NewTaskRegistry(t.clock)
	t.sessions = NewSessionRegistry(t.clock)
	return t
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

// Tasks exposes the task registry for queries.
func (t *Tracker) Tasks() *TaskRegistry {
	return t.tasks
}

// Sessions exposes the session registry for queries.
func (t *Tracker) Sessions() *SessionRegistry {
	return t.sessions
}

// Load seeds the registries from the configured stores. Call once at startup.
func (t *Tracker) Load(ctx context.Context) error {
	if t.taskStore != nil {
		tasks, err := t.taskStore.LoadAllTasks(ctx)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		t.tasks.Load(tasks)
		slog.Info("tasks loaded", "count", len(tasks))
	}

	if t.sessionStore != nil {
		sessions, err := t.sessionStore.LoadAllSessions(ctx)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		t.sessions.Load(sessions)
		slog.Info("study sessions loaded", "count", len(sessions))
	}

	return nil
}

// CreateTask creates and persists a new task.
func (t *Tracker) CreateTask(ctx context.Context, params CreateTaskParams) (domain.Task, error) {
	task, err := t.tasks.Create(params)
	if err != nil {
		return domain.Task{}, err
	}

	if t.taskStore != nil {
		if err := t.taskStore.SaveTask(ctx, task); err != nil {
			t.tasks.Delete(task.ID)
			return domain.Task{}, fmt.Errorf("save task %s: %w", task.ID, err)
		}
	}

	slog.Info("task created",
		"task_id", task.ID,
		"subject", task.Subject,
		"priority", task.Priority,
	)

	return task, nil
}

// UpdateTaskStatus transitions a task and persists the result.
// The bool is false if the task does not exist.
func (t *Tracker) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (domain.Task, bool, error) {
	if !status.IsValid() {
		return domain.Task{}, false, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	prev, ok := t.tasks.Get(id)
	if !ok {
		return domain.Task{}, false, nil
	}

	updated, ok := t.tasks.UpdateStatus(id, status)
	if !ok {
		return domain.Task{}, false, nil
	}

	if t.taskStore != nil {
		if err := t.taskStore.SaveTask(ctx, updated); err != nil {
			t.tasks.restore(prev, t.tasks.position(id))
			return domain.Task{}, true, fmt.Errorf("save task %s: %w", id, err)
		}
	}

	slog.Info("task status changed",
		"task_id", id,
		"old_status", prev.Status,
		"new_status", updated.Status,
	)

	return updated, true, nil
}

// DeleteTask removes a task and reports whether it existed.
func (t *Tracker) DeleteTask(ctx context.Context, id string) (bool, error) {
	prev, ok := t.tasks.Get(id)
	if !ok {
		return false, nil
	}
	position := t.tasks.position(id)

	if !t.tasks.Delete(id) {
		return false, nil
	}

	if t.taskStore != nil {
		if err := t.taskStore.DeleteTask(ctx, id); err != nil {
			t.tasks.restore(prev, position)
			return false, fmt.Errorf("delete task %s: %w", id, err)
		}
	}

	slog.Info("task deleted", "task_id", id)

	return true, nil
}

// StartSession starts and persists a study session.
func (t *Tracker) StartSession(ctx context.Context, subject string) (domain.StudySession, error) {
	session, err := t.sessions.Start(subject)
	if err != nil {
		return domain.StudySession{}, err
	}

	if t.sessionStore != nil {
		if err := t.sessionStore.SaveSession(ctx, session); err != nil {
			t.sessions.replace(session.ID, domain.StudySession{})
			return domain.StudySession{}, fmt.Errorf("save session %s: %w", session.ID, err)
		}
	}

	slog.Info("study session started",
		"session_id", session.ID,
		"subject", session.Subject,
	)

	return session, nil
}

// EndSession ends and persists a study session.
// The bool is false if the session does not exist or has already ended.
func (t *Tracker) EndSession(ctx context.Context, id, notes string, productive bool) (domain.StudySession, bool, error) {
	prev, ok := t.sessions.Get(id)
	if !ok {
		return domain.StudySession{}, false, nil
	}

	ended, ok := t.sessions.End(id, notes, productive)
	if !ok {
		return domain.StudySession{}, false, nil
	}

	if t.sessionStore != nil {
		if err := t.sessionStore.SaveSession(ctx, ended); err != nil {
			t.sessions.replace(id, prev)
			return domain.StudySession{}, true, fmt.Errorf("save session %s: %w", id, err)
		}
	}

	duration, _ := ended.Duration()
	slog.Info("study session ended",
		"session_id", id,
		"subject", ended.Subject,
		"duration", duration.String(),
		"productive", ended.Productive,
	)

	return ended, true, nil
}

// Streak returns the current study streak in days.
func (t *Tracker) Streak() int {
	return CalculateStreak(t.sessions.StartTimes(), t.clock())
}

// Reminder returns the reminder message for the current state.
func (t *Tracker) Reminder() string {
	return ReminderMessage(t.sessions.Len(), t.Streak())
}

// SubjectTime is the total study time spent on one subject.
type SubjectTime struct {
	Subject  string
	Duration time.Duration
}

// Statistics summarizes study habits and task backlog.
type Statistics struct {
	CompletedSessions  int
	TotalStudyTime     time.Duration
	SessionsToday      int
	ProductiveSessions int
	// ProductivityRate is the truncated percentage of completed sessions marked productive.
	ProductivityRate int
	BySubject        []SubjectTime
	ActiveSession    *domain.StudySession
	Streak           int
	PendingTasks     int
	OverdueTasks     int
}

// Statistics computes the current Statistics.
func (t *Tracker) Statistics() Statistics {
	stats := Statistics{
		CompletedSessions:  len(t.sessions.Ended()),
		TotalStudyTime:     t.sessions.TotalDuration(),
		ProductiveSessions: len(t.sessions.Productive()),
		Streak:             t.Streak(),
		PendingTasks:       len(t.tasks.Pending()),
		OverdueTasks:       len(t.tasks.Overdue()),
	}

	for _, s := range t.sessions.Today() {
		if !s.IsActive() {
			stats.SessionsToday++
		}
	}

	if stats.CompletedSessions > 0 {
		stats.ProductivityRate = stats.ProductiveSessions * 100 / stats.CompletedSessions
	}

	for _, subject := range t.sessions.Subjects() {
		stats.BySubject = append(stats.BySubject, SubjectTime{
			Subject:  subject,
			Duration: t.sessions.TotalDurationBySubject(subject),
		})
	}

	if active, ok := t.sessions.Active(); ok {
		stats.ActiveSession = &active
	}

	return stats
}
