package service

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/studybuddy/internal/domain"
)

// CreateTaskParams holds the user-supplied fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description string
	Subject     string
	Priority    domain.TaskPriority
	Deadline    *time.Time
}

// TaskRegistry is the in-memory, insertion-ordered collection of tasks.
// Returned tasks are snapshots; the registry owns the authoritative copies.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks []domain.Task
	clock func() time.Time
	newID func() string
}

// NewTaskRegistry creates an empty TaskRegistry. A nil clock defaults to time.Now.
func NewTaskRegistry(clock func() time.Time) *TaskRegistry {
	if clock == nil {
		clock = time.Now
	}
	return &TaskRegistry{
		clock: clock,
		newID: uuid.NewString,
	}
}

// Load replaces the registry contents with previously persisted tasks.
func (r *TaskRegistry) Load(tasks []domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = slices.Clone(tasks)
}

// Create validates the params and appends a new TODO task.
func (r *TaskRegistry) Create(params CreateTaskParams) (domain.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return domain.Task{}, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyTitle)
	}
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return domain.Task{}, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptySubject)
	}

	priority := params.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return domain.Task{}, fmt.Errorf("%w: %w: %q", domain.ErrValidation, domain.ErrInvalidPriority, priority)
	}

	var deadline *time.Time
	if params.Deadline != nil {
		d := *params.Deadline
		deadline = &d
	}

	task := domain.Task{
		ID:          r.newID(),
		Title:       title,
		Description: params.Description,
		Subject:     subject,
		Priority:    priority,
		Deadline:    deadline,
		Status:      domain.TaskStatusTodo,
		CreatedAt:   r.clock(),
	}

	r.mu.Lock()
	r.tasks = append(r.tasks, task)
	r.mu.Unlock()

	return task, nil
}

// Get returns the task with the given id.
func (r *TaskRegistry) Get(id string) (domain.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i], true
	}
	return domain.Task{}, false
}

// All returns every task in creation order.
func (r *TaskRegistry) All() []domain.Task {
	return r.filter(func(domain.Task) bool { return true })
}

// ByStatus returns tasks in the given status.
func (r *TaskRegistry) ByStatus(status domain.TaskStatus) []domain.Task {
	return r.filter(func(t domain.Task) bool { return t.Status == status })
}

// BySubject returns tasks whose subject matches, ignoring case.
func (r *TaskRegistry) BySubject(subject string) []domain.Task {
	return r.filter(func(t domain.Task) bool { return strings.EqualFold(t.Subject, subject) })
}

// Pending returns tasks that are neither completed nor cancelled.
func (r *TaskRegistry) Pending() []domain.Task {
	return r.filter(domain.Task.IsPending)
}

// Overdue returns tasks past their deadline that are not completed.
func (r *TaskRegistry) Overdue() []domain.Task {
	now := r.clock()
	return r.filter(func(t domain.Task) bool { return t.IsOverdue(now) })
}

// SortedByPriority returns all tasks ordered URGENT, HIGH, MEDIUM, LOW.
// Tasks of equal priority keep their creation order.
func (r *TaskRegistry) SortedByPriority() []domain.Task {
	tasks := r.All()
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return tasks
}

// SortedByDeadline returns all tasks by ascending deadline; tasks without one come last.
func (r *TaskRegistry) SortedByDeadline() []domain.Task {
	tasks := r.All()
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return 0
		case a.Deadline == nil:
			return 1
		case b.Deadline == nil:
			return -1
		default:
			return a.Deadline.Compare(*b.Deadline)
		}
	})
	return tasks
}

// UpdateStatus moves the task to a new status and stores the result in place.
// Returns false if no task has the given id.
func (r *TaskRegistry) UpdateStatus(id string, status domain.TaskStatus) (domain.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	r.tasks[i] = r.tasks[i].WithStatus(status, r.clock())
	return r.tasks[i], true
}

// Delete removes the task and reports whether it existed.
func (r *TaskRegistry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.tasks = slices.Delete(r.tasks, i, i+1)
	return true
}

// restore puts a task back at its former position, or replaces it if present.
func (r *TaskRegistry) restore(task domain.Task, position int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(task.ID); i >= 0 {
		r.tasks[i] = task
		return
	}
	position = min(max(position, 0), len(r.tasks))
	r.tasks = slices.Insert(r.tasks, position, task)
}

// position returns the index of the task, or -1.
func (r *TaskRegistry) position(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id)
}

// indexOf must be called with the lock held.
func (r *TaskRegistry) indexOf(id string) int {
	return slices.IndexFunc(r.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (r *TaskRegistry) filter(keep func(domain.Task) bool) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}
