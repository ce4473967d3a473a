package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/studybuddy/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "subject", "priority",
	"deadline", "status", "created_at", "completed_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Subject,
		&task.Priority,
		&task.Deadline,
		&task.Status,
		&task.CreatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// LoadAllTasks retrieves every task in creation order.
func (r *TaskRepository) LoadAllTasks(ctx context.Context) ([]domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build LoadAllTasks query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	return scanTasks(rows)
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build GetByID query for task %s: %w", taskID, err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// SaveTask inserts the task or, if it already exists, overwrites its mutable fields.
// The creation position of an existing task is kept.
func (r *TaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	query, args, err := psql.
		Insert("tasks").
		Columns(taskColumns...).
		Values(
			task.ID,
			task.Title,
			task.Description,
			task.Subject,
			task.Priority,
			task.Deadline,
			task.Status,
			task.CreatedAt,
			task.CompletedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			subject = EXCLUDED.subject,
			priority = EXCLUDED.priority,
			deadline = EXCLUDED.deadline,
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SaveTask query for task %s: %w", task.ID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save task: %w", err)
	}

	return nil
}

// DeleteTask removes a task. Returns ErrTaskNotFound if nothing was deleted.
func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build DeleteTask query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
