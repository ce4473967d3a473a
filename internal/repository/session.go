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

var sessionColumns = []string{
	"id", "subject", "start_time", "end_time", "notes", "productive",
}

// SessionRepository handles database operations for study sessions.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func scanSession(row pgx.Row) (domain.StudySession, error) {
	var session domain.StudySession
	err := row.Scan(
		&session.ID,
		&session.Subject,
		&session.StartTime,
		&session.EndTime,
		&session.Notes,
		&session.Productive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StudySession{}, domain.ErrSessionNotFound
		}
		return domain.StudySession{}, fmt.Errorf("scan study session: %w", err)
	}
	return session, nil
}

// LoadAllSessions retrieves every study session in start order.
func (r *SessionRepository) LoadAllSessions(ctx context.Context) ([]domain.StudySession, error) {
	query, args, err := psql.
		Select(sessionColumns...).
		From("study_sessions").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build LoadAllSessions query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return sessions, nil
}

// GetByID retrieves a study session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (domain.StudySession, error) {
	query, args, err := psql.
		Select(sessionColumns...).
		From("study_sessions").
		Where(sq.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return domain.StudySession{}, fmt.Errorf("build GetByID query for session %s: %w", sessionID, err)
	}

	return scanSession(r.pool.QueryRow(ctx, query, args...))
}

// SaveSession inserts the session or records its end.
func (r *SessionRepository) SaveSession(ctx context.Context, session domain.StudySession) error {
	query, args, err := psql.
		Insert("study_sessions").
		Columns(sessionColumns...).
		Values(
			session.ID,
			session.Subject,
			session.StartTime,
			session.EndTime,
			session.Notes,
			session.Productive,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			notes = EXCLUDED.notes,
			productive = EXCLUDED.productive`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SaveSession query for session %s: %w", session.ID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save study session: %w", err)
	}

	return nil
}
