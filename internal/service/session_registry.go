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

// SessionRegistry is the in-memory, insertion-ordered collection of study sessions.
// At most one session may be active at a time.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions []domain.StudySession
	clock    func() time.Time
	newID    func() string
}

// NewSessionRegistry creates an empty SessionRegistry. A nil clock defaults to time.Now.
func NewSessionRegistry(clock func() time.Time) *SessionRegistry {
	if clock == nil {
		clock = time.Now
	}
	return &SessionRegistry{
		clock: clock,
		newID: uuid.NewString,
	}
}

// Load replaces the registry contents with previously persisted sessions.
// Persisted data is trusted as-is, including more than one active session.
func (r *SessionRegistry) Load(sessions []domain.StudySession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = slices.Clone(sessions)
}

// Start begins a new session on the subject.
// Returns ErrSessionAlreadyActive if another session is still running.
func (r *SessionRegistry) Start(subject string) (domain.StudySession, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.StudySession{}, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptySubject)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.activeIndex(); i >= 0 {
		return domain.StudySession{}, fmt.Errorf("%w: session %s on %s",
			domain.ErrSessionAlreadyActive, r.sessions[i].ID, r.sessions[i].Subject)
	}

	session := domain.StudySession{
		ID:         r.newID(),
		Subject:    subject,
		StartTime:  r.clock(),
		Productive: true,
	}
	r.sessions = append(r.sessions, session)
	return session, nil
}

// End stops the session with the given id.
// Returns false, leaving the registry untouched, if the id is unknown or the session already ended.
func (r *SessionRegistry) End(id, notes string, productive bool) (domain.StudySession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.StudySession{}, false
	}
	ended, err := r.sessions[i].End(notes, productive, r.clock())
	if err != nil {
		return domain.StudySession{}, false
	}
	r.sessions[i] = ended
	return ended, true
}

// Get returns the session with the given id.
func (r *SessionRegistry) Get(id string) (domain.StudySession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.sessions[i], true
	}
	return domain.StudySession{}, false
}

// Active returns the first running session in insertion order.
func (r *SessionRegistry) Active() (domain.StudySession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.activeIndex(); i >= 0 {
		return r.sessions[i], true
	}
	return domain.StudySession{}, false
}

// All returns every session in insertion order.
func (r *SessionRegistry) All() []domain.StudySession {
	return r.filter(func(domain.StudySession) bool { return true })
}

// BySubject returns sessions whose subject matches, ignoring case.
func (r *SessionRegistry) BySubject(subject string) []domain.StudySession {
	return r.filter(func(s domain.StudySession) bool { return strings.EqualFold(s.Subject, subject) })
}

// Today returns sessions that started on the current local calendar day.
// The clock's location defines "local".
func (r *SessionRegistry) Today() []domain.StudySession {
	now := r.clock()
	today := dayOf(now, now.Location())
	return r.filter(func(s domain.StudySession) bool {
		return dayOf(s.StartTime, now.Location()) == today
	})
}

// Productive returns ended sessions marked productive.
func (r *SessionRegistry) Productive() []domain.StudySession {
	return r.filter(domain.StudySession.IsProductive)
}

// Ended returns sessions that have been stopped.
func (r *SessionRegistry) Ended() []domain.StudySession {
	return r.filter(func(s domain.StudySession) bool { return !s.IsActive() })
}

// TotalDuration sums the durations of all ended sessions.
func (r *SessionRegistry) TotalDuration() time.Duration {
	return sumDurations(r.All())
}

// TotalDurationBySubject sums the durations of ended sessions on the subject.
func (r *SessionRegistry) TotalDurationBySubject(subject string) time.Duration {
	return sumDurations(r.BySubject(subject))
}

// Subjects returns the distinct subjects of ended sessions in first-seen order.
func (r *SessionRegistry) Subjects() []string {
	var subjects []string
	for _, s := range r.Ended() {
		if !slices.Contains(subjects, s.Subject) {
			subjects = append(subjects, s.Subject)
		}
	}
	return subjects
}

// StartTimes returns the start time of every session, active ones included.
func (r *SessionRegistry) StartTimes() []time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	starts := make([]time.Time, len(r.sessions))
	for i, s := range r.sessions {
		starts[i] = s.StartTime
	}
	return starts
}

// Len returns the number of sessions, active ones included.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// replace swaps in a previous value of a session, or removes the session when
// prev is the zero value. Used to undo a mutation that failed to persist.
func (r *SessionRegistry) replace(id string, prev domain.StudySession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return
	}
	if prev.ID == "" {
		r.sessions = slices.Delete(r.sessions, i, i+1)
		return
	}
	r.sessions[i] = prev
}

// indexOf must be called with the lock held.
func (r *SessionRegistry) indexOf(id string) int {
	return slices.IndexFunc(r.sessions, func(s domain.StudySession) bool { return s.ID == id })
}

// activeIndex must be called with the lock held.
func (r *SessionRegistry) activeIndex() int {
	return slices.IndexFunc(r.sessions, domain.StudySession.IsActive)
}

func (r *SessionRegistry) filter(keep func(domain.StudySession) bool) []domain.StudySession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.StudySession, 0, len(r.sessions))
	for _, s := range r.sessions {
		if keep(s) {
			result = append(result, s)
		}
	}
	return result
}

func sumDurations(sessions []domain.StudySession) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		if d, ok := s.Duration(); ok {
			total += d
		}
	}
	return total
}
