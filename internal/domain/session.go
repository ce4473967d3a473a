package domain

import "time"

// StudySession represents a timed block of study on a subject.
type StudySession struct {
	ID        string
	Subject   string
	StartTime time.Time
	EndTime   *time.Time // nil while the session is running
	Notes     string
	// Productive defaults to true and is only meaningful once the session has ended.
	Productive bool
}

// IsActive reports whether the session is still running.
func (s StudySession) IsActive() bool {
	return s.EndTime == nil
}

// End returns an ended copy of the session.
// Returns ErrSessionAlreadyEnded if the session has already been ended.
func (s StudySession) End(notes string, productive bool, now time.Time) (StudySession, error) {
	if !s.IsActive() {
		return StudySession{}, ErrSessionAlreadyEnded
	}
	endTime := now
	s.EndTime = &endTime
	s.Notes = notes
	s.Productive = productive
	return s, nil
}

// Duration returns EndTime - StartTime. The second value is false for active sessions.
func (s StudySession) Duration() (time.Duration, bool) {
	if s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(s.StartTime), true
}

// IsProductive reports whether the session ended and was marked productive.
func (s StudySession) IsProductive() bool {
	return s.Productive && !s.IsActive()
}
