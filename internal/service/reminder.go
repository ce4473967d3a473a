package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ReminderTitle is the title used for delivered reminders.
const ReminderTitle = "Study Buddy"

// ReminderMessage derives the daily reminder text from the session count and current streak.
func ReminderMessage(sessionCount, streak int) string {
	switch {
	case sessionCount == 0:
		return "You haven't started studying yet. Let's begin!"
	case streak == 0:
		return "It's been a while! Time to get back to studying and build your streak."
	default:
		return fmt.Sprintf("You're on a %d-day streak! Keep up the great work!", streak)
	}
}

// Notifier delivers a reminder outside the process.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// LogNotifier delivers reminders as structured log entries.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, title, message string) error {
	slog.Info("study reminder", "title", title, "message", message)
	return nil
}

// RunReminders sends the tracker's reminder once per interval until ctx is cancelled.
// Delivery failures are logged and do not stop the loop.
func RunReminders(ctx context.Context, interval time.Duration, tracker *Tracker, notifier Notifier) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("reminder loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder loop stopped")
			return
		case <-ticker.C:
			if err := notifier.Notify(ctx, ReminderTitle, tracker.Reminder()); err != nil {
				slog.Error("failed to deliver reminder", "error", err)
			}
		}
	}
}
