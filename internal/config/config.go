package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty, which keeps all data in memory.
	DefaultDatabaseURL = ""

	// DefaultReminderInterval is how often the server delivers a study reminder.
	// Zero disables the reminder loop.
	DefaultReminderInterval = 24 * time.Hour
)
