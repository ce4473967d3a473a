// @title			StudyBuddy API
// @version		1.0
// @description	Personal study tracker: academic tasks, study sessions and streaks.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/studybuddy/internal/config"
	"github.com/mtlprog/studybuddy/internal/database"
	"github.com/mtlprog/studybuddy/internal/handler"
	"github.com/mtlprog/studybuddy/internal/logger"
	"github.com/mtlprog/studybuddy/internal/middleware"
	"github.com/mtlprog/studybuddy/internal/repository"
	"github.com/mtlprog/studybuddy/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "studybuddy",
		Usage: "Personal study tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL; empty keeps data in memory",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "Bearer token required on /api/v1 routes; empty disables auth",
				EnvVars: []string{"API_TOKEN"},
			},
			&cli.DurationFlag{
				Name:    "reminder-interval",
				Value:   config.DefaultReminderInterval,
				Usage:   "How often the server logs a study reminder (0 disables)",
				EnvVars: []string{"REMINDER_INTERVAL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "remind",
				Usage:  "Print the current study reminder and exit",
				Action: runRemind,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: runMigrate,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// openTracker builds the tracker, backed by Postgres when a database URL is set.
// The returned close function must always be called.
func openTracker(ctx context.Context, databaseURL string) (*service.Tracker, *database.DB, func(), error) {
	if databaseURL == "" {
		slog.Warn("no database configured, data is kept in memory only")
		return service.NewTracker(), nil, func() {}, nil
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tracker := service.NewTracker(
		service.WithTaskStore(repository.NewTaskRepository(db.Pool())),
		service.WithSessionStore(repository.NewSessionRepository(db.Pool())),
	)
	if err := tracker.Load(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to load tracker state: %w", err)
	}

	return tracker, db, db.Close, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	tracker, db, closeDB, err := openTracker(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeDB()

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}

	auth := middleware.NewAuthMiddleware(c.String("api-token"))
	if !auth.Enabled() {
		slog.Warn("api token not set, /api/v1 is unauthenticated")
	}

	h := handler.New(tracker, pinger, auth)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	reminderCtx, stopReminders := context.WithCancel(ctx)
	defer stopReminders()
	if interval := c.Duration("reminder-interval"); interval > 0 {
		go service.RunReminders(reminderCtx, interval, tracker, service.LogNotifier{})
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	stopReminders()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// runRemind prints the reminder once; schedule it with cron for daily delivery.
func runRemind(c *cli.Context) error {
	tracker, _, closeDB, err := openTracker(c.Context, c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeDB()

	message := tracker.Reminder()
	slog.Info("study reminder", "streak", tracker.Streak(), "message", message)
	fmt.Fprintf(c.App.Writer, "%s: %s\n", service.ReminderTitle, message)

	return nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return fmt.Errorf("database-url is required for migrate")
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
