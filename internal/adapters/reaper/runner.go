// Package reaper provides adapters for running the retention reaper.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/observability/metrics"
	"github.com/target/jobportal/internal/service"
)

// Runner provides a simple adapter to run the reaper loop.
// It constructs the reaper service and runs the cleanup loop.
type Runner struct {
	reaper *service.ReaperService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReaperConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Notifications core.NotificationRepository
	Events        core.EventRepository
	Metrics       metrics.Recorder
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	reaper, err := wireReaperService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire reaper service: %w", err)
	}

	return &Runner{
		reaper: reaper,
		logger: opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && (opts.Notifications == nil || opts.Events == nil) {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// wireReaperService wires up all dependencies for the reaper service.
func wireReaperService(opts RunnerOptions) (*service.ReaperService, error) {
	notes := opts.Notifications
	if notes == nil {
		notes = data.NewNotificationRepo(opts.DB)
	}
	events := opts.Events
	if events == nil {
		events = data.NewEventRepo(opts.DB)
	}

	return service.NewReaperService(service.ReaperServiceOptions{
		Notifications: notes,
		Events:        events,
		Config:        opts.Config,
		Logger:        opts.Logger,
		Metrics:       opts.Metrics,
	})
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reaper runner")
	return r.reaper.Run(ctx)
}

// RunOnce performs a single cleanup pass, used by the admin CLI.
func (r *Runner) RunOnce(ctx context.Context) (service.ReapResult, error) {
	return r.reaper.RunOnce(ctx)
}
