package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/observability/metrics"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Notifications core.NotificationRepository // Required
	Events        core.EventRepository        // Required
	Config        config.ReaperConfig
	Logger        *slog.Logger     // Optional: structured logger
	Metrics       metrics.Recorder // Optional
	Now           func() time.Time // Optional: clock override for tests
}

// ReaperService deletes rows nobody needs any more.
//
// This service manages:
// - Deleting read notifications older than the retention window.
// - Deleting outbox events that were published before the retention window.
type ReaperService struct {
	notes   core.NotificationRepository
	events  core.EventRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// ReapResult reports how many rows one cleanup pass removed.
type ReapResult struct {
	Notifications int
	Events        int
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Notifications == nil {
		return nil, errors.New("NotificationRepository is required")
	}
	if opts.Events == nil {
		return nil, errors.New("EventRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "reaper_service")
	logger.Debug("ReaperService initialized",
		"interval", opts.Config.Interval,
		"max_age", opts.Config.NotificationMaxAge,
		"batch_size", opts.Config.BatchSize,
	)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ReaperService{
		notes:   opts.Notifications,
		events:  opts.Events,
		config:  opts.Config,
		logger:  logger,
		metrics: metrics.OrNoop(opts.Metrics),
		now:     now,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	return periodicTask{
		name:     "reaper",
		interval: s.config.Interval,
		logger:   s.logger,
		fn: func(ctx context.Context) error {
			_, err := s.RunOnce(ctx)
			return err
		},
	}.run(ctx)
}

// RunOnce performs one full cleanup pass.
func (s *ReaperService) RunOnce(ctx context.Context) (ReapResult, error) {
	cutoff := s.now().Add(-s.config.NotificationMaxAge)
	var (
		res  ReapResult
		errs []error
	)

	n, err := s.drain(ctx, func(ctx context.Context, limit int) (int, error) {
		return s.notes.DeleteReadBefore(ctx, cutoff, limit)
	})
	res.Notifications = n
	if err != nil {
		errs = append(errs, fmt.Errorf("delete read notifications: %w", err))
	}
	s.metrics.RowsReaped("notifications", n)

	n, err = s.drain(ctx, func(ctx context.Context, limit int) (int, error) {
		return s.events.DeletePublishedBefore(ctx, cutoff, limit)
	})
	res.Events = n
	if err != nil {
		errs = append(errs, fmt.Errorf("delete published events: %w", err))
	}
	s.metrics.RowsReaped("events", n)

	if res.Notifications > 0 || res.Events > 0 {
		s.logger.InfoContext(ctx, "reaped old rows",
			"notifications", res.Notifications,
			"events", res.Events,
			"cutoff", cutoff,
		)
	}
	if len(errs) > 0 {
		return res, fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
	}
	return res, nil
}

// drain calls del in batches until a batch comes back short.
func (s *ReaperService) drain(ctx context.Context, del func(context.Context, int) (int, error)) (int, error) {
	batch := max(s.config.BatchSize, 1)
	total := 0
	for {
		n, err := del(ctx, batch)
		if err != nil {
			return total, err
		}
		total += n
		if n < batch {
			return total, nil
		}
		// Check context between batches
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
}
