package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/observability/metrics"
	"github.com/target/jobportal/internal/ports"
)

// EventRelayServiceOptions groups dependencies for EventRelayService.
type EventRelayServiceOptions struct {
	Events    core.EventRepository // Required
	Publisher ports.EventPublisher // Required
	Config    config.RelayConfig
	Logger    *slog.Logger
	Metrics   metrics.Recorder
}

// EventRelayService moves outbox rows to the configured broker. Rows are
// marked published only after the broker accepted them, so a failed publish
// is retried on the next tick.
type EventRelayService struct {
	events    core.EventRepository
	publisher ports.EventPublisher
	config    config.RelayConfig
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewEventRelayService constructs a new EventRelayService.
func NewEventRelayService(opts EventRelayServiceOptions) (*EventRelayService, error) {
	if opts.Events == nil {
		return nil, errors.New("EventRepository is required")
	}
	if opts.Publisher == nil {
		return nil, errors.New("EventPublisher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRelayService{
		events:    opts.Events,
		publisher: opts.Publisher,
		config:    opts.Config,
		logger:    logger.With("component", "event_relay"),
		metrics:   metrics.OrNoop(opts.Metrics),
	}, nil
}

// Run relays on every tick until ctx is cancelled.
func (s *EventRelayService) Run(ctx context.Context) error {
	return periodicTask{
		name:     "event relay",
		interval: s.config.Interval,
		logger:   s.logger,
		fn: func(ctx context.Context) error {
			_, err := s.RelayOnce(ctx)
			return err
		},
	}.run(ctx)
}

// RelayOnce publishes pending events batch by batch until the outbox is drained.
func (s *EventRelayService) RelayOnce(ctx context.Context) (int, error) {
	batch := max(s.config.BatchSize, 1)
	total := 0
	for {
		n, err := s.events.PublishPending(ctx, batch, func(events []*model.ApplicationEvent) error {
			return s.publisher.Publish(ctx, events)
		})
		if err != nil {
			s.metrics.RelayFailed(err)
			return total, fmt.Errorf("relay events: %w", err)
		}
		total += n
		s.metrics.EventsRelayed(n)
		if n > 0 {
			s.logger.DebugContext(ctx, "relayed events", "count", n)
		}
		if n < batch {
			return total, nil
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
}

// Close releases the publisher.
func (s *EventRelayService) Close() error {
	return s.publisher.Close()
}
