package events

import (
	"context"
	"log/slog"

	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher logs events and discards them. It backs EVENTS_DRIVER=none.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a LogPublisher; a nil logger uses slog.Default.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "event_publisher", "driver", "none")}
}

func (p *LogPublisher) Publish(ctx context.Context, events []*model.ApplicationEvent) error {
	for _, evt := range events {
		p.logger.DebugContext(ctx, "discarding application event",
			"event_id", evt.ID,
			"type", evt.Type,
			"application_id", evt.ApplicationID,
		)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
