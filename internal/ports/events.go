package ports

import (
	"context"

	"github.com/target/jobportal/internal/domain/model"
)

// EventPublisher delivers outbox events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, events []*model.ApplicationEvent) error
	Close() error
}
