package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/adapters/events"
	"github.com/target/jobportal/internal/adapters/reaper"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/observability/metrics"
	"github.com/target/jobportal/internal/ports"
	"github.com/target/jobportal/internal/service"
)

// BuildEventPublisher returns the publisher selected by cfg.Driver.
//
//nolint:ireturn // the relay depends only on the port; the driver picks the concrete type.
func BuildEventPublisher(cfg config.EventsConfig, logger *slog.Logger) (ports.EventPublisher, error) {
	switch cfg.Driver {
	case config.EventsDriverKafka:
		pub, err := events.NewKafkaPublisher(events.KafkaPublisherOptions{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create kafka publisher: %w", err)
		}
		return pub, nil
	case config.EventsDriverAMQP:
		pub, err := events.NewAMQPPublisher(events.AMQPPublisherOptions{
			URL:        cfg.AMQP.URL,
			Exchange:   cfg.AMQP.Exchange,
			RoutingKey: cfg.AMQP.RoutingKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create amqp publisher: %w", err)
		}
		return pub, nil
	case config.EventsDriverNone, "":
		return events.NewLogPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// EventRelayConfig contains configuration for the outbox relay.
type EventRelayConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Relay   config.RelayConfig
	Events  config.EventsConfig
	Metrics metrics.Recorder

	// Publisher overrides the driver selected by Events.
	Publisher ports.EventPublisher
}

// RunEventRelay publishes pending application events until ctx is cancelled.
func RunEventRelay(ctx context.Context, cfg EventRelayConfig) (err error) {
	if cfg.DB == nil {
		return errors.New("event relay: database connection is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pub := cfg.Publisher
	if pub == nil {
		pub, err = BuildEventPublisher(cfg.Events, logger)
		if err != nil {
			return err
		}
	}

	relay, err := service.NewEventRelayService(service.EventRelayServiceOptions{
		Events:    data.NewEventRepo(cfg.DB),
		Publisher: pub,
		Config:    cfg.Relay,
		Logger:    logger,
		Metrics:   cfg.Metrics,
	})
	if err != nil {
		return errors.Join(fmt.Errorf("create event relay: %w", err), pub.Close())
	}
	defer func() {
		if cerr := relay.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close event publisher: %w", cerr))
		}
	}()

	logger.InfoContext(ctx, "starting event relay",
		"driver", cfg.Events.Driver,
		"interval", cfg.Relay.Interval,
		"batch_size", cfg.Relay.BatchSize,
	)
	return relay.Run(ctx)
}

// ReaperConfig contains configuration for reaper.
type ReaperConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics metrics.Recorder
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
