package events

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/ports"
)

var _ ports.EventPublisher = (*AMQPPublisher)(nil)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisherOptions configures an AMQPPublisher.
type AMQPPublisherOptions struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// AMQPPublisher publishes events to a durable topic exchange. The routing key
// is "<RoutingKey>.<event type>" so consumers can bind per transition.
type AMQPPublisher struct {
	conn       *amqp.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
}

// NewAMQPPublisher dials the broker, opens a channel and declares the exchange.
func NewAMQPPublisher(opts AMQPPublisherOptions) (*AMQPPublisher, error) {
	if opts.URL == "" {
		return nil, errors.New("amqp publisher: URL is required")
	}
	conn, err := amqp.Dial(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("amqp channel: %w", err), conn.Close())
	}
	if opts.Exchange != "" {
		err = ch.ExchangeDeclare(
			opts.Exchange,
			amqp.ExchangeTopic,
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("amqp declare exchange %s: %w", opts.Exchange, err), conn.Close())
		}
	}
	return &AMQPPublisher{
		conn:       conn,
		channel:    ch,
		exchange:   opts.Exchange,
		routingKey: opts.RoutingKey,
	}, nil
}

// Publish sends each event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, events []*model.ApplicationEvent) error {
	for _, evt := range events {
		body, err := encode(evt)
		if err != nil {
			return err
		}
		msg := amqp.Publishing{
			ContentType:  ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.ID,
			Type:         string(evt.Type),
			Timestamp:    evt.CreatedAt,
			Body:         body,
		}
		if err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKeyFor(evt), false, false, msg); err != nil {
			return fmt.Errorf("amqp publish %s: %w", evt.ID, err)
		}
	}
	return nil
}

func (p *AMQPPublisher) routingKeyFor(evt *model.ApplicationEvent) string {
	if p.routingKey == "" {
		return string(evt.Type)
	}
	return p.routingKey + "." + string(evt.Type)
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
