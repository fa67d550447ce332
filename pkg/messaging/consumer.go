package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medflow/theatreops-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MaxRetries is how often a failing event is redelivered before it is dead-lettered
const MaxRetries = 3

// retryHeader counts redeliveries. Nack with requeue does not touch x-death,
// so failed events are republished with this header incremented instead.
const retryHeader = "x-retry-count"

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, event *Event) error

type disposition int

const (
	dispositionAck disposition = iota
	dispositionRetry
	dispositionDeadLetter
)

// Consumer handles consuming events from RabbitMQ
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	handlers  map[string]MessageHandler
	logger    *logger.Logger
}

// NewConsumer declares queueName (dead-lettered to dlx.events) and returns a consumer for it
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	if _, err := rmq.DeclareQueue(queueName); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		rmq:       rmq,
		queueName: queueName,
		handlers:  make(map[string]MessageHandler),
		logger:    log,
	}, nil
}

// Subscribe binds the queue to exchange for routingKeyPattern
func (c *Consumer) Subscribe(exchange, routingKeyPattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := c.rmq.BindQueue(c.queueName, exchange, routingKeyPattern); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.logger.Info().
		Str("queue", c.queueName).
		Str("exchange", exchange).
		Str("routing_key", routingKeyPattern).
		Msg("subscribed to exchange")

	return nil
}

// RegisterHandler registers a handler for a specific event type.
// Events without a handler are acknowledged and dropped.
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start consumes the queue until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.rmq.Channel().Consume(
		c.queueName, // queue
		"",          // consumer tag (auto-generated)
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info().Str("queue", c.queueName).Msg("consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn().Str("queue", c.queueName).Msg("message channel closed")
					return
				}
				c.handleMessage(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	retries := retryCount(msg.Headers)

	switch c.dispatch(ctx, msg.Body, retries) {
	case dispositionAck:
		msg.Ack(false)
	case dispositionDeadLetter:
		msg.Reject(false)
	case dispositionRetry:
		if err := c.republish(ctx, msg, retries+1); err != nil {
			c.logger.Error().Err(err).Str("queue", c.queueName).Msg("failed to requeue event")
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
	}
}

// dispatch decodes body and runs its handler, deciding what happens to the delivery
func (c *Consumer) dispatch(ctx context.Context, body []byte, retries int) disposition {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error().Err(err).Str("queue", c.queueName).Msg("failed to unmarshal event")
		return dispositionDeadLetter
	}

	handler, ok := c.handlers[event.Type]
	if !ok {
		c.logger.Debug().Str("event_type", event.Type).Msg("no handler registered for event type")
		return dispositionAck
	}

	log := c.logger.WithCorrelationID(event.CorrelationID)
	log.Debug().
		Str("event_type", event.Type).
		Str("event_id", event.ID).
		Int("retry_count", retries).
		Msg("processing event")

	if err := handler(WithCorrelationID(ctx, event.CorrelationID), &event); err != nil {
		if retries >= MaxRetries {
			log.Warn().
				Err(err).
				Str("event_id", event.ID).
				Int("retry_count", retries).
				Msg("max retries exceeded, sending to DLQ")
			return dispositionDeadLetter
		}
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Msg("failed to process event")
		return dispositionRetry
	}

	return dispositionAck
}

func (c *Consumer) republish(ctx context.Context, msg amqp.Delivery, retries int) error {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retryHeader] = int32(retries)

	return c.rmq.Channel().PublishWithContext(ctx,
		"",          // default exchange routes by queue name
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:   msg.ContentType,
			DeliveryMode:  amqp.Persistent,
			MessageId:     msg.MessageId,
			CorrelationId: msg.CorrelationId,
			Timestamp:     msg.Timestamp,
			Headers:       headers,
			Body:          msg.Body,
		},
	)
}

func retryCount(headers amqp.Table) int {
	switch n := headers[retryHeader].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
