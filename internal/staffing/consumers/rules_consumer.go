package consumers

import (
	"context"

	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/messaging"
)

// invalidator drops cached rule configuration for a tenant
type invalidator interface {
	Invalidate(tenantID string)
}

// RulesEventConsumer consumes theatre configuration events
type RulesEventConsumer struct {
	consumer *messaging.Consumer
	cache    invalidator
	logger   *logger.Logger
}

// NewRulesEventConsumer creates a new rules event consumer
func NewRulesEventConsumer(
	rmq *messaging.RabbitMQ,
	cache invalidator,
	log *logger.Logger,
) (*RulesEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "staffing-service.rule-events", log)
	if err != nil {
		return nil, err
	}

	// Subscribe to theatre configuration events
	if err := consumer.Subscribe(messaging.ExchangeTheatreConfig, "theatre.#"); err != nil {
		return nil, err
	}

	c := &RulesEventConsumer{
		consumer: consumer,
		cache:    cache,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventRulesChanged, c.handleRulesChanged)

	return c, nil
}

// Start starts consuming messages
func (c *RulesEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *RulesEventConsumer) handleRulesChanged(ctx context.Context, event *messaging.Event) error {
	var data messaging.RulesChangedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.cache.Invalidate(data.TenantID)

	c.logger.WithCorrelationID(event.CorrelationID).Info().
		Str("tenant_id", data.TenantID).
		Str("unit_id", data.UnitID).
		Msg("staffing rules invalidated")

	return nil
}
