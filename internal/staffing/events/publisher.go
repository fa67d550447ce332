package events

import (
	"context"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/messaging"
)

// Pool names carried by pool events
const (
	PoolAuxiliary = "auxiliary"
	PoolNight     = "night"
)

// sink is the publishing side of messaging.Publisher
type sink interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// StaffingEventPublisher publishes staffing-related events. Failures are
// logged and never returned: the write that triggered the event has already
// been committed.
type StaffingEventPublisher struct {
	publisher sink
	logger    *logger.Logger
}

// NewStaffingEventPublisher creates a new staffing event publisher
func NewStaffingEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*StaffingEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeStaffingEvents, "staffing-service", log)
	if err != nil {
		return nil, err
	}

	return NewWithPublisher(publisher, log), nil
}

// NewWithPublisher wraps an existing publisher
func NewWithPublisher(p sink, log *logger.Logger) *StaffingEventPublisher {
	return &StaffingEventPublisher{
		publisher: p,
		logger:    log,
	}
}

// PublishSessionsUpdated publishes a sessions updated event
func (p *StaffingEventPublisher) PublishSessionsUpdated(ctx context.Context, tenantID string, sessions []domain.Session, fields []string, updatedBy string) {
	if len(sessions) == 0 {
		return
	}

	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID()
	}

	data := messaging.SessionsUpdatedEvent{
		TenantID:   tenantID,
		SessionIDs: ids,
		Fields:     fields,
		UpdatedBy:  updatedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventSessionsUpdated, data); err != nil {
		p.logger.Error().Err(err).Int("sessions", len(ids)).Msg("failed to publish sessions updated event")
	}
}

// PublishAllocationSaved publishes an allocation saved event
func (p *StaffingEventPublisher) PublishAllocationSaved(ctx context.Context, tenantID string, alloc domain.StaffAllocation) {
	data := messaging.AllocationSavedEvent{
		TenantID:  tenantID,
		SessionID: alloc.SessionID,
		Assigned:  alloc.Roles.Total(),
		UpdatedBy: alloc.UpdatedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAllocationSaved, data); err != nil {
		p.logger.Error().Err(err).Str("session_id", alloc.SessionID).Msg("failed to publish allocation saved event")
	}
}

// PublishAllocationDeleted publishes an allocation deleted event
func (p *StaffingEventPublisher) PublishAllocationDeleted(ctx context.Context, tenantID, sessionID, deletedBy string) {
	data := messaging.AllocationDeletedEvent{
		TenantID:  tenantID,
		SessionID: sessionID,
		DeletedBy: deletedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAllocationDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to publish allocation deleted event")
	}
}

// PublishPoolUpdated publishes a pool updated event
func (p *StaffingEventPublisher) PublishPoolUpdated(ctx context.Context, tenantID, pool, date string, roles domain.RoleList, updatedBy string) {
	data := messaging.PoolUpdatedEvent{
		TenantID:  tenantID,
		Pool:      pool,
		Date:      date,
		Total:     roles.Total(),
		UpdatedBy: updatedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventPoolUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("pool", pool).Str("date", date).Msg("failed to publish pool updated event")
	}
}
