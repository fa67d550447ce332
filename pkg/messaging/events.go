package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Session events
	EventSessionsUpdated = "staffing.sessions.updated"

	// Allocation events
	EventAllocationSaved   = "staffing.allocation.saved"
	EventAllocationDeleted = "staffing.allocation.deleted"

	// Pool events
	EventPoolUpdated = "staffing.pool.updated"

	// Rule configuration events (published by the administration surface)
	EventRulesChanged = "theatre.rules.changed"
)

// Exchange names
const (
	ExchangeStaffingEvents = "staffing.events"
	ExchangeTheatreConfig  = "theatre.config.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Session Events

// SessionsUpdatedEvent is published after a batch save or bulk edit
type SessionsUpdatedEvent struct {
	TenantID   string   `json:"tenant_id"`
	SessionIDs []string `json:"session_ids"`
	Fields     []string `json:"fields,omitempty"` // Fields changed by a bulk edit
	UpdatedBy  string   `json:"updated_by"`
}

// Allocation Events

// AllocationSavedEvent is published when a session's staff allocation is saved
type AllocationSavedEvent struct {
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
	Assigned  int    `json:"assigned"`
	UpdatedBy string `json:"updated_by"`
}

// AllocationDeletedEvent is published when a session's staff allocation is removed
type AllocationDeletedEvent struct {
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
	DeletedBy string `json:"deleted_by"`
}

// Pool Events

// PoolUpdatedEvent is published when an auxiliary or night pool record is saved
type PoolUpdatedEvent struct {
	TenantID  string `json:"tenant_id"`
	Pool      string `json:"pool"` // auxiliary or night
	Date      string `json:"date"`
	Total     int    `json:"total"`
	UpdatedBy string `json:"updated_by"`
}

// Rule Events

// RulesChangedEvent announces edited role templates or procedure mappers
type RulesChangedEvent struct {
	TenantID string `json:"tenant_id"`
	UnitID   string `json:"unit_id,omitempty"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}
