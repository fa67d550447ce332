package consumers

import (
	"context"
	"testing"

	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	invalidated []string
}

func (r *recordingCache) Invalidate(tenantID string) {
	r.invalidated = append(r.invalidated, tenantID)
}

func TestHandleRulesChanged(t *testing.T) {
	cache := &recordingCache{}
	c := &RulesEventConsumer{cache: cache, logger: logger.New("test", "test")}

	event, err := messaging.NewEvent(messaging.EventRulesChanged, "theatre-admin", "", messaging.RulesChangedEvent{
		TenantID: "tenant-1",
		UnitID:   "unit-1",
	})
	require.NoError(t, err)

	require.NoError(t, c.handleRulesChanged(context.Background(), event))
	assert.Equal(t, []string{"tenant-1"}, cache.invalidated)
}

func TestHandleRulesChanged_MalformedPayload(t *testing.T) {
	cache := &recordingCache{}
	c := &RulesEventConsumer{cache: cache, logger: logger.New("test", "test")}

	err := c.handleRulesChanged(context.Background(), &messaging.Event{
		Type: messaging.EventRulesChanged,
		Data: []byte(`{"tenant_id":`),
	})
	require.Error(t, err)
	assert.Empty(t, cache.invalidated)
}
