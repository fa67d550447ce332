package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/internal/staffing/engine"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// RuleCache holds each tenant's loaded rule configuration. Entries live until
// a rules changed event invalidates them.
type RuleCache struct {
	store  RuleStore
	unitID string
	logger *logger.Logger

	mu       sync.RWMutex
	byTenant map[string]engine.Aggregator
}

// NewRuleCache creates a rule cache for the configured unit
func NewRuleCache(store RuleStore, unitID string, log *logger.Logger) *RuleCache {
	return &RuleCache{
		store:    store,
		unitID:   unitID,
		logger:   log,
		byTenant: make(map[string]engine.Aggregator),
	}
}

// Aggregator returns the aggregator for the tenant in ctx, loading the rules
// on first use
func (c *RuleCache) Aggregator(ctx context.Context) (engine.Aggregator, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return engine.Aggregator{}, err
	}

	c.mu.RLock()
	agg, ok := c.byTenant[tenantID]
	c.mu.RUnlock()
	if ok {
		return agg, nil
	}

	agg, err = c.load(ctx)
	if err != nil {
		return engine.Aggregator{}, err
	}

	c.mu.Lock()
	c.byTenant[tenantID] = agg
	c.mu.Unlock()

	c.logger.Debug().
		Str("tenant_id", tenantID).
		Int("templates", len(agg.Templates)).
		Int("mappers", len(agg.Mappers)).
		Msg("staffing rules loaded")

	return agg, nil
}

// Invalidate drops a tenant's rules. An empty tenant ID drops every tenant.
func (c *RuleCache) Invalidate(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tenantID == "" {
		c.byTenant = make(map[string]engine.Aggregator)
		return
	}
	delete(c.byTenant, tenantID)
}

func (c *RuleCache) load(ctx context.Context) (engine.Aggregator, error) {
	var unit domain.Unit
	if c.unitID != "" {
		u, err := c.store.GetUnit(ctx, c.unitID)
		if err != nil {
			return engine.Aggregator{}, fmt.Errorf("load unit %s: %w", c.unitID, err)
		}
		unit = *u
	}

	templates, err := c.store.ListTemplates(ctx, unit.ID)
	if err != nil {
		return engine.Aggregator{}, err
	}

	mappers, err := c.store.ListMappers(ctx)
	if err != nil {
		return engine.Aggregator{}, err
	}

	return engine.Aggregator{Unit: unit, Templates: templates, Mappers: mappers}, nil
}
