package repository

import (
	"context"
	"fmt"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/errors"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// AllocationRepository handles staff allocation persistence
type AllocationRepository struct {
	db *database.DB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *database.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// LoadAllocations returns every allocation of the tenant
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *AllocationRepository) LoadAllocations(ctx context.Context) ([]domain.StaffAllocation, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var allocs []domain.StaffAllocation

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `SELECT session_id, roles, updated_at, updated_by FROM staff_allocations ORDER BY session_id`
		return r.db.Q(ctx).SelectContext(ctx, &allocs, query)
	})
	if err != nil {
		return nil, fmt.Errorf("load allocations: %w", err)
	}

	return allocs, nil
}

// SaveAllocation creates or replaces the allocation of a session
// TENANT-ISOLATED: Writes carry the tenant ID checked by RLS
func (r *AllocationRepository) SaveAllocation(ctx context.Context, alloc domain.StaffAllocation) error {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `
			INSERT INTO staff_allocations (tenant_id, session_id, roles, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (tenant_id, session_id) DO UPDATE SET
				roles = EXCLUDED.roles,
				updated_at = EXCLUDED.updated_at,
				updated_by = EXCLUDED.updated_by
		`
		_, err := r.db.Q(ctx).ExecContext(ctx, query,
			tenantID, alloc.SessionID, alloc.Roles, alloc.UpdatedAt, alloc.UpdatedBy,
		)
		return mapError(err)
	})
}

// DeleteAllocation removes the allocation of a session
// TENANT-ISOLATED: Deletes only the tenant's rows
func (r *AllocationRepository) DeleteAllocation(ctx context.Context, sessionID string) error {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		result, err := r.db.Q(ctx).ExecContext(ctx, `DELETE FROM staff_allocations WHERE session_id = $1`, sessionID)
		if err != nil {
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return errors.NotFound("allocation")
		}

		return nil
	})
}
