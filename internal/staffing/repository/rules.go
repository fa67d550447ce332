package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/errors"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// RuleRepository reads the staffing rule configuration. Rules are owned by the
// theatre configuration service; this service only reads them.
type RuleRepository struct {
	db *database.DB
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *database.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// GetUnit gets a theatre unit by ID
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *RuleRepository) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var unit domain.Unit

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `SELECT id, name, theatre_ids FROM theatre_units WHERE id = $1`
		return r.db.Q(ctx).GetContext(ctx, &unit, query, id)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("unit")
	}
	if err != nil {
		return nil, err
	}

	return &unit, nil
}

// ListTemplates lists the role templates of a unit plus unscoped ones, in
// configured order. An empty unit ID lists every template.
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *RuleRepository) ListTemplates(ctx context.Context, unitID string) ([]domain.DefaultRoleTemplate, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var templates []domain.DefaultRoleTemplate

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `
			SELECT id, unit_id, role_id, role_name, quantity, applicable_session,
			       location, specific_theatre_ids, position
			FROM role_templates
		`
		var args []interface{}
		if unitID != "" {
			query += " WHERE unit_id = $1 OR unit_id = ''"
			args = append(args, unitID)
		}
		query += " ORDER BY position, id"

		return r.db.Q(ctx).SelectContext(ctx, &templates, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list role templates: %w", err)
	}

	return templates, nil
}

// ListMappers lists the procedure role mappers in configured order
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *RuleRepository) ListMappers(ctx context.Context) ([]domain.ProcedureRoleMapper, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var mappers []domain.ProcedureRoleMapper

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `
			SELECT id, specialty_name, subspecialty, keywords, roles, requirements, position
			FROM procedure_role_mappers
			ORDER BY position, id
		`
		return r.db.Q(ctx).SelectContext(ctx, &mappers, query)
	})
	if err != nil {
		return nil, fmt.Errorf("list procedure mappers: %w", err)
	}

	return mappers, nil
}
