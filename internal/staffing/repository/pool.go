package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// Pool table names
const (
	auxiliaryTable = "auxiliary_staffing"
	nightTable     = "night_staffing"
)

// poolRow is the shared shape of both pool tables
type poolRow struct {
	Date      string          `db:"date"`
	Roles     domain.RoleList `db:"roles"`
	UpdatedAt time.Time       `db:"updated_at"`
	UpdatedBy string          `db:"updated_by"`
}

// PoolRepository handles the auxiliary and night staffing pools
type PoolRepository struct {
	db *database.DB
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *database.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// LoadAuxiliary returns the auxiliary records in a date range, keyed by date
func (r *PoolRepository) LoadAuxiliary(ctx context.Context, dr domain.DateRange) (map[string][]domain.AuxiliaryStaffingRecord, error) {
	rows, err := r.load(ctx, auxiliaryTable, dr)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.AuxiliaryStaffingRecord, len(rows))
	for _, row := range rows {
		out[row.Date] = append(out[row.Date], domain.AuxiliaryStaffingRecord{
			Date:      row.Date,
			Roles:     row.Roles,
			UpdatedAt: row.UpdatedAt,
			UpdatedBy: row.UpdatedBy,
		})
	}
	return out, nil
}

// LoadNight returns the night records in a date range, keyed by date
func (r *PoolRepository) LoadNight(ctx context.Context, dr domain.DateRange) (map[string][]domain.NightStaffingRecord, error) {
	rows, err := r.load(ctx, nightTable, dr)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.NightStaffingRecord, len(rows))
	for _, row := range rows {
		out[row.Date] = append(out[row.Date], domain.NightStaffingRecord{
			Date:      row.Date,
			Roles:     row.Roles,
			UpdatedAt: row.UpdatedAt,
			UpdatedBy: row.UpdatedBy,
		})
	}
	return out, nil
}

// SaveAuxiliary replaces the auxiliary record of a date
func (r *PoolRepository) SaveAuxiliary(ctx context.Context, rec domain.AuxiliaryStaffingRecord) error {
	return r.save(ctx, auxiliaryTable, poolRow(rec))
}

// SaveNight replaces the night record of a date
func (r *PoolRepository) SaveNight(ctx context.Context, rec domain.NightStaffingRecord) error {
	return r.save(ctx, nightTable, poolRow(rec))
}

// load reads one pool table
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *PoolRepository) load(ctx context.Context, table string, dr domain.DateRange) ([]poolRow, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var rows []poolRow

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query, args := rangeQuery(
			"SELECT date::text AS date, roles, updated_at, updated_by FROM "+table,
			dr, nil, "ORDER BY date",
		)
		return r.db.Q(ctx).SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	return rows, nil
}

// save upserts one pool row
// TENANT-ISOLATED: Writes carry the tenant ID checked by RLS
func (r *PoolRepository) save(ctx context.Context, table string, row poolRow) error {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `
			INSERT INTO ` + table + ` (tenant_id, date, roles, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (tenant_id, date) DO UPDATE SET
				roles = EXCLUDED.roles,
				updated_at = EXCLUDED.updated_at,
				updated_by = EXCLUDED.updated_by
		`
		_, err := r.db.Q(ctx).ExecContext(ctx, query,
			tenantID, row.Date, row.Roles, row.UpdatedAt, row.UpdatedBy,
		)
		return mapError(err)
	})
}
