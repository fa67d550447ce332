package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// TestTenant represents a tenant created for testing
type TestTenant struct {
	ID         string
	Name       string
	Slug       string
	SchemaName string
}

// TenantManager manages test tenant schemas
type TenantManager struct {
	db      *sqlx.DB
	tenants []TestTenant
	mu      sync.Mutex
}

// NewTenantManager creates a new tenant manager for tests
func NewTenantManager(db *sqlx.DB) *TenantManager {
	return &TenantManager{
		db:      db,
		tenants: make([]TestTenant, 0),
	}
}

// CreateTenant creates a new isolated tenant schema for testing.
// Each test can have its own tenant to ensure complete isolation.
//
// Usage:
//
//	tm := testutil.NewTenantManager(db)
//	tenant := tm.CreateTenant(ctx, "test-clinic")
//	ctx = testutil.WithTestTenant(ctx, tenant)
//
//	// Now all repository operations will use this tenant's schema
//	sessions, err := sessionRepo.LoadSessions(ctx, dateRange, nil)
func (tm *TenantManager) CreateTenant(ctx context.Context, name string) (*TestTenant, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	id := uuid.New().String()
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	schemaName := fmt.Sprintf("tenant_%s", strings.ReplaceAll(slug, "-", "_"))

	// Create schema
	_, err := tm.db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant schema: %w", err)
	}

	// Register tenant in public.tenants
	_, err = tm.db.ExecContext(ctx, `
		INSERT INTO public.tenants (id, name, slug, schema_name, subscription_status)
		VALUES ($1, $2, $3, $4, 'active')
		ON CONFLICT (slug) DO NOTHING
	`, id, name, slug, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	t := TestTenant{
		ID:         id,
		Name:       name,
		Slug:       slug,
		SchemaName: schemaName,
	}

	tm.tenants = append(tm.tenants, t)
	return &t, nil
}

// CreateTenantWithMigrations creates a tenant and applies the given migrations
func (tm *TenantManager) CreateTenantWithMigrations(ctx context.Context, name string, migrations []string) (*TestTenant, error) {
	t, err := tm.CreateTenant(ctx, name)
	if err != nil {
		return nil, err
	}

	// Set search_path and apply migrations
	for _, migration := range migrations {
		_, err = tm.db.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s, public", t.SchemaName))
		if err != nil {
			return nil, fmt.Errorf("failed to set search_path: %w", err)
		}

		_, err = tm.db.ExecContext(ctx, migration)
		if err != nil {
			return nil, fmt.Errorf("failed to apply migration: %w", err)
		}
	}

	// Reset search_path
	_, err = tm.db.ExecContext(ctx, "SET search_path TO public")
	if err != nil {
		return nil, fmt.Errorf("failed to reset search_path: %w", err)
	}

	return t, nil
}

// DropTenant removes a tenant schema completely
func (tm *TenantManager) DropTenant(ctx context.Context, t *TestTenant) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Drop schema with CASCADE (removes all objects)
	_, err := tm.db.ExecContext(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", t.SchemaName))
	if err != nil {
		return fmt.Errorf("failed to drop tenant schema: %w", err)
	}

	// Remove from tenants table
	_, err = tm.db.ExecContext(ctx, "DELETE FROM public.tenants WHERE id = $1", t.ID)
	if err != nil {
		return fmt.Errorf("failed to delete tenant record: %w", err)
	}

	// Remove from tracked tenants
	for i, tracked := range tm.tenants {
		if tracked.ID == t.ID {
			tm.tenants = append(tm.tenants[:i], tm.tenants[i+1:]...)
			break
		}
	}

	return nil
}

// Cleanup drops all tenant schemas created by this manager.
// Call this in TestMain or test cleanup.
func (tm *TenantManager) Cleanup(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var lastErr error
	for _, t := range tm.tenants {
		_, err := tm.db.ExecContext(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", t.SchemaName))
		if err != nil {
			lastErr = err
		}
		_, err = tm.db.ExecContext(ctx, "DELETE FROM public.tenants WHERE id = $1", t.ID)
		if err != nil {
			lastErr = err
		}
	}

	tm.tenants = make([]TestTenant, 0)
	return lastErr
}

// WithTestTenant creates a context with tenant information for testing.
// This is the primary way to set up tenant context in tests.
func WithTestTenant(ctx context.Context, t *TestTenant) context.Context {
	return tenant.WithTenantContext(ctx, t.ID, t.Slug, t.SchemaName)
}

// TestTenantContext creates a context with a fake tenant for simple unit tests
// that don't need actual database isolation.
func TestTenantContext() context.Context {
	return tenant.WithTenantContext(
		context.Background(),
		"test-tenant-id",
		"test-tenant",
		"tenant_test",
	)
}

// StaffingMigrations returns the staffing service schema for tests
func StaffingMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS theatre_sessions (
			tenant_id UUID NOT NULL,
			theatre_id VARCHAR(100) NOT NULL,
			date DATE NOT NULL,
			session_type VARCHAR(20) NOT NULL DEFAULT 'day',
			specialty VARCHAR(255) NOT NULL DEFAULT '',
			subspecialty VARCHAR(255) NOT NULL DEFAULT '',
			surgeon_id VARCHAR(100) NOT NULL DEFAULT '',
			surgeon_assistant_id VARCHAR(100) NOT NULL DEFAULT '',
			anaesthetist_id VARCHAR(100) NOT NULL DEFAULT '',
			anaesthetist_assistant_id VARCHAR(100) NOT NULL DEFAULT '',
			closed_reason TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by VARCHAR(255) NOT NULL DEFAULT '',
			CONSTRAINT theatre_sessions_session_key UNIQUE (tenant_id, theatre_id, date),
			CONSTRAINT theatre_sessions_session_type_valid
				CHECK (session_type IN ('day', 'long-day', 'night', 'emergency', 'closed'))
		)`,

		`CREATE TABLE IF NOT EXISTS session_cases (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL,
			session_id VARCHAR(120) NOT NULL,
			date DATE NOT NULL,
			procedure_name VARCHAR(255) NOT NULL,
			specialty VARCHAR(255) NOT NULL DEFAULT '',
			subspecialty VARCHAR(255) NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_cases_date ON session_cases(tenant_id, date)`,

		`CREATE TABLE IF NOT EXISTS staff_allocations (
			tenant_id UUID NOT NULL,
			session_id VARCHAR(120) NOT NULL,
			roles JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by VARCHAR(255) NOT NULL DEFAULT '',
			CONSTRAINT staff_allocations_allocation_slot UNIQUE (tenant_id, session_id)
		)`,

		`CREATE TABLE IF NOT EXISTS auxiliary_staffing (
			tenant_id UUID NOT NULL,
			date DATE NOT NULL,
			roles JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY (tenant_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS night_staffing (
			tenant_id UUID NOT NULL,
			date DATE NOT NULL,
			roles JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY (tenant_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS theatre_units (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			theatre_ids TEXT[] NOT NULL DEFAULT '{}'
		)`,

		`CREATE TABLE IF NOT EXISTS role_templates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL,
			unit_id VARCHAR(100) NOT NULL DEFAULT '',
			role_id VARCHAR(100) NOT NULL DEFAULT '',
			role_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			applicable_session VARCHAR(20) NOT NULL DEFAULT 'all',
			location VARCHAR(30) NOT NULL DEFAULT 'all',
			specific_theatre_ids TEXT[] NOT NULL DEFAULT '{}',
			position INT NOT NULL DEFAULT 0,
			CONSTRAINT role_templates_count_non_negative CHECK (quantity >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS procedure_role_mappers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL,
			specialty_name VARCHAR(255) NOT NULL,
			subspecialty VARCHAR(255) NOT NULL DEFAULT '',
			keywords TEXT[] NOT NULL DEFAULT '{}',
			roles JSONB NOT NULL DEFAULT '[]',
			requirements JSONB,
			position INT NOT NULL DEFAULT 0
		)`,
	}
}
