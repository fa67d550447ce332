package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// Querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// WithTenantRLS executes a function with RLS-based tenant isolation.
//
// Usage in repositories:
//
//	tenantID, err := tenant.TenantID(ctx)
//	if err != nil { return err }
//	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
//	    return r.db.Q(ctx).GetContext(ctx, &s, "SELECT * FROM theatre_sessions WHERE id = $1", id)
//	})
//
// The transaction sets "SET LOCAL search_path" to the service schema and binds
// app.current_tenant through set_config so RLS policies of the form
// USING (tenant_id = current_setting('app.current_tenant')::uuid) filter rows.
// Both settings are transaction scoped and cleared on commit. A call made
// inside another WithTenantRLS joins the outer transaction.
func (db *DB) WithTenantRLS(ctx context.Context, tenantID string, fn func(context.Context) error) error {
	if db.getTx(ctx) != nil {
		return fn(ctx)
	}
	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		searchPath := db.searchPath
		if searchPath == "" {
			searchPath = "public"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL search_path TO %s", searchPath)); err != nil {
			return fmt.Errorf("failed to set search_path to %s: %w", searchPath, err)
		}

		// set_config with is_local=true behaves like SET LOCAL but accepts a bind parameter
		if _, err := tx.ExecContext(ctx, SetTenantQuery, tenantID); err != nil {
			return fmt.Errorf("failed to set app.current_tenant to %s: %w", tenantID, err)
		}

		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// SetTenantQuery binds the tenant for the current transaction
const SetTenantQuery = "SELECT set_config('app.current_tenant', $1, true)"

// Q returns the transaction bound to ctx by WithTenantRLS, or the pool itself
func (db *DB) Q(ctx context.Context) Querier {
	if tx := db.getTx(ctx); tx != nil {
		return tx
	}
	return db.DB
}

// getTx extracts transaction from context if present
func (db *DB) getTx(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}
