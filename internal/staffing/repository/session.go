package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

const sessionColumns = `
	theatre_id, date::text AS date, session_type, specialty, subspecialty,
	surgeon_id, surgeon_assistant_id, anaesthetist_id, anaesthetist_assistant_id,
	closed_reason, notes, updated_at, updated_by`

// SessionRepository handles theatre session and case persistence
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LoadSessions returns the sessions within a date range, optionally limited to
// some theatres, ordered by date then theatre
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *SessionRepository) LoadSessions(ctx context.Context, dr domain.DateRange, theatreIDs []string) ([]domain.Session, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []domain.Session

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query, args := rangeQuery(
			"SELECT"+sessionColumns+" FROM theatre_sessions",
			dr, theatreIDs, "ORDER BY date, theatre_id",
		)
		return r.db.Q(ctx).SelectContext(ctx, &sessions, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	return sessions, nil
}

// SaveSessions upserts a batch of sessions in one transaction. The last write
// for a theatre and date wins.
// TENANT-ISOLATED: Writes carry the tenant ID checked by RLS
func (r *SessionRepository) SaveSessions(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query := `
			INSERT INTO theatre_sessions (
				tenant_id, theatre_id, date, session_type, specialty, subspecialty,
				surgeon_id, surgeon_assistant_id, anaesthetist_id, anaesthetist_assistant_id,
				closed_reason, notes, updated_at, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (tenant_id, theatre_id, date) DO UPDATE SET
				session_type = EXCLUDED.session_type,
				specialty = EXCLUDED.specialty,
				subspecialty = EXCLUDED.subspecialty,
				surgeon_id = EXCLUDED.surgeon_id,
				surgeon_assistant_id = EXCLUDED.surgeon_assistant_id,
				anaesthetist_id = EXCLUDED.anaesthetist_id,
				anaesthetist_assistant_id = EXCLUDED.anaesthetist_assistant_id,
				closed_reason = EXCLUDED.closed_reason,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at,
				updated_by = EXCLUDED.updated_by
		`
		for _, s := range sessions {
			_, err := r.db.Q(ctx).ExecContext(ctx, query,
				tenantID, s.TheatreID, s.Date, string(s.SessionType), s.Specialty, s.Subspecialty,
				s.SurgeonID, s.SurgeonAssistantID, s.AnaesthetistID, s.AnaesthetistAssistantID,
				s.ClosedReason, s.Notes, s.UpdatedAt, s.UpdatedBy,
			)
			if err != nil {
				return mapError(fmt.Errorf("save session %s: %w", s.ID(), err))
			}
		}
		return nil
	})
}

// LoadCases returns the cases of sessions within a date range, keyed by
// session key and ordered by position
// TENANT-ISOLATED: RLS filters by app.current_tenant
func (r *SessionRepository) LoadCases(ctx context.Context, dr domain.DateRange, theatreIDs []string) (map[string][]domain.Case, error) {
	tenantID, err := tenant.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	var cases []domain.Case

	err = r.db.WithTenantRLS(ctx, tenantID, func(ctx context.Context) error {
		query, args := rangeQuery(
			`SELECT session_id, procedure_name, specialty, subspecialty, position FROM session_cases`,
			dr, nil, "ORDER BY session_id, position",
		)
		return r.db.Q(ctx).SelectContext(ctx, &cases, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("load cases: %w", err)
	}

	wanted := make(map[string]bool, len(theatreIDs))
	for _, id := range theatreIDs {
		wanted[id] = true
	}

	bySession := make(map[string][]domain.Case)
	for _, c := range cases {
		if len(wanted) > 0 {
			theatreID, _, err := domain.ParseSessionKey(c.SessionID)
			if err != nil || !wanted[theatreID] {
				continue
			}
		}
		bySession[c.SessionID] = append(bySession[c.SessionID], c)
	}
	return bySession, nil
}

// rangeQuery appends the date range and optional theatre filter to a select
func rangeQuery(base string, dr domain.DateRange, theatreIDs []string, order string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(" WHERE date BETWEEN $1 AND $2")
	args := []interface{}{dr.StartDate(), dr.EndDate()}

	if len(theatreIDs) > 0 {
		sb.WriteString(" AND theatre_id = ANY($3)")
		args = append(args, pq.StringArray(theatreIDs))
	}

	sb.WriteString(" ")
	sb.WriteString(order)
	return sb.String(), args
}
