package service

import (
	"context"

	"github.com/medflow/theatreops-backend/internal/staffing/client"
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// SessionStore persists theatre sessions and their cases
type SessionStore interface {
	LoadSessions(ctx context.Context, dr domain.DateRange, theatreIDs []string) ([]domain.Session, error)
	SaveSessions(ctx context.Context, sessions []domain.Session) error
	LoadCases(ctx context.Context, dr domain.DateRange, theatreIDs []string) (map[string][]domain.Case, error)
}

// AllocationStore persists per-session staff allocations
type AllocationStore interface {
	LoadAllocations(ctx context.Context) ([]domain.StaffAllocation, error)
	SaveAllocation(ctx context.Context, alloc domain.StaffAllocation) error
	DeleteAllocation(ctx context.Context, sessionID string) error
}

// PoolStore persists the auxiliary and night staffing pools
type PoolStore interface {
	LoadAuxiliary(ctx context.Context, dr domain.DateRange) (map[string][]domain.AuxiliaryStaffingRecord, error)
	LoadNight(ctx context.Context, dr domain.DateRange) (map[string][]domain.NightStaffingRecord, error)
	SaveAuxiliary(ctx context.Context, rec domain.AuxiliaryStaffingRecord) error
	SaveNight(ctx context.Context, rec domain.NightStaffingRecord) error
}

// RuleStore reads the rule configuration
type RuleStore interface {
	GetUnit(ctx context.Context, id string) (*domain.Unit, error)
	ListTemplates(ctx context.Context, unitID string) ([]domain.DefaultRoleTemplate, error)
	ListMappers(ctx context.Context) ([]domain.ProcedureRoleMapper, error)
}

// EventPublisher announces committed changes
type EventPublisher interface {
	PublishSessionsUpdated(ctx context.Context, tenantID string, sessions []domain.Session, fields []string, updatedBy string)
	PublishAllocationSaved(ctx context.Context, tenantID string, alloc domain.StaffAllocation)
	PublishAllocationDeleted(ctx context.Context, tenantID, sessionID, deletedBy string)
	PublishPoolUpdated(ctx context.Context, tenantID, pool, date string, roles domain.RoleList, updatedBy string)
}

// Scorer ranks candidate staff for a session
type Scorer interface {
	Rank(ctx context.Context, sessionID string, candidateIDs []string) ([]client.CandidateScore, error)
}
