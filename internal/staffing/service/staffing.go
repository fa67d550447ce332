package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/bulkedit"
	"github.com/medflow/theatreops-backend/internal/staffing/client"
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/internal/staffing/engine"
	"github.com/medflow/theatreops-backend/internal/staffing/events"
	"github.com/medflow/theatreops-backend/pkg/actor"
	"github.com/medflow/theatreops-backend/pkg/errors"
	"github.com/medflow/theatreops-backend/pkg/logger"
	"github.com/medflow/theatreops-backend/pkg/tenant"
)

// Options configures the staffing service
type Options struct {
	HorizonWeeks int
	MaxRangeDays int
}

// RangeQuery selects dates and, optionally, theatres. Empty dates select the
// rolling horizon starting today.
type RangeQuery struct {
	Start      string
	End        string
	TheatreIDs []string
}

// BulkEditResult reports the sessions a bulk edit changed
type BulkEditResult struct {
	Updated []domain.Session `json:"updated"`
	Count   int              `json:"count"`
}

// StaffingService handles staffing requirement business logic
type StaffingService struct {
	sessions    SessionStore
	allocations AllocationStore
	pools       PoolStore
	rules       *RuleCache
	publisher   EventPublisher
	scorer      Scorer
	opts        Options
	logger      *logger.Logger
	now         func() time.Time
}

// NewStaffingService creates a new staffing service
func NewStaffingService(
	sessions SessionStore,
	allocations AllocationStore,
	pools PoolStore,
	rules *RuleCache,
	publisher EventPublisher,
	scorer Scorer,
	opts Options,
	log *logger.Logger,
) *StaffingService {
	return &StaffingService{
		sessions:    sessions,
		allocations: allocations,
		pools:       pools,
		rules:       rules,
		publisher:   publisher,
		scorer:      scorer,
		opts:        opts,
		logger:      log,
		now:         time.Now,
	}
}

// ResolveRange validates a requested range or falls back to the rolling horizon
func (s *StaffingService) ResolveRange(q RangeQuery) (domain.DateRange, error) {
	if q.Start == "" && q.End == "" {
		today := s.now().UTC().Truncate(24 * time.Hour)
		days := s.opts.HorizonWeeks * 7
		if days <= 0 {
			days = 1
		}
		return domain.DateRange{Start: today, End: today.AddDate(0, 0, days-1)}, nil
	}
	if q.Start == "" || q.End == "" {
		return domain.DateRange{}, errors.InvalidDateRange("start_date and end_date must be given together")
	}

	dr, err := domain.NewDateRange(q.Start, q.End)
	if err != nil {
		return domain.DateRange{}, errors.InvalidDateRange(err.Error())
	}
	if s.opts.MaxRangeDays > 0 && dr.Len() > s.opts.MaxRangeDays {
		return domain.DateRange{}, errors.InvalidDateRange(fmt.Sprintf("range exceeds %d days", s.opts.MaxRangeDays))
	}
	return dr, nil
}

// ============================================================================
// SUMMARIES
// ============================================================================

// Summaries computes the daily requirement summaries for a range
func (s *StaffingService) Summaries(ctx context.Context, q RangeQuery) ([]domain.DailyRequirementSummary, error) {
	dr, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}

	agg, err := s.rules.Aggregator(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.LoadSessions(ctx, dr, q.TheatreIDs)
	if err != nil {
		return nil, err
	}
	cases, err := s.sessions.LoadCases(ctx, dr, q.TheatreIDs)
	if err != nil {
		return nil, err
	}
	auxiliary, err := s.pools.LoadAuxiliary(ctx, dr)
	if err != nil {
		return nil, err
	}
	night, err := s.pools.LoadNight(ctx, dr)
	if err != nil {
		return nil, err
	}
	allocs, err := s.allocations.LoadAllocations(ctx)
	if err != nil {
		return nil, err
	}
	allocs = inTheatres(allocs, q.TheatreIDs)

	byDate := make(map[string][]domain.Session, dr.Len())
	for _, session := range sessions {
		byDate[session.Date] = append(byDate[session.Date], session)
	}

	summaries := agg.Aggregate(engine.AggregateInput{
		Dates:           dr.Days(),
		SessionsByDate:  byDate,
		AuxiliaryByDate: auxiliary,
		NightByDate:     night,
		CasesBySession:  cases,
		Allocations:     allocs,
	})

	s.logger.Debug().
		Str("start_date", dr.StartDate()).
		Str("end_date", dr.EndDate()).
		Int("sessions", len(sessions)).
		Msg("staffing summaries computed")

	return summaries, nil
}

// ============================================================================
// SESSIONS
// ============================================================================

// inTheatres keeps allocations whose session key names one of theatreIDs.
// An empty filter keeps everything.
func inTheatres(allocs []domain.StaffAllocation, theatreIDs []string) []domain.StaffAllocation {
	if len(theatreIDs) == 0 {
		return allocs
	}
	wanted := make(map[string]bool, len(theatreIDs))
	for _, id := range theatreIDs {
		wanted[id] = true
	}
	kept := make([]domain.StaffAllocation, 0, len(allocs))
	for _, alloc := range allocs {
		theatreID, _, err := domain.ParseSessionKey(alloc.SessionID)
		if err != nil || !wanted[theatreID] {
			continue
		}
		kept = append(kept, alloc)
	}
	return kept
}

// Sessions lists the sessions of a range
func (s *StaffingService) Sessions(ctx context.Context, q RangeQuery) ([]domain.Session, error) {
	dr, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	return s.sessions.LoadSessions(ctx, dr, q.TheatreIDs)
}

// SaveSessions stores a batch of sessions as given
func (s *StaffingService) SaveSessions(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	by := actor.FromContext(ctx).Ref()
	now := s.now().UTC()
	for i := range sessions {
		sessions[i].UpdatedAt = now
		sessions[i].UpdatedBy = by
	}

	if err := s.sessions.SaveSessions(ctx, sessions); err != nil {
		return err
	}

	tenantID, _ := tenant.TenantID(ctx)
	s.publisher.PublishSessionsUpdated(ctx, tenantID, sessions, nil, by)

	s.logger.Info().
		Int("sessions", len(sessions)).
		Str("updated_by", by).
		Msg("sessions saved")

	return nil
}

// BulkEdit applies one pending edit to a set of cells. Only sessions that
// actually change are written, in a single transaction.
func (s *StaffingService) BulkEdit(ctx context.Context, cells []bulkedit.Cell, edit bulkedit.PendingEdit) (*BulkEditResult, error) {
	if len(cells) == 0 {
		return &BulkEditResult{Updated: []domain.Session{}}, nil
	}

	dr, theatreIDs, err := cellBounds(cells)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessions.LoadSessions(ctx, dr, theatreIDs)
	if err != nil {
		return nil, err
	}

	_, changed := bulkedit.ApplyEdit(bulkedit.NewSnapshot(existing), cells, edit)
	if len(changed) == 0 {
		return &BulkEditResult{Updated: []domain.Session{}}, nil
	}

	by := actor.FromContext(ctx).Ref()
	now := s.now().UTC()
	for i := range changed {
		changed[i].UpdatedAt = now
		changed[i].UpdatedBy = by
	}

	if err := s.sessions.SaveSessions(ctx, changed); err != nil {
		return nil, err
	}

	fields := edit.ChangedFields()
	tenantID, _ := tenant.TenantID(ctx)
	s.publisher.PublishSessionsUpdated(ctx, tenantID, changed, fields, by)

	s.logger.Info().
		Int("cells", len(cells)).
		Int("changed", len(changed)).
		Strs("fields", fields).
		Str("updated_by", by).
		Msg("bulk session edit applied")

	return &BulkEditResult{Updated: changed, Count: len(changed)}, nil
}

// cellBounds returns the smallest range and theatre set covering the cells
func cellBounds(cells []bulkedit.Cell) (domain.DateRange, []string, error) {
	first, last := cells[0].Date, cells[0].Date
	seen := make(map[string]bool)
	var theatreIDs []string
	for _, c := range cells {
		if c.Date < first {
			first = c.Date
		}
		if c.Date > last {
			last = c.Date
		}
		if !seen[c.TheatreID] {
			seen[c.TheatreID] = true
			theatreIDs = append(theatreIDs, c.TheatreID)
		}
	}
	sort.Strings(theatreIDs)

	dr, err := domain.NewDateRange(first, last)
	if err != nil {
		return domain.DateRange{}, nil, errors.InvalidDateRange(err.Error())
	}
	return dr, theatreIDs, nil
}

// ============================================================================
// ALLOCATIONS
// ============================================================================

// Allocations lists every allocation
func (s *StaffingService) Allocations(ctx context.Context) ([]domain.StaffAllocation, error) {
	return s.allocations.LoadAllocations(ctx)
}

// SaveAllocation replaces the allocation of a session
func (s *StaffingService) SaveAllocation(ctx context.Context, sessionID string, roles domain.RoleList) (*domain.StaffAllocation, error) {
	if _, _, err := domain.ParseSessionKey(sessionID); err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	alloc := domain.StaffAllocation{
		SessionID: sessionID,
		Roles:     roles,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: actor.FromContext(ctx).Ref(),
	}
	if err := s.allocations.SaveAllocation(ctx, alloc); err != nil {
		return nil, err
	}

	tenantID, _ := tenant.TenantID(ctx)
	s.publisher.PublishAllocationSaved(ctx, tenantID, alloc)

	s.logger.Info().
		Str("session_id", sessionID).
		Int("assigned", alloc.Roles.Total()).
		Msg("allocation saved")

	return &alloc, nil
}

// DeleteAllocation removes the allocation of a session
func (s *StaffingService) DeleteAllocation(ctx context.Context, sessionID string) error {
	if err := s.allocations.DeleteAllocation(ctx, sessionID); err != nil {
		return err
	}

	tenantID, _ := tenant.TenantID(ctx)
	s.publisher.PublishAllocationDeleted(ctx, tenantID, sessionID, actor.FromContext(ctx).Ref())

	s.logger.Info().Str("session_id", sessionID).Msg("allocation deleted")
	return nil
}

// RankCandidates orders candidate staff for a session using the external scorer
func (s *StaffingService) RankCandidates(ctx context.Context, sessionID string, candidateIDs []string) ([]client.CandidateScore, error) {
	if _, _, err := domain.ParseSessionKey(sessionID); err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	return s.scorer.Rank(ctx, sessionID, candidateIDs)
}

// ============================================================================
// POOLS
// ============================================================================

// Auxiliary lists the auxiliary pool records of a range in date order
func (s *StaffingService) Auxiliary(ctx context.Context, q RangeQuery) ([]domain.AuxiliaryStaffingRecord, error) {
	dr, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	byDate, err := s.pools.LoadAuxiliary(ctx, dr)
	if err != nil {
		return nil, err
	}

	out := []domain.AuxiliaryStaffingRecord{}
	for _, date := range dr.Days() {
		out = append(out, byDate[date]...)
	}
	return out, nil
}

// Night lists the night pool records of a range in date order
func (s *StaffingService) Night(ctx context.Context, q RangeQuery) ([]domain.NightStaffingRecord, error) {
	dr, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	byDate, err := s.pools.LoadNight(ctx, dr)
	if err != nil {
		return nil, err
	}

	out := []domain.NightStaffingRecord{}
	for _, date := range dr.Days() {
		out = append(out, byDate[date]...)
	}
	return out, nil
}

// SaveAuxiliary replaces the auxiliary pool of a date
func (s *StaffingService) SaveAuxiliary(ctx context.Context, date string, roles domain.RoleList) (*domain.AuxiliaryStaffingRecord, error) {
	rec := domain.AuxiliaryStaffingRecord{
		Date:      date,
		Roles:     roles,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: actor.FromContext(ctx).Ref(),
	}
	if err := s.pools.SaveAuxiliary(ctx, rec); err != nil {
		return nil, err
	}

	s.poolSaved(ctx, events.PoolAuxiliary, date, roles, rec.UpdatedBy)
	return &rec, nil
}

// SaveNight replaces the night pool of a date
func (s *StaffingService) SaveNight(ctx context.Context, date string, roles domain.RoleList) (*domain.NightStaffingRecord, error) {
	rec := domain.NightStaffingRecord{
		Date:      date,
		Roles:     roles,
		UpdatedAt: s.now().UTC(),
		UpdatedBy: actor.FromContext(ctx).Ref(),
	}
	if err := s.pools.SaveNight(ctx, rec); err != nil {
		return nil, err
	}

	s.poolSaved(ctx, events.PoolNight, date, roles, rec.UpdatedBy)
	return &rec, nil
}

func (s *StaffingService) poolSaved(ctx context.Context, pool, date string, roles domain.RoleList, by string) {
	tenantID, _ := tenant.TenantID(ctx)
	s.publisher.PublishPoolUpdated(ctx, tenantID, pool, date, roles, by)

	s.logger.Info().
		Str("pool", pool).
		Str("date", date).
		Int("total", roles.Total()).
		Msg("staffing pool saved")
}
