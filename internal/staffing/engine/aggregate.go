package engine

import (
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// Aggregator holds the rule configuration that applies to every date
type Aggregator struct {
	Unit      domain.Unit
	Templates []domain.DefaultRoleTemplate
	Mappers   []domain.ProcedureRoleMapper
}

// AggregateInput is the loaded data for a date range. Maps are keyed by ISO
// date, CasesBySession by the "{theatreId}-{date}" session key.
type AggregateInput struct {
	Dates           []string
	SessionsByDate  map[string][]domain.Session
	AuxiliaryByDate map[string][]domain.AuxiliaryStaffingRecord
	NightByDate     map[string][]domain.NightStaffingRecord
	CasesBySession  map[string][]domain.Case
	Allocations     []domain.StaffAllocation
}

// SessionRequirements returns the template and procedure requirements of one
// session, summed by role name. Cases without a specialty inherit the session's.
func (a Aggregator) SessionRequirements(session domain.Session, cases []domain.Case) []domain.RoleRequirement {
	if len(cases) > 0 && session.Specialty != "" {
		withSpecialty := make([]domain.Case, len(cases))
		for i, c := range cases {
			if c.Specialty == "" {
				c.Specialty = session.Specialty
				if c.Subspecialty == "" {
					c.Subspecialty = session.Subspecialty
				}
			}
			withSpecialty[i] = c
		}
		cases = withSpecialty
	}

	return MergeRoles(
		ResolveTemplates(session, a.Unit, a.Templates),
		CalculateProcedureRoles(cases, a.Mappers),
	)
}

// Aggregate builds one summary per date, in the order given. Dates that are
// not ISO calendar dates are skipped. A date with nothing scheduled still gets
// a zeroed summary.
func (a Aggregator) Aggregate(in AggregateInput) []domain.DailyRequirementSummary {
	assigned := allocationsByDate(in.Allocations)

	out := make([]domain.DailyRequirementSummary, 0, len(in.Dates))
	for _, date := range in.Dates {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			continue
		}

		summary := domain.NewDailyRequirementSummary(date)

		// 1. Theatre sessions, attributed to the session's shift bucket
		for _, session := range in.SessionsByDate[date] {
			if !session.IsActive() {
				continue
			}
			bucket := ShiftBucketFor(session.SessionType)
			for _, r := range a.SessionRequirements(session, in.CasesBySession[session.ID()]) {
				summary.TheatreTotal += addRequirement(&summary, r, bucket)
			}
		}

		// 2. Auxiliary pool, always day shift
		for _, rec := range in.AuxiliaryByDate[date] {
			for _, r := range rec.Roles {
				summary.AuxiliaryTotal += addRequirement(&summary, r, domain.BucketDay)
			}
		}

		// 3. Night pool, always night shift
		for _, rec := range in.NightByDate[date] {
			for _, r := range rec.Roles {
				summary.NightTotal += addRequirement(&summary, r, domain.BucketNight)
			}
		}

		summary.Total = summary.TheatreTotal + summary.AuxiliaryTotal + summary.NightTotal

		// Assignments are tracked beside the requirement, never inside it
		for _, alloc := range assigned[date] {
			for _, r := range alloc.Roles {
				name := NormalizeRoleName(r.RoleName)
				if r.Quantity <= 0 || name == "" {
					continue
				}
				summary.AssignedTally[name] += r.Quantity
				summary.AssignedBySession[alloc.SessionID] += r.Quantity
				summary.AssignedTotal += r.Quantity
			}
		}

		out = append(out, summary)
	}
	return out
}

// addRequirement merges one normalized requirement and returns the quantity added
func addRequirement(s *domain.DailyRequirementSummary, r domain.RoleRequirement, bucket domain.ShiftBucket) int {
	name := NormalizeRoleName(r.RoleName)
	if r.Quantity <= 0 || name == "" {
		return 0
	}
	s.RoleTally[name] += r.Quantity
	s.RoleByShiftType[name] = s.RoleByShiftType[name].Add(bucket, r.Quantity)
	return r.Quantity
}

func allocationsByDate(allocs []domain.StaffAllocation) map[string][]domain.StaffAllocation {
	byDate := make(map[string][]domain.StaffAllocation)
	for _, alloc := range allocs {
		_, date, err := domain.ParseSessionKey(alloc.SessionID)
		if err != nil {
			continue
		}
		byDate[date] = append(byDate[date], alloc)
	}
	return byDate
}
