package engine

import (
	"fmt"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// ResolveTemplates turns a unit's default-role templates into the per-theatre
// requirement list of one session. Templates for the outside-theatres location
// never contribute here; they describe the auxiliary and night pools.
//
// A session without theatre or date is a caller bug and panics.
func ResolveTemplates(session domain.Session, unit domain.Unit, templates []domain.DefaultRoleTemplate) []domain.RoleRequirement {
	if session.TheatreID == "" || session.Date == "" {
		panic(fmt.Sprintf("engine: resolve templates for incomplete session %q", session.ID()))
	}

	if !unit.HasTheatre(session.TheatreID) {
		return []domain.RoleRequirement{}
	}

	bucket := ShiftBucketFor(session.SessionType)
	date, dateErr := time.Parse(domain.DateLayout, session.Date)

	tally := newRoleTally()
	for _, tmpl := range templates {
		if tmpl.UnitID != "" && unit.ID != "" && tmpl.UnitID != unit.ID {
			continue
		}
		if !locationApplies(tmpl, session.TheatreID) {
			continue
		}
		if !sessionApplies(tmpl.ApplicableSession, session.SessionType, bucket, date, dateErr == nil) {
			continue
		}
		tally.add(domain.RoleRequirement{
			RoleID:   tmpl.RoleID,
			RoleName: tmpl.RoleName,
			Quantity: tmpl.Quantity,
		})
	}
	return tally.list()
}

func locationApplies(tmpl domain.DefaultRoleTemplate, theatreID string) bool {
	switch tmpl.Location {
	case domain.LocationAll, domain.LocationInsideTheatres, "":
		return true
	case domain.LocationSpecificTheatres:
		for _, id := range tmpl.SpecificTheatreIDs {
			if id == theatreID {
				return true
			}
		}
		return false
	default:
		// outside-theatres and unknown locations
		return false
	}
}

func sessionApplies(a domain.ApplicableSession, t domain.SessionType, bucket domain.ShiftBucket, date time.Time, dateOK bool) bool {
	switch a {
	case domain.ApplicableAll, "":
		return true
	case domain.ApplicableDay:
		return bucket == domain.BucketDay
	case domain.ApplicableNight:
		return bucket == domain.BucketNight
	case domain.ApplicableEmergency:
		return t == domain.SessionEmergency
	case domain.ApplicableWeekdayDay:
		return bucket == domain.BucketDay && dateOK && !IsWeekend(date)
	case domain.ApplicableWeekendDay:
		return bucket == domain.BucketDay && dateOK && IsWeekend(date)
	default:
		return false
	}
}
