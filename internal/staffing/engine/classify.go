// Package engine computes staffing requirements from sessions, role templates,
// procedure mappers and the location-independent pools. Everything in it is
// pure and synchronous; loading and persisting belongs to the service layer.
package engine

import (
	"strings"
	"time"
	"unicode"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// nightQualifier is the structural prefix night-pool role names carry
const nightQualifier = "night"

// ShiftBucketFor classifies a session type. It is total: long-day and night
// map to their buckets and every other value, including unknown and empty
// types, is a day session.
func ShiftBucketFor(t domain.SessionType) domain.ShiftBucket {
	switch t {
	case domain.SessionLongDay:
		return domain.BucketLongDay
	case domain.SessionNight:
		return domain.BucketNight
	default:
		return domain.BucketDay
	}
}

// IsWeekend reports whether t falls on Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NormalizeRoleName strips leading "Night" qualifiers (any case, followed by
// whitespace) and surrounding whitespace. Normalizing twice is a no-op.
func NormalizeRoleName(name string) string {
	name = strings.TrimSpace(name)
	n := len(nightQualifier)
	for len(name) > n && strings.EqualFold(name[:n], nightQualifier) && unicode.IsSpace(rune(name[n])) {
		name = strings.TrimSpace(name[n:])
	}
	return name
}

// roleTally accumulates quantities by role name, keeping first-seen order
type roleTally struct {
	order []string
	roles map[string]domain.RoleRequirement
}

func newRoleTally() *roleTally {
	return &roleTally{roles: make(map[string]domain.RoleRequirement)}
}

func (t *roleTally) add(r domain.RoleRequirement) {
	if r.Quantity <= 0 || r.RoleName == "" {
		return
	}
	existing, ok := t.roles[r.RoleName]
	if !ok {
		t.order = append(t.order, r.RoleName)
		t.roles[r.RoleName] = r
		return
	}
	existing.Quantity += r.Quantity
	if existing.RoleID == "" {
		existing.RoleID = r.RoleID
	}
	t.roles[r.RoleName] = existing
}

func (t *roleTally) list() []domain.RoleRequirement {
	out := make([]domain.RoleRequirement, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.roles[name])
	}
	return out
}

// MergeRoles sums requirement lists by role name, in first-appearance order.
// Zero and negative quantities contribute nothing.
func MergeRoles(lists ...[]domain.RoleRequirement) []domain.RoleRequirement {
	t := newRoleTally()
	for _, l := range lists {
		for _, r := range l {
			t.add(r)
		}
	}
	return t.list()
}
