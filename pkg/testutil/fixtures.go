package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Session creates a day session in a fresh theatre on 2025-10-27
func (f *FixtureFactory) Session(opts ...func(*domain.Session)) domain.Session {
	seq := f.nextSeq()

	s := domain.Session{
		TheatreID:   fmt.Sprintf("theatre-%d", seq),
		Date:        "2025-10-27",
		SessionType: domain.SessionDay,
		Specialty:   "General Surgery",
		UpdatedAt:   time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// InTheatre sets the session theatre
func InTheatre(theatreID string) func(*domain.Session) {
	return func(s *domain.Session) {
		s.TheatreID = theatreID
	}
}

// OnDate sets the session date
func OnDate(date string) func(*domain.Session) {
	return func(s *domain.Session) {
		s.Date = date
	}
}

// WithSpecialty sets the session specialty
func WithSpecialty(specialty string) func(*domain.Session) {
	return func(s *domain.Session) {
		s.Specialty = specialty
	}
}

// Closed marks the session closed with a reason
func Closed(reason string) func(*domain.Session) {
	return func(s *domain.Session) {
		s.SessionType = domain.SessionClosed
		s.ClosedReason = reason
	}
}

// Template creates a role template that applies everywhere
func (f *FixtureFactory) Template(role string, qty int, opts ...func(*domain.DefaultRoleTemplate)) domain.DefaultRoleTemplate {
	seq := f.nextSeq()

	t := domain.DefaultRoleTemplate{
		ID:                uuid.New().String(),
		RoleName:          role,
		Quantity:          qty,
		ApplicableSession: domain.ApplicableAll,
		Location:          domain.LocationAll,
		Position:          seq,
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

// AppliesTo restricts a template to a session class
func AppliesTo(a domain.ApplicableSession) func(*domain.DefaultRoleTemplate) {
	return func(t *domain.DefaultRoleTemplate) {
		t.ApplicableSession = a
	}
}

// AtLocation scopes a template, listing theatres for specific-theatres
func AtLocation(loc domain.Location, theatreIDs ...string) func(*domain.DefaultRoleTemplate) {
	return func(t *domain.DefaultRoleTemplate) {
		t.Location = loc
		t.SpecificTheatreIDs = theatreIDs
	}
}

// Mapper creates a procedure role mapper for a specialty
func (f *FixtureFactory) Mapper(specialty string, roles domain.RoleList, keywords ...string) domain.ProcedureRoleMapper {
	return domain.ProcedureRoleMapper{
		ID:            uuid.New().String(),
		SpecialtyName: specialty,
		Keywords:      keywords,
		Roles:         roles,
		Position:      f.nextSeq(),
	}
}

// DefaultTemplates returns a small rule set resembling a typical theatre suite
func DefaultTemplates(factory *FixtureFactory) []domain.DefaultRoleTemplate {
	return []domain.DefaultRoleTemplate{
		factory.Template("Scrub N/P", 2, AtLocation(domain.LocationInsideTheatres)),
		factory.Template("Anaes N/P", 1, AtLocation(domain.LocationInsideTheatres)),
		factory.Template("HCA", 1, AppliesTo(domain.ApplicableWeekdayDay), AtLocation(domain.LocationInsideTheatres)),
		factory.Template("Recovery N/P", 2, AtLocation(domain.LocationOutsideTheatres)),
	}
}
