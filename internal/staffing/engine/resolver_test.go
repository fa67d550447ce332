package engine

import (
	"testing"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/stretchr/testify/assert"
)

func tmpl(role string, qty int, applies domain.ApplicableSession, loc domain.Location, theatres ...string) domain.DefaultRoleTemplate {
	return domain.DefaultRoleTemplate{
		RoleName:           role,
		Quantity:           qty,
		ApplicableSession:  applies,
		Location:           loc,
		SpecificTheatreIDs: theatres,
	}
}

func session(theatre, date string, t domain.SessionType) domain.Session {
	return domain.Session{TheatreID: theatre, Date: date, SessionType: t}
}

func TestResolveTemplates_Applicability(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("Scrub N/P", 2, domain.ApplicableAll, domain.LocationAll),
		tmpl("Anaes N/P", 1, domain.ApplicableDay, domain.LocationInsideTheatres),
		tmpl("Night ODP", 1, domain.ApplicableNight, domain.LocationAll),
		tmpl("Trauma Coordinator", 1, domain.ApplicableEmergency, domain.LocationAll),
		tmpl("Recovery", 1, domain.ApplicableWeekdayDay, domain.LocationAll),
		tmpl("Weekend Porter", 1, domain.ApplicableWeekendDay, domain.LocationAll),
	}

	tests := []struct {
		name    string
		session domain.Session
		want    []domain.RoleRequirement
	}{
		{
			name:    "weekday day session",
			session: session("t1", "2025-10-27", domain.SessionDay),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
				{RoleName: "Anaes N/P", Quantity: 1},
				{RoleName: "Recovery", Quantity: 1},
			},
		},
		{
			name:    "weekend day session",
			session: session("t1", "2025-11-01", domain.SessionDay),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
				{RoleName: "Anaes N/P", Quantity: 1},
				{RoleName: "Weekend Porter", Quantity: 1},
			},
		},
		{
			name:    "night session",
			session: session("t1", "2025-10-27", domain.SessionNight),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
				{RoleName: "Night ODP", Quantity: 1},
			},
		},
		{
			name:    "long day only gets all-session templates",
			session: session("t1", "2025-10-27", domain.SessionLongDay),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
			},
		},
		{
			name:    "emergency is a day bucket plus emergency templates",
			session: session("t1", "2025-10-27", domain.SessionEmergency),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
				{RoleName: "Anaes N/P", Quantity: 1},
				{RoleName: "Trauma Coordinator", Quantity: 1},
				{RoleName: "Recovery", Quantity: 1},
			},
		},
		{
			name:    "unknown session type defaults to day",
			session: session("t1", "2025-10-27", "hybrid"),
			want: []domain.RoleRequirement{
				{RoleName: "Scrub N/P", Quantity: 2},
				{RoleName: "Anaes N/P", Quantity: 1},
				{RoleName: "Recovery", Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTemplates(tt.session, domain.Unit{ID: "main"}, templates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTemplates_OutsideTheatresNeverContributes(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("Runner", 1, domain.ApplicableAll, domain.LocationOutsideTheatres),
		tmpl("Runner", 3, domain.ApplicableDay, domain.LocationOutsideTheatres),
		tmpl("Night Runner", 1, domain.ApplicableNight, domain.LocationOutsideTheatres),
	}

	for _, st := range []domain.SessionType{domain.SessionDay, domain.SessionLongDay, domain.SessionNight, domain.SessionEmergency, "other"} {
		for _, theatre := range []string{"t1", "t2", "t9"} {
			got := ResolveTemplates(session(theatre, "2025-10-27", st), domain.Unit{}, templates)
			assert.Empty(t, got, "session type %s theatre %s", st, theatre)
		}
	}
}

func TestResolveTemplates_SpecificTheatres(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("Laser Tech", 1, domain.ApplicableAll, domain.LocationSpecificTheatres, "t2", "t3"),
	}

	assert.Empty(t, ResolveTemplates(session("t1", "2025-10-27", domain.SessionDay), domain.Unit{}, templates))
	assert.Equal(t,
		[]domain.RoleRequirement{{RoleName: "Laser Tech", Quantity: 1}},
		ResolveTemplates(session("t3", "2025-10-27", domain.SessionDay), domain.Unit{}, templates),
	)
}

func TestResolveTemplates_SumsSameRole(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("Scrub N/P", 2, domain.ApplicableAll, domain.LocationAll),
		tmpl("HCA", 1, domain.ApplicableAll, domain.LocationAll),
		tmpl("Scrub N/P", 1, domain.ApplicableDay, domain.LocationInsideTheatres),
	}

	got := ResolveTemplates(session("t1", "2025-10-27", domain.SessionDay), domain.Unit{}, templates)
	assert.Equal(t, []domain.RoleRequirement{
		{RoleName: "Scrub N/P", Quantity: 3},
		{RoleName: "HCA", Quantity: 1},
	}, got)
}

func TestResolveTemplates_UnitScoping(t *testing.T) {
	unit := domain.Unit{ID: "main", TheatreIDs: []string{"t1", "t2"}}
	templates := []domain.DefaultRoleTemplate{
		{UnitID: "main", RoleName: "Scrub N/P", Quantity: 2, ApplicableSession: domain.ApplicableAll, Location: domain.LocationAll},
		{UnitID: "day-surgery", RoleName: "HCA", Quantity: 1, ApplicableSession: domain.ApplicableAll, Location: domain.LocationAll},
	}

	assert.Equal(t,
		[]domain.RoleRequirement{{RoleName: "Scrub N/P", Quantity: 2}},
		ResolveTemplates(session("t1", "2025-10-27", domain.SessionDay), unit, templates),
	)
	assert.Empty(t, ResolveTemplates(session("t7", "2025-10-27", domain.SessionDay), unit, templates))
}

func TestResolveTemplates_Deterministic(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("A", 1, domain.ApplicableAll, domain.LocationAll),
		tmpl("B", 2, domain.ApplicableDay, domain.LocationAll),
		tmpl("A", 3, domain.ApplicableWeekdayDay, domain.LocationAll),
	}
	s := session("t1", "2025-10-28", domain.SessionDay)

	first := ResolveTemplates(s, domain.Unit{}, templates)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ResolveTemplates(s, domain.Unit{}, templates))
	}
}

func TestResolveTemplates_MalformedDateSkipsDayOfWeekTemplates(t *testing.T) {
	templates := []domain.DefaultRoleTemplate{
		tmpl("Scrub N/P", 1, domain.ApplicableAll, domain.LocationAll),
		tmpl("Recovery", 1, domain.ApplicableWeekdayDay, domain.LocationAll),
	}
	got := ResolveTemplates(session("t1", "27/10/2025", domain.SessionDay), domain.Unit{}, templates)
	assert.Equal(t, []domain.RoleRequirement{{RoleName: "Scrub N/P", Quantity: 1}}, got)
}

func TestResolveTemplates_IncompleteSessionPanics(t *testing.T) {
	assert.Panics(t, func() {
		ResolveTemplates(domain.Session{Date: "2025-10-27"}, domain.Unit{}, nil)
	})
	assert.Panics(t, func() {
		ResolveTemplates(domain.Session{TheatreID: "t1"}, domain.Unit{}, nil)
	})
}
