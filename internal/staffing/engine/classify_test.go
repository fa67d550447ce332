package engine

import (
	"testing"
	"time"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/stretchr/testify/assert"
)

func TestShiftBucketFor(t *testing.T) {
	tests := []struct {
		sessionType domain.SessionType
		want        domain.ShiftBucket
	}{
		{domain.SessionDay, domain.BucketDay},
		{domain.SessionLongDay, domain.BucketLongDay},
		{domain.SessionNight, domain.BucketNight},
		{domain.SessionEmergency, domain.BucketDay},
		{domain.SessionClosed, domain.BucketDay},
		{"", domain.BucketDay},
		{"twilight", domain.BucketDay},
	}

	for _, tt := range tests {
		t.Run(string(tt.sessionType), func(t *testing.T) {
			assert.Equal(t, tt.want, ShiftBucketFor(tt.sessionType))
		})
	}
}

func TestIsWeekend(t *testing.T) {
	// 2025-10-27 is a Monday
	monday := time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC)
	for i, want := range []bool{false, false, false, false, false, true, true} {
		day := monday.AddDate(0, 0, i)
		assert.Equal(t, want, IsWeekend(day), day.Weekday().String())
	}
}

func TestNormalizeRoleName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Night Scrub N/P", "Scrub N/P"},
		{"night scrub N/P", "scrub N/P"},
		{"NIGHT\tHCA", "HCA"},
		{"Night Night  HCA ", "HCA"},
		{"  Scrub N/P  ", "Scrub N/P"},
		{"Nightingale Nurse", "Nightingale Nurse"},
		{"Night", "Night"},
		{"Night ", "Night"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRoleName(tt.in))
		})
	}
}

func TestNormalizeRoleName_Idempotent(t *testing.T) {
	inputs := []string{
		"Night Scrub N/P", "night  night anaes", " Night\n Night\tHCA", "Night", "Night ",
		"nightnight", "Scrub", "", "   ", "Night Night", "NIGHT night Night x",
	}
	for _, in := range inputs {
		once := NormalizeRoleName(in)
		assert.Equal(t, once, NormalizeRoleName(once), "input %q", in)
	}
}

func TestMergeRoles(t *testing.T) {
	got := MergeRoles(
		[]domain.RoleRequirement{{RoleName: "Scrub N/P", Quantity: 2}, {RoleName: "HCA", Quantity: 0}},
		[]domain.RoleRequirement{{RoleID: "anaes-np", RoleName: "Anaes N/P", Quantity: 1}, {RoleID: "scrub-np", RoleName: "Scrub N/P", Quantity: 1}},
	)

	assert.Equal(t, []domain.RoleRequirement{
		{RoleID: "scrub-np", RoleName: "Scrub N/P", Quantity: 3},
		{RoleID: "anaes-np", RoleName: "Anaes N/P", Quantity: 1},
	}, got)
}
