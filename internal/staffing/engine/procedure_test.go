package engine

import (
	"testing"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roles(name string, qty int) domain.RoleList {
	return domain.RoleList{{RoleName: name, Quantity: qty}}
}

func TestCalculateProcedureRoles_KeywordScenario(t *testing.T) {
	mappers := []domain.ProcedureRoleMapper{
		{ID: "hip", SpecialtyName: "Orthopaedics", Keywords: []string{"hip"}, Roles: roles("Anaes N/P", 2)},
	}

	hip := CalculateProcedureRoles([]domain.Case{{ProcedureName: "Hip Replacement", Specialty: "Orthopaedics"}}, mappers)
	assert.Equal(t, []domain.RoleRequirement{{RoleName: "Anaes N/P", Quantity: 2}}, hip)

	knee := CalculateProcedureRoles([]domain.Case{{ProcedureName: "Knee Replacement", Specialty: "Orthopaedics"}}, mappers)
	assert.Empty(t, knee)
}

func TestMatchMapper(t *testing.T) {
	mappers := []domain.ProcedureRoleMapper{
		{ID: "ortho-default", SpecialtyName: "Orthopaedics", Roles: roles("Scrub N/P", 1)},
		{ID: "ortho-hip", SpecialtyName: "Orthopaedics", Keywords: []string{"hip", "femur"}, Roles: roles("Anaes N/P", 2)},
		{ID: "ortho-hip-revision", SpecialtyName: "Orthopaedics", Keywords: []string{"revision"}, Roles: roles("Anaes N/P", 3)},
		{ID: "spine", SpecialtyName: "Orthopaedics", Subspecialty: "Spine", Roles: roles("Radiographer", 1)},
		{ID: "spine-kw", SpecialtyName: "Orthopaedics", Subspecialty: "Spine", Keywords: []string{"fusion"}, Roles: roles("Neuro Monitor", 1)},
		{ID: "gen", SpecialtyName: "General Surgery", Roles: roles("HCA", 1)},
	}

	tests := []struct {
		name   string
		c      domain.Case
		wantID string
		wantOK bool
	}{
		{"keyword beats earlier keyword-less mapper", domain.Case{ProcedureName: "Total HIP replacement", Specialty: "Orthopaedics"}, "ortho-hip", true},
		{"first keyword mapper in order wins", domain.Case{ProcedureName: "Hip revision", Specialty: "Orthopaedics"}, "ortho-hip", true},
		{"falls back to keyword-less mapper", domain.Case{ProcedureName: "Knee arthroscopy", Specialty: "Orthopaedics"}, "ortho-default", true},
		{"specialty compared case-insensitively", domain.Case{ProcedureName: "Femur nailing", Specialty: " orthopaedics "}, "ortho-hip", true},
		{"subspecialty mapper needs matching subspecialty", domain.Case{ProcedureName: "Lumbar fusion", Specialty: "Orthopaedics", Subspecialty: "Spine"}, "spine-kw", true},
		{"subspecialty case still matches specialty-wide mapper", domain.Case{ProcedureName: "Discectomy", Specialty: "Orthopaedics", Subspecialty: "Spine"}, "ortho-default", true},
		{"unknown specialty", domain.Case{ProcedureName: "Hip replacement", Specialty: "Cardiology"}, "", false},
		{"no specialty", domain.Case{ProcedureName: "Hip replacement"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchMapper(tt.c, mappers)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, m.ID)
		})
	}
}

func TestCalculateProcedureRoles_AccumulatesAcrossCases(t *testing.T) {
	mappers := []domain.ProcedureRoleMapper{
		{SpecialtyName: "Orthopaedics", Keywords: []string{"hip"}, Roles: domain.RoleList{
			{RoleName: "Anaes N/P", Quantity: 2},
			{RoleName: "Scrub N/P", Quantity: 1},
		}},
		{SpecialtyName: "Orthopaedics", Roles: roles("Scrub N/P", 1)},
	}
	cases := []domain.Case{
		{ProcedureName: "Hip replacement", Specialty: "Orthopaedics"},
		{ProcedureName: "Knee replacement", Specialty: "Orthopaedics"},
		{ProcedureName: "Appendicectomy", Specialty: "General Surgery"},
	}

	got := CalculateProcedureRoles(cases, mappers)
	assert.Equal(t, []domain.RoleRequirement{
		{RoleName: "Anaes N/P", Quantity: 2},
		{RoleName: "Scrub N/P", Quantity: 2},
	}, got)
}

func TestMapperRoles_LegacyShape(t *testing.T) {
	m := domain.ProcedureRoleMapper{
		SpecialtyName: "Urology",
		Requirements:  &domain.LegacyRequirements{Anaesthetists: 1, ScrubNurses: 2},
	}

	got := MapperRoles(m)
	require.Len(t, got, 2)
	assert.Equal(t, domain.RoleRequirement{RoleID: "anaes-np", RoleName: "Anaes N/P", Quantity: 1}, got[0])
	assert.Equal(t, domain.RoleRequirement{RoleID: "scrub-np", RoleName: "Scrub N/P", Quantity: 2}, got[1])

	// roles take precedence over the legacy shape
	m.Roles = roles("HCA", 4)
	assert.Equal(t, []domain.RoleRequirement{{RoleName: "HCA", Quantity: 4}}, MapperRoles(m))

	assert.Nil(t, MapperRoles(domain.ProcedureRoleMapper{}))
}

func TestCalculateProcedureRoles_LegacyMapper(t *testing.T) {
	mappers := []domain.ProcedureRoleMapper{
		{SpecialtyName: "Urology", Requirements: &domain.LegacyRequirements{HCAs: 1}},
	}
	got := CalculateProcedureRoles([]domain.Case{
		{ProcedureName: "TURP", Specialty: "Urology"},
		{ProcedureName: "Cystoscopy", Specialty: "urology"},
	}, mappers)
	assert.Equal(t, []domain.RoleRequirement{{RoleID: "hca", RoleName: "HCA", Quantity: 2}}, got)
}
