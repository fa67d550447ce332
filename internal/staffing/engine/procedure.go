package engine

import (
	"strings"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
)

// Role names the legacy mapper shape translates into
var (
	legacyAnaesthetist = domain.RoleRequirement{RoleID: "anaes-np", RoleName: "Anaes N/P"}
	legacyScrubNurse   = domain.RoleRequirement{RoleID: "scrub-np", RoleName: "Scrub N/P"}
	legacyHCA          = domain.RoleRequirement{RoleID: "hca", RoleName: "HCA"}
)

// CalculateProcedureRoles maps a session's cases to additional requirements.
//
// Mappers are scanned in the order given; that order is the caller's contract.
// For each case the keyword mappers of its specialty are tried first, then the
// first keyword-less mapper. Only one mapper applies per case. Cases that match
// nothing add nothing.
func CalculateProcedureRoles(cases []domain.Case, mappers []domain.ProcedureRoleMapper) []domain.RoleRequirement {
	tally := newRoleTally()
	for _, c := range cases {
		m, ok := MatchMapper(c, mappers)
		if !ok {
			continue
		}
		for _, r := range MapperRoles(m) {
			tally.add(r)
		}
	}
	return tally.list()
}

// MatchMapper finds the mapper that applies to a case
func MatchMapper(c domain.Case, mappers []domain.ProcedureRoleMapper) (domain.ProcedureRoleMapper, bool) {
	if strings.TrimSpace(c.Specialty) == "" {
		return domain.ProcedureRoleMapper{}, false
	}
	procedure := strings.ToLower(c.ProcedureName)

	var fallback *domain.ProcedureRoleMapper
	for i := range mappers {
		m := &mappers[i]
		if !sameText(m.SpecialtyName, c.Specialty) {
			continue
		}
		if strings.TrimSpace(m.Subspecialty) != "" && !sameText(m.Subspecialty, c.Subspecialty) {
			continue
		}
		if !m.HasKeywords() {
			if fallback == nil {
				fallback = m
			}
			continue
		}
		for _, kw := range m.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(procedure, kw) {
				return *m, true
			}
		}
	}

	if fallback != nil {
		return *fallback, true
	}
	return domain.ProcedureRoleMapper{}, false
}

// MapperRoles returns a mapper's roles, translating the legacy shape when the
// mapper has no role list
func MapperRoles(m domain.ProcedureRoleMapper) []domain.RoleRequirement {
	if len(m.Roles) > 0 {
		return m.Roles
	}
	if m.Requirements == nil {
		return nil
	}

	var roles []domain.RoleRequirement
	for _, legacy := range []struct {
		role domain.RoleRequirement
		qty  int
	}{
		{legacyAnaesthetist, m.Requirements.Anaesthetists},
		{legacyScrubNurse, m.Requirements.ScrubNurses},
		{legacyHCA, m.Requirements.HCAs},
	} {
		if legacy.qty > 0 {
			r := legacy.role
			r.Quantity = legacy.qty
			roles = append(roles, r)
		}
	}
	return roles
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
