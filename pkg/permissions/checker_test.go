package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		perms    []string
		required string
		want     bool
	}{
		{"empty requirement", nil, "", true},
		{"full access", []string{"*"}, StaffingWrite, true},
		{"exact match", []string{StaffingRead}, StaffingRead, true},
		{"resource wildcard", []string{"staffing.*"}, StaffingPoolsWrite, true},
		{"other resource wildcard", []string{"inventory.*"}, StaffingWrite, false},
		{"read does not grant write", []string{StaffingRead}, StaffingWrite, false},
		{"prefix without dot does not match", []string{"staff.*"}, StaffingWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.perms, tt.required))
		})
	}
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, HasAnyPermission([]string{StaffingExport}, []string{StaffingRead, StaffingExport}))
	assert.False(t, HasAnyPermission([]string{StaffingRead}, []string{StaffingWrite, StaffingExport}))
}

func TestParseHeader(t *testing.T) {
	assert.Equal(t, []string{"staffing.read", "staffing.write"}, ParseHeader(`["staffing.read","staffing.write"]`))
	assert.Nil(t, ParseHeader(""))
	assert.Nil(t, ParseHeader("not-json"))
}

func TestIsValidPermission(t *testing.T) {
	assert.True(t, IsValidPermission("*"))
	assert.True(t, IsValidPermission(StaffingPoolsWrite))
	assert.True(t, IsValidPermission("reports.export"))
	assert.False(t, IsValidPermission("staffing"))
}
