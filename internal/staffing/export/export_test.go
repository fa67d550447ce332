package export_test

import (
	"bytes"
	"testing"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/internal/staffing/export"
	"github.com/medflow/theatreops-backend/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func summaries() []domain.DailyRequirementSummary {
	day := domain.NewDailyRequirementSummary("2025-10-27")
	day.TheatreTotal = 3
	day.NightTotal = 1
	day.Total = 4
	day.RoleTally["Scrub N/P"] = 3
	day.RoleTally["HCA"] = 1
	day.RoleByShiftType["Scrub N/P"] = domain.ShiftBreakdown{Day: 2, Night: 1}
	day.RoleByShiftType["HCA"] = domain.ShiftBreakdown{LongDay: 1}
	day.AssignedTotal = 2
	day.AssignedTally["Scrub N/P"] = 1
	day.AssignedTally["Porter"] = 1

	return []domain.DailyRequirementSummary{day, domain.NewDailyRequirementSummary("2025-10-28")}
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbook(t *testing.T) {
	data, err := export.Workbook(summaries(), i18n.NewLocalizer(i18n.LocaleEnglish))
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Requirements", "By Role"}, f.GetSheetList())

	rows, err := f.GetRows("Requirements")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Theatre", "Auxiliary", "Night", "Total", "Assigned"}, rows[0])
	assert.Equal(t, []string{"2025-10-27", "3", "0", "1", "4", "2"}, rows[1])
	assert.Equal(t, []string{"2025-10-28", "0", "0", "0", "0", "0"}, rows[2])

	roles, err := f.GetRows("By Role")
	require.NoError(t, err)
	require.Len(t, roles, 4)
	assert.Equal(t, []string{"2025-10-27", "HCA", "0", "1", "0", "1", "0"}, roles[1])
	assert.Equal(t, []string{"2025-10-27", "Porter", "0", "0", "0", "0", "1"}, roles[2])
	assert.Equal(t, []string{"2025-10-27", "Scrub N/P", "2", "0", "1", "3", "1"}, roles[3])
}

func TestWorkbook_Localized(t *testing.T) {
	data, err := export.Workbook(nil, i18n.NewLocalizer(i18n.LocaleGerman))
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Bedarf", "Nach Rolle"}, f.GetSheetList())

	rows, err := f.GetRows("Bedarf")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Datum", rows[0][0])
}
