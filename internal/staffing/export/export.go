// Package export renders requirement summaries as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/medflow/theatreops-backend/internal/staffing/domain"
	"github.com/medflow/theatreops-backend/pkg/i18n"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook builds an XLSX file with a per-date totals sheet and a per-role
// breakdown sheet, labelled in the localizer's language
func Workbook(summaries []domain.DailyRequirementSummary, l *i18n.Localizer) ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	totals := l.T("staffing.sheet_requirements")
	if err := f.SetSheetName("Sheet1", totals); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSheet(f, totals, headerStyle, totalsHeader(l), totalsRows(summaries)); err != nil {
		f.Close()
		return nil, err
	}

	byRole := l.T("staffing.sheet_by_role")
	if _, err := f.NewSheet(byRole); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeSheet(f, byRole, headerStyle, roleHeader(l), roleRows(summaries)); err != nil {
		f.Close()
		return nil, err
	}

	// File must remain open during WriteTo
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func totalsHeader(l *i18n.Localizer) []interface{} {
	return []interface{}{
		l.T("staffing.column_date"),
		l.T("staffing.column_theatre"),
		l.T("staffing.column_auxiliary"),
		l.T("staffing.column_night"),
		l.T("staffing.column_total"),
		l.T("staffing.column_assigned"),
	}
}

func totalsRows(summaries []domain.DailyRequirementSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{
			s.Date, s.TheatreTotal, s.AuxiliaryTotal, s.NightTotal, s.Total, s.AssignedTotal,
		})
	}
	return rows
}

func roleHeader(l *i18n.Localizer) []interface{} {
	return []interface{}{
		l.T("staffing.column_date"),
		l.T("staffing.column_role"),
		l.T("staffing.column_day"),
		l.T("staffing.column_long_day"),
		l.T("staffing.column_night"),
		l.T("staffing.column_total"),
		l.T("staffing.column_assigned"),
	}
}

// roleRows lists every required or assigned role per date, roles sorted by name
func roleRows(summaries []domain.DailyRequirementSummary) [][]interface{} {
	var rows [][]interface{}
	for _, s := range summaries {
		names := make([]string, 0, len(s.RoleTally))
		for name := range s.RoleTally {
			names = append(names, name)
		}
		for name := range s.AssignedTally {
			if _, ok := s.RoleTally[name]; !ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			b := s.RoleByShiftType[name]
			rows = append(rows, []interface{}{
				s.Date, name, b.Day, b.LongDay, b.Night, s.RoleTally[name], s.AssignedTally[name],
			})
		}
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
