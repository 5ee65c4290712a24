package parser

import (
	"fmt"

	"coursepulse/internal/model"
)

// DefaultHeaderScanRows rows inspected when looking for the header
const DefaultHeaderScanRows = 25

var headerCompanionFields = []model.CanonicalField{
	model.FieldEmail,
	model.FieldProgressPercent,
	model.FieldGrade,
}

// LocateHeader finds the first row within the scan window that has a
// name-like cell and, in another cell, an email/progress/grade-like label.
func (m *FieldMapper) LocateHeader(sheet model.Sheet, window int) (int, error) {
	if window <= 0 {
		window = DefaultHeaderScanRows
	}
	limit := len(sheet.Rows)
	if window < limit {
		limit = window
	}

	for r := 0; r < limit; r++ {
		if m.isHeaderRow(sheet.Rows[r]) {
			return r, nil
		}
	}
	return -1, fmt.Errorf("%w: sheet %q (first %d rows scanned)", model.ErrHeaderNotDetected, sheet.Name, limit)
}

func (m *FieldMapper) isHeaderRow(row []string) bool {
	nameCol := -1
	for i, cell := range row {
		if m.Matches(model.FieldName, NormalizeText(cell)) {
			nameCol = i
			break
		}
	}
	if nameCol < 0 {
		return false
	}

	for i, cell := range row {
		if i == nameCol {
			continue
		}
		norm := NormalizeText(cell)
		for _, f := range headerCompanionFields {
			if m.Matches(f, norm) {
				return true
			}
		}
	}
	return false
}

// ReadSheet locates the header, reconciles its labels and projects the data rows
func (m *FieldMapper) ReadSheet(sheet model.Sheet, window int) (*model.SheetData, error) {
	headerRow, err := m.LocateHeader(sheet, window)
	if err != nil {
		return nil, err
	}

	cols := m.MapColumns(sheet.Rows[headerRow])
	data := &model.SheetData{
		SheetName: sheet.Name,
		HeaderRow: headerRow,
		Columns:   cols,
		Rows:      make([]model.Row, 0, len(sheet.Rows)-headerRow-1),
	}
	for r := headerRow + 1; r < len(sheet.Rows); r++ {
		if isBlankRow(sheet.Rows[r]) {
			continue
		}
		data.Rows = append(data.Rows, cols.Project(sheet.Rows[r]))
	}
	return data, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if NormalizeText(c) != "" {
			return false
		}
	}
	return true
}
