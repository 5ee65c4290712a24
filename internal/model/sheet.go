package model

import "strings"

// Sheet a named grid of raw cell values
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook ordered collection of sheets
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// SheetNames returns sheet names in workbook order
func (w Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet returns the sheet with the exact name
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Dimensions returns the used range as row and column counts
func (s Sheet) Dimensions() (rows, cols int) {
	for i, row := range s.Rows {
		for j := len(row) - 1; j >= 0; j-- {
			if strings.TrimSpace(row[j]) != "" {
				rows = i + 1
				if j+1 > cols {
					cols = j + 1
				}
				break
			}
		}
	}
	return rows, cols
}

// Cell returns the value at row/col, empty when out of range
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
