package model

import "strings"

// CanonicalField logical column identifier, independent of the sheet's header text
type CanonicalField string

const (
	FieldName            CanonicalField = "name"
	FieldEmail           CanonicalField = "email"
	FieldProgressPercent CanonicalField = "progress"
	FieldGrade           CanonicalField = "grade"
)

// CanonicalFields fixed enumeration order used when reconciling headers
var CanonicalFields = []CanonicalField{
	FieldName,
	FieldEmail,
	FieldProgressPercent,
	FieldGrade,
}

// MappedColumn original column bound to a canonical field
type MappedColumn struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// ColumnMap canonical field -> original column of one sheet
type ColumnMap map[CanonicalField]MappedColumn

// Has reports whether the field is mapped
func (m ColumnMap) Has(f CanonicalField) bool {
	_, ok := m[f]
	return ok
}

// Project reads the mapped fields out of a raw row; absent fields stay absent
func (m ColumnMap) Project(raw []string) Row {
	row := make(Row, len(m))
	for f, col := range m {
		if col.Index < len(raw) {
			row[f] = strings.TrimSpace(raw[col.Index])
		} else {
			row[f] = ""
		}
	}
	return row
}

// Row a data row projected through a ColumnMap
type Row map[CanonicalField]string

// Value returns the cell of a field and whether the sheet mapped it
func (r Row) Value(f CanonicalField) (string, bool) {
	v, ok := r[f]
	return v, ok
}

// SheetData rows of one sheet after header detection and reconciliation
type SheetData struct {
	SheetName string    `json:"sheetName"`
	HeaderRow int       `json:"headerRow"`
	Columns   ColumnMap `json:"columns"`
	Rows      []Row     `json:"-"`
}

// DataRows counts rows with a non-blank name
func (d *SheetData) DataRows() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, r := range d.Rows {
		if v, ok := r[FieldName]; ok && v != "" {
			n++
		}
	}
	return n
}

// AliasDictionary recognized header label variants per canonical field
type AliasDictionary map[CanonicalField][]string
