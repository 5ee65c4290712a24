package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"coursepulse/internal/model"
)

// Load decodes an .xlsx stream into a Workbook
func Load(reader io.Reader) (model.Workbook, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return model.Workbook{}, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()
	return FromFile(f)
}

// LoadFile decodes the .xlsx file at path
func LoadFile(path string) (model.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Workbook{}, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()
	return FromFile(f)
}

// FromFile reads every sheet of an opened workbook. Cells are read raw so a
// percentage cell yields 0.85 rather than its display text "85%".
func FromFile(f *excelize.File) (model.Workbook, error) {
	wb := model.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return model.Workbook{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, model.Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}
