package exporter

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/xuri/excelize/v2"

	"coursepulse/internal/model"
)

// Sheet names of the exported report
const (
	SheetIndicators   = "Indicadores"
	SheetDistribution = "Distribución"
	SheetAlerts       = "Alertas"
)

// ExportOptions context printed in the report
type ExportOptions struct {
	Weeks model.WeekRange
}

// Export renders one analysis result into a new workbook.
// The caller owns the returned file and must close it.
func Export(result *model.Result, opts ExportOptions) (*excelize.File, error) {
	if result == nil {
		return nil, errors.New("export: empty result")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetIndicators); err != nil {
		_ = f.Close()
		return nil, err
	}

	header, err := headerStyle(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeIndicators(f, header, result, opts); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetIndicators, err)
	}
	if err := writeDistribution(f, header, result); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetDistribution, err)
	}
	if err := writeAlerts(f, header, result); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", SheetAlerts, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// ContentDisposition attachment header with an ASCII fallback and a UTF-8 filename
func ContentDisposition(weeks model.WeekRange) string {
	ascii := fmt.Sprintf("course-report-week-%d-of-%d.xlsx", weeks.Current, weeks.Total)
	utf8Name := fmt.Sprintf("Reporte Avance Semana %d de %d.xlsx", weeks.Current, weeks.Total)
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", ascii, url.PathEscape(utf8Name))
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
}

// indicatorRows label/value pairs of the indicators sheet, in display order
func indicatorRows(r *model.Result, opts ExportOptions) [][]any {
	return [][]any{
		{"Hoja de avance", r.ProgressSheet},
		{"Semana", fmt.Sprintf("%d de %d", opts.Weeks.Current, opts.Weeks.Total)},
		{"Total inscritos", r.TotalEnrolled},
		{"Avance promedio (%)", r.AverageProgress},
		{"Alumnos activos", r.ActiveCount},
		{"Tasa de activación (%)", r.ActivationRate},
		{"Alumnos sin avance", r.ZeroProgressCount},
		{"Sin avance (%)", r.ZeroProgressPercentage},
		{"Brecha de compromiso (%)", r.EngagementGap},
		{"Proyección de término (%)", r.ProjectedCompletionRate},
		{"Rendición Prueba Diagnóstica (%)", r.AssessmentDetail.DiagnosticPercentage},
		{"Rendición Prueba Final (%)", r.AssessmentDetail.FinalPercentage},
		{"Cumplimiento dual (%)", r.DualComplianceIndex},
		{"Aprobados", r.ApprovedCount},
		{"Tasa de aprobación (%)", r.ApprovalRate},
	}
}

func writeIndicators(f *excelize.File, header int, r *model.Result, opts ExportOptions) error {
	sheet := SheetIndicators
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Indicador", "Valor"}); err != nil {
		return err
	}
	for i, row := range indicatorRows(r, opts) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 36)
}

func writeDistribution(f *excelize.File, header int, r *model.Result) error {
	sheet := SheetDistribution
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Tramo de avance", "Alumnos"}); err != nil {
		return err
	}
	for i, d := range r.ProgressDistribution {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{string(d.TierLabel), d.StudentCount}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}

func writeAlerts(f *excelize.File, header int, r *model.Result) error {
	sheet := SheetAlerts
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Prioridad", "Acción", "Objetivo"}); err != nil {
		return err
	}
	for i, a := range r.Alerts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{string(a.Priority), a.Action, a.Objective}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "C", 60)
}
