package importer

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"coursepulse/internal/alerts"
	"coursepulse/internal/calculator"
	"coursepulse/internal/config"
	"coursepulse/internal/model"
	"coursepulse/internal/parser"
)

// Coordinator runs the ingestion pipeline: sheet selection, aggregation, alerts.
// It keeps no state between calls.
type Coordinator struct {
	sheets     config.SheetsConfig
	recognizer *parser.SheetRecognizer
	calculator *calculator.Calculator
	alerts     *alerts.Engine
}

// NewCoordinator creates a coordinator from the application config
func NewCoordinator(cfg *config.AppConfig) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	mapper := parser.NewFieldMapper(cfg.Aliases.Dictionary())
	return &Coordinator{
		sheets:     cfg.Sheets,
		recognizer: parser.NewSheetRecognizer(mapper, cfg.Parser.HeaderScanRows),
		calculator: calculator.NewCalculator(calculator.Options{
			PassingGrade:  cfg.Calculator.PassingGrade,
			MinNameLength: cfg.Calculator.MinNameLength,
			SummaryTokens: cfg.Calculator.SummaryTokens,
		}),
		alerts: alerts.NewEngine(alerts.Thresholds{
			ZeroProgressHighPct: cfg.Alerts.ZeroProgressHighPct,
			LowTierMediumPct:    cfg.Alerts.LowTierMediumPct,
			FinalCriticalPct:    cfg.Alerts.FinalCriticalPct,
			FinalHighPct:        cfg.Alerts.FinalHighPct,
			DualCriticalPct:     cfg.Alerts.DualCriticalPct,
			DualHighPct:         cfg.Alerts.DualHighPct,
		}),
	}
}

// AnalysisReport what the pipeline looked at, for logs and the CLI
type AnalysisReport struct {
	ProgressSheet   string                  `json:"progressSheet"`
	HeaderRow       int                     `json:"headerRow"`
	Candidates      []parser.CandidateScore `json:"candidates"`
	DiagnosticSheet string                  `json:"diagnosticSheet,omitempty"`
	FinalSheet      string                  `json:"finalSheet,omitempty"`
	SkippedRows     int                     `json:"skippedRows"`
	Mode            string                  `json:"mode"`
	Duration        time.Duration           `json:"duration"`
}

// Analyze runs the full pipeline over one workbook
func (c *Coordinator) Analyze(wb model.Workbook, weeks model.WeekRange) (*model.Result, *AnalysisReport, error) {
	startTime := time.Now()
	report := &AnalysisReport{Mode: alerts.ModeFor(weeks).String()}

	if err := weeks.Validate(); err != nil {
		return nil, report, err
	}

	selection, err := c.recognizer.SelectProgressSheet(wb, c.sheets.Progress)
	if selection != nil {
		report.Candidates = selection.Candidates
	}
	if err != nil {
		return nil, report, err
	}
	progress := selection.Data
	report.ProgressSheet = progress.SheetName
	report.HeaderRow = progress.HeaderRow

	// wb is only read below
	var diagnostic, final *model.SheetData
	var g errgroup.Group
	g.Go(func() error {
		var err error
		diagnostic, err = c.loadAssessment(wb, c.sheets.Diagnostic, "diagnostic")
		return err
	})
	g.Go(func() error {
		var err error
		final, err = c.loadAssessment(wb, c.sheets.Final, "final")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, report, err
	}
	if diagnostic != nil {
		report.DiagnosticSheet = diagnostic.SheetName
	}
	if final != nil {
		report.FinalSheet = final.SheetName
	}

	kpi, summary, err := c.calculator.Calculate(calculator.Inputs{
		Progress:   progress,
		Diagnostic: diagnostic,
		Final:      final,
		Weeks:      weeks,
	})
	if err != nil {
		return nil, report, err
	}
	report.SkippedRows = summary.SkippedRows

	generated := c.alerts.Evaluate(kpi, weeks)
	report.Duration = time.Since(startTime)

	log.Printf("analysis done: sheet=%q header_row=%d enrolled=%d alerts=%d mode=%s (%s)",
		report.ProgressSheet, report.HeaderRow+1, kpi.TotalEnrolled, len(generated), report.Mode, report.Duration)

	return model.NewResult(kpi, progress.SheetName, generated), report, nil
}

// loadAssessment optional assessment sheet; absent or column-less sheets count as empty
func (c *Coordinator) loadAssessment(wb model.Workbook, candidates []string, purpose string) (*model.SheetData, error) {
	data, err := c.recognizer.LoadOptionalSheet(wb, candidates)
	if err != nil {
		return nil, fmt.Errorf("%s assessment: %w", purpose, err)
	}
	if data == nil {
		log.Printf("%s assessment sheet not found, treating as empty", purpose)
		return nil, nil
	}
	if !data.Columns.Has(model.FieldEmail) || !data.Columns.Has(model.FieldGrade) {
		log.Printf("%s assessment sheet %q has no email/grade column, treating as empty", purpose, data.SheetName)
	}
	return data, nil
}
