package calculator

import (
	"coursepulse/internal/model"
	"coursepulse/internal/parser"
)

// Options aggregation parameters
type Options struct {
	PassingGrade  float64
	MinNameLength int
	SummaryTokens []string
}

// Calculator course KPI calculator; holds no per-request state
type Calculator struct {
	passingGrade  float64
	minNameLength int
	summaryTokens []string
}

// NewCalculator creates a calculator
func NewCalculator(opts Options) *Calculator {
	tokens := make([]string, 0, len(opts.SummaryTokens))
	for _, t := range opts.SummaryTokens {
		if n := parser.NormalizeText(t); n != "" {
			tokens = append(tokens, n)
		}
	}
	if opts.PassingGrade <= 0 {
		opts.PassingGrade = 4.0
	}
	if opts.MinNameLength <= 0 {
		opts.MinNameLength = 1
	}
	return &Calculator{
		passingGrade:  opts.PassingGrade,
		minNameLength: opts.MinNameLength,
		summaryTokens: tokens,
	}
}

func (c *Calculator) isSummaryRow(normalizedName string) bool {
	return parser.ContainsAny(normalizedName, c.summaryTokens)
}

// Inputs sheets feeding one KPI computation; assessment sheets may be nil
type Inputs struct {
	Progress   *model.SheetData
	Diagnostic *model.SheetData
	Final      *model.SheetData
	Weeks      model.WeekRange
}

// Calculate derives the KPI record
func (c *Calculator) Calculate(in Inputs) (*model.KPIRecord, *ProgressSummary, error) {
	progress, err := c.AggregateProgress(in.Progress)
	if err != nil {
		return nil, nil, err
	}

	diagnostic := c.CollectAttempts(in.Diagnostic)
	final := c.CollectAttempts(in.Final)

	total := progress.TotalEnrolled
	active := total - progress.ZeroCount

	k := &model.KPIRecord{
		TotalEnrolled:          total,
		AverageProgress:        progress.Average,
		ZeroProgressCount:      progress.ZeroCount,
		ZeroProgressPercentage: model.Percentage(progress.ZeroCount, total),
		ActiveCount:            active,
		ActivationRate:         model.Percentage(active, total),
		EngagementGap:          100 - progress.Average,
		ProjectedCompletion:    ProjectedCompletion(progress.Average, in.Weeks),
		Distribution:           progress.Distribution,

		DiagnosticPercentage: model.Percentage(len(diagnostic.Attempted), total),
		FinalPercentage:      model.Percentage(len(final.Attempted), total),
		DualCompliance:       model.Percentage(diagnostic.Attempted.Intersect(final.Attempted), total),
		ApprovedCount:        len(final.Approved),
		ApprovalRate:         model.Percentage(len(final.Approved), total),
	}
	return k, progress, nil
}
