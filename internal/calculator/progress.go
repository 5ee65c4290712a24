package calculator

import (
	"fmt"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"coursepulse/internal/model"
	"coursepulse/internal/parser"
)

// StudentRecords normalized student name -> progress fraction in [0,1]
type StudentRecords map[string]float64

// ProgressSummary progress KPIs of one course
type ProgressSummary struct {
	Students     StudentRecords
	Distribution []model.TierCount

	TotalEnrolled int
	ZeroCount     int
	Average       float64 // 0-100
	SkippedRows   int
}

// ClassifyTier tier of a progress fraction
func ClassifyTier(fraction float64) model.Tier {
	pct := fraction * 100
	switch {
	case pct <= 0:
		return model.TierZero
	case pct <= 25:
		return model.TierUpTo25
	case pct <= 50:
		return model.TierUpTo50
	case pct <= 75:
		return model.TierUpTo75
	case pct < 100:
		return model.TierBelow100
	default:
		return model.TierComplete
	}
}

// StudentKey identity key of a student row; ok is false for rows that
// are blank, too short or synthetic summary rows
func (c *Calculator) StudentKey(name string) (string, bool) {
	key := parser.NormalizeText(name)
	if key == "" || utf8.RuneCountInString(key) < c.minNameLength {
		return "", false
	}
	if c.isSummaryRow(key) {
		return "", false
	}
	return key, true
}

// CollectStudents deduplicates the progress rows, keeping each student's maximum
func (c *Calculator) CollectStudents(data *model.SheetData) (StudentRecords, int) {
	students := make(StudentRecords)
	skipped := 0
	if data == nil {
		return students, skipped
	}
	for _, row := range data.Rows {
		key, ok := c.StudentKey(row[model.FieldName])
		if !ok {
			skipped++
			continue
		}
		v := parser.ParseProgress(row[model.FieldProgressPercent])
		if existing, found := students[key]; !found || v > existing {
			students[key] = v
		}
	}
	return students, skipped
}

// AggregateProgress builds the progress KPIs of the selected progress sheet
func (c *Calculator) AggregateProgress(data *model.SheetData) (*ProgressSummary, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: progress sheet missing", model.ErrRequiredColumnMissing)
	}
	for _, f := range []model.CanonicalField{model.FieldName, model.FieldProgressPercent} {
		if !data.Columns.Has(f) {
			return nil, fmt.Errorf("%w: sheet %q has no %s column", model.ErrRequiredColumnMissing, data.SheetName, f)
		}
	}

	students, skipped := c.CollectStudents(data)
	if len(students) == 0 {
		return nil, fmt.Errorf("%w: sheet %q", model.ErrNoValidStudents, data.SheetName)
	}

	counts := make(map[model.Tier]int, len(model.Tiers))
	values := make(stats.Float64Data, 0, len(students))
	zero := 0
	for _, v := range students {
		tier := ClassifyTier(v)
		counts[tier]++
		if tier == model.TierZero {
			zero++
		}
		values = append(values, v)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("average progress: %w", err)
	}

	dist := make([]model.TierCount, 0, len(model.Tiers))
	for _, t := range model.Tiers {
		dist = append(dist, model.TierCount{Tier: t, Students: counts[t]})
	}

	return &ProgressSummary{
		Students:      students,
		Distribution:  dist,
		TotalEnrolled: len(students),
		ZeroCount:     zero,
		Average:       mean * 100,
		SkippedRows:   skipped,
	}, nil
}

// ProjectedCompletion linear extrapolation of the average to the last week, capped at 100
func ProjectedCompletion(average float64, weeks model.WeekRange) float64 {
	if weeks.Current <= 0 || weeks.Total <= 0 {
		return 0
	}
	p := average * float64(weeks.Total) / float64(weeks.Current)
	if p > 100 {
		return 100
	}
	return p
}
