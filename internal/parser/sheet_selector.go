package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"coursepulse/internal/model"
)

// SheetRecognizer resolves sheet purposes to actual sheets of a workbook
type SheetRecognizer struct {
	mapper *FieldMapper
	window int
}

// NewSheetRecognizer creates a recognizer scanning window rows for headers
func NewSheetRecognizer(mapper *FieldMapper, window int) *SheetRecognizer {
	if window <= 0 {
		window = DefaultHeaderScanRows
	}
	return &SheetRecognizer{mapper: mapper, window: window}
}

// CandidateScore evaluation of one progress sheet candidate
type CandidateScore struct {
	Candidate string  `json:"candidate"`
	SheetName string  `json:"sheetName"`
	Score     float64 `json:"score"`
	Rows      int     `json:"rows"`
	Rejected  string  `json:"rejected,omitempty"`
}

// Selection chosen progress sheet plus every candidate that was scored
type Selection struct {
	Data       *model.SheetData `json:"data"`
	Candidates []CandidateScore `json:"candidates"`
}

type sheetScore struct {
	score float64
	rows  int
	data  *model.SheetData
}

// scoreEpsilon sums closer than this are equal; row order shifts the last bits
const scoreEpsilon = 1e-9

// betterSheet higher progress sum wins, then more data rows; ties keep b
func betterSheet(a, b sheetScore) bool {
	if math.Abs(a.score-b.score) >= scoreEpsilon {
		return a.score > b.score
	}
	return a.rows > b.rows
}

// matchingSheets every sheet a candidate names: exact normalized matches first,
// then sheet names containing the candidate, each in workbook order
func matchingSheets(names []string, candidate string) []string {
	want := NormalizeText(candidate)
	if want == "" {
		return nil
	}
	var exact, partial []string
	for _, n := range names {
		norm := NormalizeText(n)
		switch {
		case norm == want:
			exact = append(exact, n)
		case strings.Contains(norm, want):
			partial = append(partial, n)
		}
	}
	return append(exact, partial...)
}

// ResolveSheetName first sheet matching the candidates: an exact normalized
// match on any candidate beats a substring match on an earlier one
func ResolveSheetName(wb model.Workbook, candidates []string) (string, bool) {
	names := wb.SheetNames()
	for _, c := range candidates {
		want := NormalizeText(c)
		for _, n := range names {
			if want != "" && NormalizeText(n) == want {
				return n, true
			}
		}
	}
	for _, c := range candidates {
		want := NormalizeText(c)
		for _, n := range names {
			if want != "" && strings.Contains(NormalizeText(n), want) {
				return n, true
			}
		}
	}
	return "", false
}

// ScoreSheet sum of positive progress fractions and the data row count
func ScoreSheet(data *model.SheetData) (float64, int) {
	if data == nil || !data.Columns.Has(model.FieldProgressPercent) {
		return 0, data.DataRows()
	}
	values := make(stats.Float64Data, 0, len(data.Rows))
	for _, r := range data.Rows {
		if v := ParseProgress(r[model.FieldProgressPercent]); v > 0 {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, data.DataRows()
	}
	sum, err := stats.Sum(values)
	if err != nil {
		return 0, data.DataRows()
	}
	return sum, data.DataRows()
}

// SelectProgressSheet picks the richest progress sheet among every sheet any
// candidate names; earlier candidates come first on a full tie
func (r *SheetRecognizer) SelectProgressSheet(wb model.Workbook, candidates []string) (*Selection, error) {
	sel := &Selection{Candidates: make([]CandidateScore, 0, len(candidates))}
	names := wb.SheetNames()
	seen := make(map[string]struct{})

	var (
		best      *sheetScore
		resolved  int
		headerErr error
		missing   []string
	)

	type match struct{ candidate, sheetName string }
	var matches []match
	for _, candidate := range candidates {
		for _, sheetName := range matchingSheets(names, candidate) {
			if _, dup := seen[sheetName]; dup {
				continue
			}
			seen[sheetName] = struct{}{}
			matches = append(matches, match{candidate: candidate, sheetName: sheetName})
		}
	}
	resolved = len(matches)

	for _, m := range matches {
		candidate, sheetName := m.candidate, m.sheetName
		sheet, _ := wb.Sheet(sheetName)
		cs := CandidateScore{Candidate: candidate, SheetName: sheetName}

		data, err := r.mapper.ReadSheet(sheet, r.window)
		if err != nil {
			if headerErr == nil {
				headerErr = err
			}
			cs.Rejected = err.Error()
			sel.Candidates = append(sel.Candidates, cs)
			continue
		}
		if lack := missingFields(data.Columns, model.FieldName, model.FieldProgressPercent); len(lack) > 0 {
			cs.Rejected = fmt.Sprintf("missing columns: %s", strings.Join(lack, ", "))
			missing = append(missing, fmt.Sprintf("%q lacks %s", sheetName, strings.Join(lack, ", ")))
			sel.Candidates = append(sel.Candidates, cs)
			continue
		}

		score, rows := ScoreSheet(data)
		cs.Score, cs.Rows = score, rows
		sel.Candidates = append(sel.Candidates, cs)

		current := sheetScore{score: score, rows: rows, data: data}
		if best == nil || betterSheet(current, *best) {
			best = &current
		}
	}

	switch {
	case best != nil:
		sel.Data = best.data
		return sel, nil
	case resolved == 0:
		return sel, fmt.Errorf("%w: no sheet resembles any of %s", model.ErrSheetNotFound, strings.Join(candidates, ", "))
	case len(missing) == 0 && headerErr != nil:
		return sel, headerErr
	default:
		return sel, fmt.Errorf("%w: no valid progress sheet (%s)", model.ErrRequiredColumnMissing, strings.Join(missing, "; "))
	}
}

// LoadOptionalSheet reads an assessment sheet; an absent sheet yields nil data
func (r *SheetRecognizer) LoadOptionalSheet(wb model.Workbook, candidates []string) (*model.SheetData, error) {
	sheetName, ok := ResolveSheetName(wb, candidates)
	if !ok {
		return nil, nil
	}
	sheet, _ := wb.Sheet(sheetName)
	data, err := r.mapper.ReadSheet(sheet, r.window)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func missingFields(cols model.ColumnMap, fields ...model.CanonicalField) []string {
	var out []string
	for _, f := range fields {
		if !cols.Has(f) {
			out = append(out, string(f))
		}
	}
	return out
}
