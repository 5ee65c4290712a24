package parser

import (
	"errors"
	"math"
	"testing"

	"coursepulse/internal/config"
	"coursepulse/internal/model"
)

func progressSheet(name string, progress ...string) model.Sheet {
	rows := [][]string{
		{"Listado de participantes"},
		{"Nombre", "Correo", "% Avance"},
	}
	for i, p := range progress {
		rows = append(rows, []string{"Alumno " + string(rune('A'+i)), "", p})
	}
	return model.Sheet{Name: name, Rows: rows}
}

func TestScoreSheet(t *testing.T) {
	t.Parallel()

	m := newTestMapper()
	data, err := m.ReadSheet(progressSheet("Avances", "50", "0,25", "abc", "0"), 0)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	score, rows := ScoreSheet(data)
	if math.Abs(score-0.75) > 1e-9 {
		t.Fatalf("score=%v want 0.75", score)
	}
	if rows != 4 {
		t.Fatalf("rows=%d want 4", rows)
	}
}

func TestSelectProgressSheet_HighestScoreWins(t *testing.T) {
	t.Parallel()

	wb := model.Workbook{Sheets: []model.Sheet{
		progressSheet("Avances", "10", "10"),
		progressSheet("Sin Avances", "80", "90", "0"),
		{Name: "Notas", Rows: [][]string{{"x"}}},
	}}
	r := NewSheetRecognizer(newTestMapper(), 0)
	sel, err := r.SelectProgressSheet(wb, config.DefaultConfig().Sheets.Progress)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Data.SheetName != "Sin Avances" {
		t.Fatalf("selected %q want Sin Avances (candidates=%+v)", sel.Data.SheetName, sel.Candidates)
	}
	if len(sel.Candidates) != 2 {
		t.Fatalf("candidates=%d want 2: %+v", len(sel.Candidates), sel.Candidates)
	}
}

func TestSelectProgressSheet_TieBreaks(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer(newTestMapper(), 0)

	// same score, more data rows wins
	wb := model.Workbook{Sheets: []model.Sheet{
		progressSheet("Avances", "50"),
		progressSheet("Reporte", "50", "0", "0"),
	}}
	sel, err := r.SelectProgressSheet(wb, []string{"Avances", "Reporte"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Data.SheetName != "Reporte" {
		t.Fatalf("selected %q want Reporte", sel.Data.SheetName)
	}

	// full tie keeps the earlier candidate
	wb = model.Workbook{Sheets: []model.Sheet{
		progressSheet("Avances", "50", "20"),
		progressSheet("Reporte", "20", "50"),
	}}
	sel, err = r.SelectProgressSheet(wb, []string{"Reporte", "Avances"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Data.SheetName != "Reporte" {
		t.Fatalf("selected %q want Reporte", sel.Data.SheetName)
	}
}

func TestSelectProgressSheet_Errors(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer(newTestMapper(), 0)

	_, err := r.SelectProgressSheet(model.Workbook{Sheets: []model.Sheet{{Name: "Datos"}}}, []string{"Avances"})
	if !errors.Is(err, model.ErrSheetNotFound) {
		t.Fatalf("want ErrSheetNotFound, got %v", err)
	}

	noHeader := model.Workbook{Sheets: []model.Sheet{{Name: "Avances", Rows: [][]string{{"a", "b"}, {"1", "2"}}}}}
	_, err = r.SelectProgressSheet(noHeader, []string{"Avances"})
	if !errors.Is(err, model.ErrHeaderNotDetected) {
		t.Fatalf("want ErrHeaderNotDetected, got %v", err)
	}

	noProgress := model.Workbook{Sheets: []model.Sheet{{Name: "Avances", Rows: [][]string{
		{"Nombre", "Correo"},
		{"Ana", "ana@x.cl"},
	}}}}
	sel, err := r.SelectProgressSheet(noProgress, []string{"Avances"})
	if !errors.Is(err, model.ErrRequiredColumnMissing) {
		t.Fatalf("want ErrRequiredColumnMissing, got %v", err)
	}
	if len(sel.Candidates) != 1 || sel.Candidates[0].Rejected == "" {
		t.Fatalf("rejected candidate should be reported: %+v", sel.Candidates)
	}
}

func TestResolveSheetName_ExactBeatsSubstring(t *testing.T) {
	t.Parallel()

	wb := model.Workbook{Sheets: []model.Sheet{{Name: "Prueba Final Recuperativa"}, {Name: "FINAL"}}}
	got, ok := ResolveSheetName(wb, []string{"Prueba Final", "Final"})
	if !ok || got != "FINAL" {
		t.Fatalf("got %q ok=%v want FINAL", got, ok)
	}

	got, ok = ResolveSheetName(wb, []string{"Prueba Final"})
	if !ok || got != "Prueba Final Recuperativa" {
		t.Fatalf("substring fallback: got %q ok=%v", got, ok)
	}

	if _, ok := ResolveSheetName(wb, []string{"Diagnóstica"}); ok {
		t.Fatalf("unexpected match")
	}
}

func TestLoadOptionalSheet(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer(newTestMapper(), 0)
	wb := model.Workbook{Sheets: []model.Sheet{{Name: "Prueba Diagnóstica", Rows: [][]string{
		{"Nombre", "Dirección de correo", "Calificación/10,00"},
		{"Ana", "ana@x.cl", "7,5"},
	}}}}

	data, err := r.LoadOptionalSheet(wb, []string{"Prueba Diagnostica"})
	if err != nil || data == nil {
		t.Fatalf("load: data=%v err=%v", data, err)
	}
	if !data.Columns.Has(model.FieldGrade) || !data.Columns.Has(model.FieldEmail) {
		t.Fatalf("columns not mapped: %+v", data.Columns)
	}

	data, err = r.LoadOptionalSheet(wb, []string{"Prueba Final"})
	if err != nil || data != nil {
		t.Fatalf("absent sheet should yield nil, nil: data=%v err=%v", data, err)
	}
}

func TestSelectProgressSheet_EqualSumsInAnyRowOrder(t *testing.T) {
	t.Parallel()

	wb := model.Workbook{Sheets: []model.Sheet{
		progressSheet("Sin Avances", "10", "20", "30"),
		progressSheet("Reporte Avances", "30", "20", "10", "0"),
	}}
	r := NewSheetRecognizer(newTestMapper(), 0)
	sel, err := r.SelectProgressSheet(wb, config.DefaultConfig().Sheets.Progress)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Data.SheetName != "Reporte Avances" {
		t.Fatalf("selected %q want Reporte Avances (more rows, same sum): %+v", sel.Data.SheetName, sel.Candidates)
	}
}

func TestSelectProgressSheet_ScoresEveryMatchingSheet(t *testing.T) {
	t.Parallel()

	wb := model.Workbook{Sheets: []model.Sheet{
		progressSheet("Sin Avances", "0", "0"),
		progressSheet("Avances Semana 5", "40", "75", "100"),
		progressSheet("Avances Semana 4", "30", "60"),
	}}
	r := NewSheetRecognizer(newTestMapper(), 0)
	sel, err := r.SelectProgressSheet(wb, config.DefaultConfig().Sheets.Progress)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Data.SheetName != "Avances Semana 5" {
		t.Fatalf("selected %q want Avances Semana 5: %+v", sel.Data.SheetName, sel.Candidates)
	}
	if len(sel.Candidates) != 3 {
		t.Fatalf("every matching sheet should be scored, got %+v", sel.Candidates)
	}
}
