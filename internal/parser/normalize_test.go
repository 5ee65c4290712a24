package parser

import (
	"math"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Dirección\nde   Correo ": "direccion de correo",
		"PORCENTAJE DE AVANCE":      "porcentaje de avance",
		"Evaluación Final":          "evaluacion final",
		"Ñandú":                     "nandu",
		"":                          "",
		"\t \n":                     "",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Fatalf("NormalizeText(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNormalizeNumber(t *testing.T) {
	t.Parallel()

	ok := map[string]float64{
		"4,5":   4.5,
		" 10 ":  10,
		"0.85":  0.85,
		"100":   100,
		"6,0":   6,
		".5":    0.5,
		"7.":    7,
		"0":     0,
		"3,25 ": 3.25,

		"5.0000000000000001E-3": 0.005,
		"8.5E1":                 85,
		"1e2":                   100,
		"2,5e-1":                0.25,
	}
	for in, want := range ok {
		got, valid := NormalizeNumber(in)
		if !valid {
			t.Fatalf("NormalizeNumber(%q) should be valid", in)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("NormalizeNumber(%q)=%v want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "abc", "85%", "1.234,5", "4,5,6", "-", "N/A", "-3", "E5", "1e", "1e-", "-1e2", "1e2.5", "NaN", "Inf"} {
		if v, valid := NormalizeNumber(in); valid {
			t.Fatalf("NormalizeNumber(%q) should be invalid, got %v", in, v)
		}
	}
}

func TestParseProgress(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"85":    0.85,
		"0.85":  0.85,
		"100":   1,
		"1":     1,
		"150":   1,
		"0":     0,
		"":      0,
		"abc":   0,
		"55,5":  0.555,
		"0,255": 0.255,

		"5.0000000000000001E-3": 0.005,
		"8.5E1":                 0.85,
	}
	for in, want := range cases {
		if got := ParseProgress(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("ParseProgress(%q)=%v want %v", in, got, want)
		}
	}
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	if !ContainsAny("promedio curso", []string{"average", "promedio"}) {
		t.Fatalf("expected match")
	}
	if ContainsAny("ana perez", []string{"", "promedio"}) {
		t.Fatalf("unexpected match")
	}
}
