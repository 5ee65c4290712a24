package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// raw cell values Excel writes in exponent form, e.g. 5.0000000000000001E-3
	exponentRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)[eE][+-]?\d+$`)
)

// NormalizeText strips accents, lowercases and collapses whitespace
// "  Dirección\nde   Correo " -> "direccion de correo"
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(strings.TrimSpace(stripped))
	return whitespaceRe.ReplaceAllString(stripped, " ")
}

// NormalizeNumber parses a locale-tolerant number ("4,5" -> 4.5)
// ok is false for anything but digits with at most one decimal separator,
// optionally followed by an exponent; callers decide the default for that case.
func NormalizeNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, ",", ".", 1)
	if !isPlainDecimal(s) && !exponentRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isPlainDecimal(s string) bool {
	digits := 0
	dots := 0
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// ContainsAny reports whether text contains any keyword
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// normalizeAll normalizes every entry and drops blanks
func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if n := NormalizeText(it); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeProgress maps a parsed progress value to a fraction in [0,1];
// values above 1 are read as a 0-100 percentage
func NormalizeProgress(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseProgress progress cell -> fraction; non-numeric content counts as 0
func ParseProgress(cell string) float64 {
	v, ok := NormalizeNumber(cell)
	if !ok {
		return 0
	}
	return NormalizeProgress(v)
}
