package calculator

import (
	"strings"

	"coursepulse/internal/model"
	"coursepulse/internal/parser"
)

// EmailSet normalized email addresses
type EmailSet map[string]struct{}

// Intersect count of addresses present in both sets
func (s EmailSet) Intersect(other EmailSet) int {
	n := 0
	for e := range s {
		if _, ok := other[e]; ok {
			n++
		}
	}
	return n
}

// AssessmentAttempts who sat an assessment and who passed it
type AssessmentAttempts struct {
	Attempted EmailSet
	Approved  EmailSet
}

// CollectAttempts scans an assessment sheet; nil data (sheet absent) yields empty sets.
// A row counts when the email has an "@", the grade is numeric and above zero,
// and the name is not a summary row.
func (c *Calculator) CollectAttempts(data *model.SheetData) AssessmentAttempts {
	out := AssessmentAttempts{
		Attempted: make(EmailSet),
		Approved:  make(EmailSet),
	}
	if data == nil {
		return out
	}
	if !data.Columns.Has(model.FieldEmail) || !data.Columns.Has(model.FieldGrade) {
		return out
	}

	for _, row := range data.Rows {
		email := parser.NormalizeText(row[model.FieldEmail])
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		if name, ok := row.Value(model.FieldName); ok && c.isSummaryRow(parser.NormalizeText(name)) {
			continue
		}
		grade, ok := parser.NormalizeNumber(row[model.FieldGrade])
		if !ok || grade <= 0 {
			continue
		}
		out.Attempted[email] = struct{}{}
		if grade >= c.passingGrade {
			out.Approved[email] = struct{}{}
		}
	}
	return out
}
