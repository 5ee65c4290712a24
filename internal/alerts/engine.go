package alerts

import (
	"sort"

	"coursepulse/internal/model"
)

// Engine evaluates the alert table against a KPI record
type Engine struct {
	rules      []Rule
	thresholds Thresholds
}

// NewEngine engine over the default rule table
func NewEngine(thresholds Thresholds) *Engine {
	return NewEngineWithRules(DefaultRules(), thresholds)
}

// NewEngineWithRules engine over a custom rule table
func NewEngineWithRules(rules []Rule, thresholds Thresholds) *Engine {
	return &Engine{rules: rules, thresholds: thresholds}
}

// Evaluate runs every rule of the week's mode and returns the alerts sorted by priority.
// A record without enrolled students or distribution yields no alerts.
func (e *Engine) Evaluate(k *model.KPIRecord, weeks model.WeekRange) []model.Alert {
	out := []model.Alert{}
	if k == nil || k.TotalEnrolled <= 0 || len(k.Distribution) == 0 {
		return out
	}

	mode := ModeFor(weeks)
	in := Input{KPI: k, Weeks: weeks, Thresholds: e.thresholds}
	for _, r := range e.rules {
		if r.Mode != mode || r.Evaluate == nil {
			continue
		}
		if a, ok := r.Evaluate(in); ok {
			out = append(out, a)
		}
	}

	SortAlerts(out)
	return out
}

// SortAlerts stable sort by priority rank
func SortAlerts(alerts []model.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority.Rank() < alerts[j].Priority.Rank()
	})
}
