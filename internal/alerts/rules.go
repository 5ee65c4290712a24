package alerts

import (
	"fmt"
	"math"

	"coursepulse/internal/model"
)

// Mode which part of the course the reporting week falls in
type Mode int

const (
	ModeMidCourse Mode = iota
	ModeFinalWeek
)

func (m Mode) String() string {
	if m == ModeFinalWeek {
		return "final_week"
	}
	return "mid_course"
}

// ModeFor final week when current == total
func ModeFor(weeks model.WeekRange) Mode {
	if weeks.IsFinalWeek() {
		return ModeFinalWeek
	}
	return ModeMidCourse
}

// Thresholds percentages (0-100) at which mid-course rules fire
type Thresholds struct {
	ZeroProgressHighPct float64
	LowTierMediumPct    float64
	FinalCriticalPct    float64
	FinalHighPct        float64
	DualCriticalPct     float64
	DualHighPct         float64
}

// DefaultThresholds thresholds used by coordinators so far
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZeroProgressHighPct: 20,
		LowTierMediumPct:    15,
		FinalCriticalPct:    30,
		FinalHighPct:        50,
		DualCriticalPct:     25,
		DualHighPct:         40,
	}
}

// Input what every rule sees
type Input struct {
	KPI        *model.KPIRecord
	Weeks      model.WeekRange
	Thresholds Thresholds
}

// Rule one row of the alert table
type Rule struct {
	Name     string
	Mode     Mode
	Evaluate func(in Input) (model.Alert, bool)
}

// DefaultRules alert table in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		{Name: "final_pending_final_assessment", Mode: ModeFinalWeek, Evaluate: finalPendingAssessment},
		{Name: "final_low_progress_students", Mode: ModeFinalWeek, Evaluate: finalLowProgress},
		{Name: "final_satisfaction_survey", Mode: ModeFinalWeek, Evaluate: satisfactionSurvey},

		{Name: "mid_zero_progress", Mode: ModeMidCourse, Evaluate: midZeroProgress},
		{Name: "mid_first_tier_bottleneck", Mode: ModeMidCourse, Evaluate: midFirstTier},
		{Name: "mid_final_assessment_participation", Mode: ModeMidCourse, Evaluate: midFinalParticipation},
		{Name: "mid_dual_compliance", Mode: ModeMidCourse, Evaluate: midDualCompliance},
	}
}

func finalPendingAssessment(in Input) (model.Alert, bool) {
	final := in.KPI.FinalPercentage
	if final >= 100 {
		return model.Alert{}, false
	}
	total := in.KPI.TotalEnrolled
	pending := total - int(math.Round(float64(total)*final/100))
	return model.Alert{
		Priority:  model.PriorityVeryHigh,
		Action:    fmt.Sprintf("¡Última Semana! Recordar URGENTEMENTE a los %d (%.0f%%) pendientes de rendir Prueba Final.", pending, 100-final),
		Objective: "Lograr 100% rendición antes del cierre.",
	}, true
}

func finalLowProgress(in Input) (model.Alert, bool) {
	low := in.KPI.TierStudents(model.TierZero) + in.KPI.TierStudents(model.TierUpTo25)
	if low <= 0 {
		return model.Alert{}, false
	}
	return model.Alert{
		Priority:  model.PriorityVeryHigh,
		Action:    fmt.Sprintf("¡Última Semana! Contacto URGENTE a los %d alumnos con avance <= 25%% para recuperación.", low),
		Objective: "Minimizar reprobación.",
	}, true
}

func satisfactionSurvey(Input) (model.Alert, bool) {
	return model.Alert{
		Priority:  model.PriorityInformational,
		Action:    "Recordar a todos completar Encuesta de Satisfacción (obligatoria para certificación).",
		Objective: "Asegurar cumplimiento requisitos administrativos.",
	}, true
}

func midZeroProgress(in Input) (model.Alert, bool) {
	k := in.KPI
	if k.ZeroProgressCount <= 0 {
		return model.Alert{}, false
	}
	priority := model.PriorityMedium
	if k.ZeroProgressPercentage >= in.Thresholds.ZeroProgressHighPct {
		priority = model.PriorityHigh
	}
	return model.Alert{
		Priority:  priority,
		Action:    fmt.Sprintf("Contactar a %d (%s%%) alumnos sin avance. Ofrecer apoyo.", k.ZeroProgressCount, model.FormatPercent(k.ZeroProgressPercentage)),
		Objective: "Activar participación.",
	}, true
}

func midFirstTier(in Input) (model.Alert, bool) {
	students := in.KPI.TierStudents(model.TierUpTo25)
	pct := model.Percentage(students, in.KPI.TotalEnrolled)
	if pct <= in.Thresholds.LowTierMediumPct {
		return model.Alert{}, false
	}
	return model.Alert{
		Priority:  model.PriorityMedium,
		Action:    fmt.Sprintf("Apoyar a %d (%.0f%%) alumnos con avance 1-25%%. Posible cuello de botella.", students, pct),
		Objective: "Superar barreras iniciales.",
	}, true
}

func midFinalParticipation(in Input) (model.Alert, bool) {
	final := in.KPI.FinalPercentage
	pending := 100 - final
	switch {
	case final < in.Thresholds.FinalCriticalPct:
		return model.Alert{
			Priority:  model.PriorityCritical,
			Action:    fmt.Sprintf("¡CRÍTICO! Muy baja rendición Prueba Final (%.0f%% pendiente). Reforzar comunicación URGENTE.", pending),
			Objective: "Evitar riesgo masivo de certificación.",
		}, true
	case final < in.Thresholds.FinalHighPct:
		return model.Alert{
			Priority:  model.PriorityHigh,
			Action:    fmt.Sprintf("Baja rendición Prueba Final (%.0f%% pendiente). Reforzar comunicación.", pending),
			Objective: "Anticipar problemas certificación.",
		}, true
	}
	return model.Alert{}, false
}

func midDualCompliance(in Input) (model.Alert, bool) {
	dual := in.KPI.DualCompliance
	pending := 100 - dual
	switch {
	case dual < in.Thresholds.DualCriticalPct:
		return model.Alert{
			Priority:  model.PriorityCritical,
			Action:    fmt.Sprintf("¡CRÍTICO! Muy bajo cumplimiento ambas evaluaciones (%.0f%% pendiente). Revisar barreras.", pending),
			Objective: "Asegurar cumplimiento requisitos SENCE.",
		}, true
	case dual < in.Thresholds.DualHighPct:
		return model.Alert{
			Priority:  model.PriorityHigh,
			Action:    fmt.Sprintf("Bajo cumplimiento ambas evaluaciones (%.0f%% pendiente). Verificar problemas.", pending),
			Objective: "Prevenir problemas SENCE.",
		}, true
	}
	return model.Alert{}, false
}
