package model

import "fmt"

// AssessmentDetail participation per assessment
type AssessmentDetail struct {
	DiagnosticPercentage string `json:"diagnosticPercentage"`
	FinalPercentage      string `json:"finalPercentage"`
}

// DistributionEntry tier label with its student count
type DistributionEntry struct {
	TierLabel    Tier `json:"tierLabel"`
	StudentCount int  `json:"studentCount"`
}

// Result response record of one analysis
type Result struct {
	AverageProgress         string              `json:"averageProgress"`
	ApprovalRate            string              `json:"approvalRate"`
	ApprovedCount           int                 `json:"approvedCount"`
	ActivationRate          string              `json:"activationRate"`
	ActiveCount             int                 `json:"activeCount"`
	ZeroProgressCount       int                 `json:"zeroProgressCount"`
	ZeroProgressPercentage  string              `json:"zeroProgressPercentage"`
	DualComplianceIndex     string              `json:"dualComplianceIndex"`
	EngagementGap           string              `json:"engagementGap"`
	ProjectedCompletionRate string              `json:"projectedCompletionRate"`
	ProgressDistribution    []DistributionEntry `json:"progressDistribution"`
	AssessmentDetail        AssessmentDetail    `json:"assessmentDetail"`
	TotalEnrolled           int                 `json:"totalEnrolled"`
	ProgressSheet           string              `json:"progressSheet"`
	Alerts                  []Alert             `json:"alerts"`
}

// FormatPercent two-decimal rendering used for every percentage in the response
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// NewResult renders a KPI record and its alerts into the response shape
func NewResult(k *KPIRecord, sheet string, alerts []Alert) *Result {
	if alerts == nil {
		alerts = []Alert{}
	}
	dist := make([]DistributionEntry, 0, len(Tiers))
	for _, t := range Tiers {
		dist = append(dist, DistributionEntry{TierLabel: t, StudentCount: k.TierStudents(t)})
	}
	return &Result{
		AverageProgress:         FormatPercent(k.AverageProgress),
		ApprovalRate:            FormatPercent(k.ApprovalRate),
		ApprovedCount:           k.ApprovedCount,
		ActivationRate:          FormatPercent(k.ActivationRate),
		ActiveCount:             k.ActiveCount,
		ZeroProgressCount:       k.ZeroProgressCount,
		ZeroProgressPercentage:  FormatPercent(k.ZeroProgressPercentage),
		DualComplianceIndex:     FormatPercent(k.DualCompliance),
		EngagementGap:           FormatPercent(k.EngagementGap),
		ProjectedCompletionRate: FormatPercent(k.ProjectedCompletion),
		ProgressDistribution:    dist,
		AssessmentDetail: AssessmentDetail{
			DiagnosticPercentage: FormatPercent(k.DiagnosticPercentage),
			FinalPercentage:      FormatPercent(k.FinalPercentage),
		},
		TotalEnrolled: k.TotalEnrolled,
		ProgressSheet: sheet,
		Alerts:        alerts,
	}
}
