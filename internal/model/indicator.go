package model

import "fmt"

// Tier progress bucket label
type Tier string

const (
	TierZero     Tier = "0%"
	TierUpTo25   Tier = "1-25%"
	TierUpTo50   Tier = "26-50%"
	TierUpTo75   Tier = "51-75%"
	TierBelow100 Tier = "76-99%"
	TierComplete Tier = "100%"
)

// Tiers fixed reporting order
var Tiers = []Tier{TierZero, TierUpTo25, TierUpTo50, TierUpTo75, TierBelow100, TierComplete}

// TierCount one entry of the progress distribution
type TierCount struct {
	Tier     Tier `json:"name"`
	Students int  `json:"students"`
}

// WeekRange reporting week against course length
type WeekRange struct {
	Current int `json:"currentWeek"`
	Total   int `json:"totalWeeks"`
}

// Validate enforces 0 < current <= total
func (w WeekRange) Validate() error {
	if w.Current <= 0 || w.Total <= 0 || w.Current > w.Total {
		return fmt.Errorf("%w: currentWeek=%d totalWeeks=%d", ErrInvalidWeekRange, w.Current, w.Total)
	}
	return nil
}

// IsFinalWeek current week is the last one
func (w WeekRange) IsFinalWeek() bool {
	return w.Current == w.Total
}

// KPIRecord aggregated course indicators, percentages on a 0-100 scale
type KPIRecord struct {
	TotalEnrolled int `json:"totalEnrolled"`

	AverageProgress        float64 `json:"averageProgress"`
	ZeroProgressCount      int     `json:"zeroProgressCount"`
	ZeroProgressPercentage float64 `json:"zeroProgressPercentage"`
	ActiveCount            int     `json:"activeCount"`
	ActivationRate         float64 `json:"activationRate"`
	EngagementGap          float64 `json:"engagementGap"`
	ProjectedCompletion    float64 `json:"projectedCompletionRate"`

	Distribution []TierCount `json:"progressDistribution"`

	DiagnosticPercentage float64 `json:"diagnosticPercentage"`
	FinalPercentage      float64 `json:"finalPercentage"`
	DualCompliance       float64 `json:"dualComplianceIndex"`
	ApprovedCount        int     `json:"approvedCount"`
	ApprovalRate         float64 `json:"approvalRate"`
}

// TierStudents student count of a tier, 0 when absent
func (k *KPIRecord) TierStudents(t Tier) int {
	if k == nil {
		return 0
	}
	for _, tc := range k.Distribution {
		if tc.Tier == t {
			return tc.Students
		}
	}
	return 0
}

// Percentage part/total on a 0-100 scale, 0 for an empty total
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
