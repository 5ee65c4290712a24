package model

// Priority alert priority label as shown to coordinators
type Priority string

const (
	PriorityCritical      Priority = "1 (Crítica)"
	PriorityVeryHigh      Priority = "1 (Muy Alta)"
	PriorityHigh          Priority = "2 (Alta)"
	PriorityMedium        Priority = "3 (Media)"
	PriorityInformational Priority = "Informativa"
)

var priorityRank = map[Priority]int{
	PriorityCritical:      1,
	PriorityVeryHigh:      2,
	PriorityHigh:          3,
	PriorityMedium:        4,
	PriorityInformational: 5,
}

// Rank sort key; unknown priorities sort last
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return 99
}

// Alert recommended action
type Alert struct {
	Priority  Priority `json:"priority"`
	Action    string   `json:"action"`
	Objective string   `json:"objective"`
}
