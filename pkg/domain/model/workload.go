package model

import "time"

// WorkloadSnapshot is a derived per-assignee aggregate; it is never stored
type WorkloadSnapshot struct {
	AssigneeID            string
	ActiveCount           int
	TotalWorkloadPercent  int
	OverdueCount          int
	CompletedThisMonth    int
	AverageCompletionDays float64
	ComputedAt            time.Time
}

// LoadFraction returns the workload as a fraction in [0,1]
func (w *WorkloadSnapshot) LoadFraction() float64 {
	return float64(w.TotalWorkloadPercent) / 100
}
