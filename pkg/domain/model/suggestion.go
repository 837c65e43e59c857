package model

import "time"

// Candidate is an assignee offered to the suggestion ranking. SkillMatch is
// optional; when nil the policy default applies.
type Candidate struct {
	AssigneeID string
	SkillMatch *float64
}

// Suggestion is a ranked recommendation for who should receive a task
type Suggestion struct {
	AssigneeID          string
	Confidence          float64
	Reasons             []string
	Concerns            []string
	EstimatedCompletion time.Time
	WorkloadImpact      float64
	SkillMatch          float64
	AvailabilityScore   float64
}
