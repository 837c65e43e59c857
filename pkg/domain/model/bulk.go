package model

import (
	"time"

	"github.com/pressline/taskboard/pkg/domain/types"
)

// Patch is a partial update applied to many assignments at once. Nil fields
// are left unchanged.
type Patch struct {
	Title          *string
	Description    *string
	Priority       *types.Priority
	Deadline       *time.Time
	EstimatedHours *float64
	Status         *types.AssignmentStatus
	Progress       *int
}

// IsEmpty reports whether the patch changes nothing
func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Deadline == nil && p.EstimatedHours == nil && p.Status == nil && p.Progress == nil
}

// SkipReason explains why a bulk update left an assignment untouched
type SkipReason string

const (
	SkipReasonNotFound          SkipReason = "not_found"
	SkipReasonClosed            SkipReason = "closed_assignment"
	SkipReasonInvalidTransition SkipReason = "invalid_transition"
	SkipReasonInvalidAssignee   SkipReason = "invalid_assignee"
	SkipReasonFailed            SkipReason = "failed"
)

// SkippedAssignment is one id a bulk update did not apply to
type SkippedAssignment struct {
	ID     AssignmentID
	Reason SkipReason
}

// BulkResult is the outcome of a best-effort batch update
type BulkResult struct {
	Updated []*Assignment
	Skipped []SkippedAssignment
}
