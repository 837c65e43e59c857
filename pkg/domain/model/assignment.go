package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/types"
)

// AssignmentID is an opaque, immutable assignment identifier
type AssignmentID string

func (id AssignmentID) String() string {
	return string(id)
}

// Assignment represents a unit of work tracked through the status lifecycle
type Assignment struct {
	ID                 AssignmentID
	Title              string
	Description        string
	Type               types.AssignmentType
	Priority           types.Priority
	Status             types.AssignmentStatus
	AssigneeID         string // empty iff Status is unassigned, or cancelled before assignment
	AssignedBy         string
	Deadline           time.Time
	EstimatedHours     float64
	ActualHours        *float64
	ProgressPercentage int
	RevisionCount      int
	LastRevisionAt     *time.Time
	AssignedAt         *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	DeadlineNotice     types.NotificationKind // last deadline notice sent, empty if none
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Errors returned by Assignment.Validate
var (
	ErrInvalidAssignment = goerr.New("assignment violates invariant")
)

// Context keys for error values
const (
	AssignmentIDKey = "assignment_id"
	StatusKey       = "status"
	FieldKey        = "field"
)

// IsTerminal reports whether the assignment is completed or cancelled
func (a *Assignment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// IsActive reports whether the assignment counts toward workload
func (a *Assignment) IsActive() bool {
	return a.Status.IsActive()
}

// IsOverdue reports deadline < now while the assignment is not terminal
func (a *Assignment) IsOverdue(now time.Time) bool {
	return !a.IsTerminal() && a.Deadline.Before(now)
}

// Validate checks the structural invariants every stored assignment must hold
func (a *Assignment) Validate() error {
	fail := func(msg, field string) error {
		return goerr.Wrap(ErrInvalidAssignment, msg,
			goerr.V(AssignmentIDKey, a.ID),
			goerr.V(StatusKey, a.Status),
			goerr.V(FieldKey, field))
	}

	if a.ID == "" {
		return fail("id is required", "id")
	}
	if !a.Status.IsValid() {
		return fail("status is invalid", "status")
	}
	// A task cancelled before anyone took it keeps no assignee.
	if a.Status != types.AssignmentStatusCancelled &&
		(a.Status == types.AssignmentStatusUnassigned) != (a.AssigneeID == "") {
		return fail("assignee must be absent exactly when unassigned", "assignedTo")
	}
	if (a.Status == types.AssignmentStatusCompleted) != (a.CompletedAt != nil) {
		return fail("completedAt must be set exactly when completed", "completedAt")
	}
	if a.Status == types.AssignmentStatusCompleted && a.ProgressPercentage != 100 {
		return fail("completed assignment must be at 100 percent", "progressPercentage")
	}
	if a.ProgressPercentage < 0 || a.ProgressPercentage > 100 {
		return fail("progress out of range", "progressPercentage")
	}
	if a.Deadline.IsZero() {
		return fail("deadline is required", "deadline")
	}
	if a.EstimatedHours < 0 {
		return fail("estimated hours must not be negative", "estimatedHours")
	}
	if a.ActualHours != nil && *a.ActualHours < 0 {
		return fail("actual hours must not be negative", "actualHours")
	}
	if a.RevisionCount < 0 {
		return fail("revision count must not be negative", "revisionCount")
	}

	return nil
}

// Copy returns a deep copy of the assignment
func (a *Assignment) Copy() *Assignment {
	c := *a
	c.ActualHours = copyPtr(a.ActualHours)
	c.LastRevisionAt = copyPtr(a.LastRevisionAt)
	c.AssignedAt = copyPtr(a.AssignedAt)
	c.StartedAt = copyPtr(a.StartedAt)
	c.CompletedAt = copyPtr(a.CompletedAt)
	return &c
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
