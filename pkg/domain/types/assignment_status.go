package types

import "fmt"

// AssignmentStatus represents the lifecycle status of an assignment
type AssignmentStatus string

const (
	AssignmentStatusUnassigned AssignmentStatus = "unassigned"
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusReview     AssignmentStatus = "review"
	AssignmentStatusRevision   AssignmentStatus = "revision"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// AllAssignmentStatuses returns all valid assignment statuses
func AllAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusUnassigned,
		AssignmentStatusAssigned,
		AssignmentStatusInProgress,
		AssignmentStatusReview,
		AssignmentStatusRevision,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled,
	}
}

// transitions lists the statuses reachable from each non-terminal status.
var transitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusUnassigned: {AssignmentStatusAssigned, AssignmentStatusCancelled},
	AssignmentStatusAssigned:   {AssignmentStatusInProgress, AssignmentStatusCancelled},
	AssignmentStatusInProgress: {AssignmentStatusReview, AssignmentStatusCompleted, AssignmentStatusCancelled},
	AssignmentStatusReview:     {AssignmentStatusRevision, AssignmentStatusCompleted, AssignmentStatusCancelled},
	AssignmentStatusRevision:   {AssignmentStatusInProgress, AssignmentStatusReview, AssignmentStatusCompleted, AssignmentStatusCancelled},
}

// IsValid checks if the assignment status is valid
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusUnassigned,
		AssignmentStatusAssigned,
		AssignmentStatusInProgress,
		AssignmentStatusReview,
		AssignmentStatusRevision,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted from s
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusCompleted || s == AssignmentStatusCancelled
}

// IsActive reports whether s counts toward an assignee's workload
func (s AssignmentStatus) IsActive() bool {
	switch s {
	case AssignmentStatusAssigned,
		AssignmentStatusInProgress,
		AssignmentStatusReview,
		AssignmentStatusRevision:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine allows moving from s to next
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Emoji returns a short marker used in chat notifications
func (s AssignmentStatus) Emoji() string {
	switch s {
	case AssignmentStatusUnassigned:
		return ":inbox_tray:"
	case AssignmentStatusAssigned:
		return ":bust_in_silhouette:"
	case AssignmentStatusInProgress:
		return ":arrows_counterclockwise:"
	case AssignmentStatusReview:
		return ":mag:"
	case AssignmentStatusRevision:
		return ":pencil2:"
	case AssignmentStatusCompleted:
		return ":white_check_mark:"
	case AssignmentStatusCancelled:
		return ":no_entry_sign:"
	default:
		return ":grey_question:"
	}
}

// String returns the string representation of the assignment status
func (s AssignmentStatus) String() string {
	return string(s)
}

// ParseAssignmentStatus parses a string into an AssignmentStatus
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	status := AssignmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", s)
	}
	return status, nil
}
