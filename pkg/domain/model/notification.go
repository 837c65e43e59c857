package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pressline/taskboard/pkg/domain/types"
)

// AssignmentEvent is a notification addressed to one assignee
type AssignmentEvent struct {
	ID              string
	Kind            types.NotificationKind
	AssigneeID      string
	AssignmentID    AssignmentID
	AssignmentTitle string
	Status          types.AssignmentStatus
	Deadline        time.Time
	OccurredAt      time.Time
}

// NewAssignmentEvent builds an event for the current state of a
func NewAssignmentEvent(kind types.NotificationKind, a *Assignment, now time.Time) *AssignmentEvent {
	return &AssignmentEvent{
		ID:              uuid.NewString(),
		Kind:            kind,
		AssigneeID:      a.AssigneeID,
		AssignmentID:    a.ID,
		AssignmentTitle: a.Title,
		Status:          a.Status,
		Deadline:        a.Deadline,
		OccurredAt:      now,
	}
}
