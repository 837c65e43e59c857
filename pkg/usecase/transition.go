package usecase

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
)

// checkTransition rejects moves the state machine does not allow. Leaving
// unassigned for assigned needs an assignee and only happens through AssignTo.
func checkTransition(current *model.Assignment, to types.AssignmentStatus) error {
	if current.IsTerminal() {
		return closedError(current, "cannot change status of a closed assignment", goerr.V(ToStatusKey, to))
	}
	if current.Status == types.AssignmentStatusUnassigned && to == types.AssignmentStatusAssigned {
		return goerr.Wrap(ErrInvalidAssignee, "assigning requires an assignee",
			goerr.V(AssignmentIDKey, current.ID), goerr.V(FieldKey, "assignedTo"))
	}
	if !current.Status.CanTransitionTo(to) {
		return transitionError(current, to)
	}
	return nil
}

// applyTransition moves a to status `to` and records the side effects of
// entering that status. The transition must already be checked.
func applyTransition(a *model.Assignment, to types.AssignmentStatus, now time.Time) {
	switch to {
	case types.AssignmentStatusInProgress:
		if a.StartedAt == nil {
			a.StartedAt = &now
		}
	case types.AssignmentStatusRevision:
		a.RevisionCount++
		a.LastRevisionAt = &now
	case types.AssignmentStatusCompleted:
		if a.CompletedAt == nil {
			a.CompletedAt = &now
		}
		a.ProgressPercentage = 100
	}

	a.Status = to
	a.UpdatedAt = now
}

func transitionError(current *model.Assignment, to types.AssignmentStatus) error {
	return goerr.Wrap(ErrInvalidTransition,
		"cannot move assignment from "+current.Status.String()+" to "+to.String(),
		goerr.V(AssignmentIDKey, current.ID),
		goerr.V(FieldKey, "status"),
		goerr.V(FromStatusKey, current.Status),
		goerr.V(ToStatusKey, to))
}

func closedError(current *model.Assignment, msg string, opts ...goerr.Option) error {
	opts = append(opts,
		goerr.V(AssignmentIDKey, current.ID),
		goerr.V(FromStatusKey, current.Status))
	return goerr.Wrap(ErrClosedAssignment, msg, opts...)
}
