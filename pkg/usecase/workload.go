package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
)

// ComputeWorkload aggregates the assignee's assignments as of now. It reads
// only and returns the same snapshot for the same store contents and now.
func (uc *AssignmentUseCase) ComputeWorkload(ctx context.Context, assigneeID string, now time.Time) (*model.WorkloadSnapshot, error) {
	if assigneeID == "" {
		return nil, validationError("assignee is required", "assigneeId")
	}

	assignments, err := uc.repo.Assignment().ListByAssignee(ctx, assigneeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments for assignee", goerr.V(AssigneeIDKey, assigneeID))
	}

	return buildWorkload(assigneeID, assignments, now, uc.policy.PerTaskLoadPercent, ""), nil
}

// buildWorkload computes a snapshot, ignoring the assignment with ID exclude
func buildWorkload(assigneeID string, assignments []*model.Assignment, now time.Time, perTask int, exclude model.AssignmentID) *model.WorkloadSnapshot {
	snapshot := &model.WorkloadSnapshot{
		AssigneeID: assigneeID,
		ComputedAt: now,
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var total time.Duration
	var timed int

	for _, a := range assignments {
		if a.ID == exclude || a.AssigneeID != assigneeID {
			continue
		}

		if a.IsActive() {
			snapshot.ActiveCount++
			if a.IsOverdue(now) {
				snapshot.OverdueCount++
			}
		}

		if a.Status != types.AssignmentStatusCompleted || a.CompletedAt == nil {
			continue
		}

		completedAt := a.CompletedAt.In(now.Location())
		if !completedAt.Before(monthStart) && completedAt.Before(monthEnd) {
			snapshot.CompletedThisMonth++
		}
		if a.StartedAt != nil {
			total += a.CompletedAt.Sub(*a.StartedAt)
			timed++
		}
	}

	snapshot.TotalWorkloadPercent = min(snapshot.ActiveCount*perTask, 100)
	if timed > 0 {
		// integer sum so the mean does not depend on iteration order
		snapshot.AverageCompletionDays = float64(total) / float64(timed) / float64(24*time.Hour)
	}

	return snapshot
}
