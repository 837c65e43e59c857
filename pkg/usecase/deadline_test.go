package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/usecase"
)

func TestAssignmentUseCase_NotifyDeadlines(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	soon := e.create(t, usecase.CreateInput{AssigneeID: "emp_001", Deadline: baseTime.Add(6 * time.Hour)})
	e.create(t, usecase.CreateInput{AssigneeID: "emp_002", Deadline: baseTime.Add(10 * 24 * time.Hour)})
	e.create(t, usecase.CreateInput{Deadline: baseTime.Add(time.Hour)}) // nobody to notify
	done := e.create(t, usecase.CreateInput{AssigneeID: "emp_003", Deadline: baseTime.Add(time.Hour)})
	for _, s := range []types.AssignmentStatus{types.AssignmentStatusInProgress, types.AssignmentStatusCompleted} {
		_, err := e.uc.Assignment.UpdateStatus(ctx, done.ID, usecase.StatusUpdate{Status: s})
		gt.NoError(t, err).Required()
	}
	e.sink.Reset()

	n, err := e.uc.Assignment.NotifyDeadlines(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, n).Equal(1)
	events := e.sink.Events()
	gt.Array(t, events).Length(1).Required()
	gt.Value(t, events[0].Kind).Equal(types.NotificationKindDueSoon)
	gt.Value(t, events[0].AssignmentID).Equal(soon.ID)

	t.Run("due soon is sent once", func(t *testing.T) {
		n, err := e.uc.Assignment.NotifyDeadlines(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(0)
	})

	t.Run("overdue follows due soon once", func(t *testing.T) {
		e.clock.Advance(7 * time.Hour)
		n, err := e.uc.Assignment.NotifyDeadlines(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(1)
		gt.Value(t, mustGet(t, e, soon.ID).DeadlineNotice).Equal(types.NotificationKindOverdue)

		n, err = e.uc.Assignment.NotifyDeadlines(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(0)
	})
}
