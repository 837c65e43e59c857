package usecase_test

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/fixture"
)

func at(d time.Duration) *time.Time {
	v := baseTime.Add(d)
	return &v
}

func TestBuildWorkload(t *testing.T) {
	day := 24 * time.Hour
	assignments := []*model.Assignment{
		{ID: "1", AssigneeID: "emp_001", Status: types.AssignmentStatusAssigned, Deadline: baseTime.Add(day)},
		{ID: "2", AssigneeID: "emp_001", Status: types.AssignmentStatusInProgress, Deadline: baseTime.Add(-day)},
		{ID: "3", AssigneeID: "emp_001", Status: types.AssignmentStatusReview, Deadline: baseTime.Add(-time.Second)},
		{ID: "4", AssigneeID: "emp_001", Status: types.AssignmentStatusCompleted, Deadline: baseTime.Add(-day),
			StartedAt: at(-5 * day), CompletedAt: at(-3 * day)},
		{ID: "5", AssigneeID: "emp_001", Status: types.AssignmentStatusCompleted, Deadline: baseTime.Add(-day),
			StartedAt: at(-30 * day), CompletedAt: at(-26 * day)}, // previous month
		{ID: "6", AssigneeID: "emp_001", Status: types.AssignmentStatusCompleted, Deadline: baseTime.Add(-day),
			CompletedAt: at(-day)}, // no start time
		{ID: "7", AssigneeID: "emp_001", Status: types.AssignmentStatusCancelled, Deadline: baseTime.Add(-day)},
		{ID: "8", AssigneeID: "emp_002", Status: types.AssignmentStatusAssigned, Deadline: baseTime.Add(-day)},
	}

	w := usecase.BuildWorkload("emp_001", assignments, baseTime, 25)
	gt.Value(t, w.AssigneeID).Equal("emp_001")
	gt.Value(t, w.ActiveCount).Equal(3)
	gt.Value(t, w.OverdueCount).Equal(2)
	gt.Value(t, w.TotalWorkloadPercent).Equal(75)
	gt.Value(t, w.CompletedThisMonth).Equal(2)
	gt.Value(t, w.AverageCompletionDays).Equal(3.0)
	gt.Value(t, w.ComputedAt).Equal(baseTime)

	t.Run("load is capped at 100", func(t *testing.T) {
		w := usecase.BuildWorkload("emp_001", assignments, baseTime, 40)
		gt.Value(t, w.TotalWorkloadPercent).Equal(100)
	})

	t.Run("average does not depend on input order", func(t *testing.T) {
		var completed []*model.Assignment
		for i, hours := range []int{7, 31, 53, 11, 97, 3, 61} {
			completed = append(completed, &model.Assignment{
				ID:          model.AssignmentID(fmt.Sprintf("c-%d", i)),
				AssigneeID:  "emp_001",
				Status:      types.AssignmentStatusCompleted,
				Deadline:    baseTime,
				StartedAt:   at(-time.Duration(hours)*time.Hour - time.Minute/3),
				CompletedAt: at(-time.Minute),
			})
		}
		want := usecase.BuildWorkload("emp_001", completed, baseTime, 25).AverageCompletionDays

		reversed := slices.Clone(completed)
		slices.Reverse(reversed)
		gt.Value(t, usecase.BuildWorkload("emp_001", reversed, baseTime, 25).AverageCompletionDays).Equal(want)

		rotated := append(slices.Clone(completed[3:]), completed[:3]...)
		gt.Value(t, usecase.BuildWorkload("emp_001", rotated, baseTime, 25).AverageCompletionDays).Equal(want)
	})

	t.Run("no assignments", func(t *testing.T) {
		w := usecase.BuildWorkload("emp_404", nil, baseTime, 25)
		gt.Value(t, w.ActiveCount).Equal(0)
		gt.Value(t, w.AverageCompletionDays).Equal(0.0)
	})
}

func TestAssignmentUseCase_ComputeWorkload(t *testing.T) {
	ctx := context.Background()

	t.Run("uses configured per-task load", func(t *testing.T) {
		policy := model.DefaultPolicy()
		policy.PerTaskLoadPercent = 50
		e := newEngine(t, usecase.WithPolicy(policy))
		e.create(t, usecase.CreateInput{AssigneeID: "emp_001"})

		w, err := e.uc.Assignment.ComputeWorkload(ctx, "emp_001", baseTime)
		gt.NoError(t, err).Required()
		gt.Value(t, w.ActiveCount).Equal(1)
		gt.Value(t, w.TotalWorkloadPercent).Equal(50)
	})

	t.Run("is pure for a fixed store and time", func(t *testing.T) {
		e := newEngine(t)
		for _, a := range fixture.New(11, baseTime).Assignments(200) {
			_, err := e.repo.Assignment().Create(ctx, a)
			gt.NoError(t, err).Required()
		}

		for _, id := range []string{"emp_001", "emp_002", "emp_003", "emp_004"} {
			first, err := e.uc.Assignment.ComputeWorkload(ctx, id, baseTime)
			gt.NoError(t, err).Required()
			for range 50 {
				again, err := e.uc.Assignment.ComputeWorkload(ctx, id, baseTime)
				gt.NoError(t, err).Required()
				gt.Value(t, again).Equal(first)
			}
			gt.Bool(t, first.TotalWorkloadPercent <= 100).True()
			gt.Bool(t, first.OverdueCount <= first.ActiveCount).True()
		}
	})

	t.Run("empty assignee", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.uc.Assignment.ComputeWorkload(ctx, "", baseTime)
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}
