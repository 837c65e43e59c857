package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/repository/firestore"
	"github.com/pressline/taskboard/pkg/repository/memory"
)

var testTime = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestAssignment(suffix string) *model.Assignment {
	return &model.Assignment{
		ID:             model.AssignmentID(fmt.Sprintf("test-%d-%s", time.Now().UnixNano(), suffix)),
		Title:          "Plate check " + suffix,
		Description:    "Verify plate registration",
		Type:           types.AssignmentTypeQualityCheck,
		Priority:       types.PriorityHigh,
		Status:         types.AssignmentStatusUnassigned,
		AssignedBy:     "mgr_001",
		Deadline:       testTime.Add(48 * time.Hour),
		EstimatedHours: 2.5,
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
	}
}

func runAssignmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newTestAssignment("a")
		started := testTime.Add(time.Hour)
		a.AssigneeID = "emp_001"
		a.Status = types.AssignmentStatusInProgress
		a.StartedAt = &started
		a.AssignedAt = &testTime

		created, err := repo.Assignment().Create(ctx, a)
		gt.NoError(t, err).Required()
		gt.Equal(t, created.ID, a.ID)

		got, err := repo.Assignment().Get(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, got.Title, a.Title)
		gt.Equal(t, got.Status, types.AssignmentStatusInProgress)
		gt.Equal(t, got.AssigneeID, "emp_001")
		gt.Value(t, got.StartedAt).NotNil()
		gt.B(t, got.StartedAt.Equal(started)).True()
		gt.B(t, got.Deadline.Equal(a.Deadline)).True()
		gt.Value(t, got.CompletedAt).Nil()
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newTestAssignment("dup")
		_, err := repo.Assignment().Create(ctx, a)
		gt.NoError(t, err).Required()

		_, err = repo.Assignment().Create(ctx, a)
		gt.Error(t, err)
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Assignment().Get(context.Background(), "does-not-exist")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Update replaces stored fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newTestAssignment("upd")
		_, err := repo.Assignment().Create(ctx, a)
		gt.NoError(t, err).Required()

		a.AssigneeID = "emp_002"
		a.Status = types.AssignmentStatusAssigned
		a.ProgressPercentage = 40
		_, err = repo.Assignment().Update(ctx, a)
		gt.NoError(t, err).Required()

		got, err := repo.Assignment().Get(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, got.AssigneeID, "emp_002")
		gt.Equal(t, got.ProgressPercentage, 40)
	})

	t.Run("Update of missing assignment fails", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Assignment().Update(context.Background(), newTestAssignment("ghost"))
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("ListByAssignee returns only that assignee's work", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		assignee := fmt.Sprintf("emp_%d", time.Now().UnixNano())
		for i := range 3 {
			a := newTestAssignment(fmt.Sprintf("mine-%d", i))
			a.AssigneeID = assignee
			a.Status = types.AssignmentStatusAssigned
			_, err := repo.Assignment().Create(ctx, a)
			gt.NoError(t, err).Required()
		}
		_, err := repo.Assignment().Create(ctx, newTestAssignment("other"))
		gt.NoError(t, err).Required()

		got, err := repo.Assignment().ListByAssignee(ctx, assignee)
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(3)
		for _, a := range got {
			gt.Equal(t, a.AssigneeID, assignee)
		}
	})

	t.Run("Delete removes assignment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := newTestAssignment("del")
		_, err := repo.Assignment().Create(ctx, a)
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Assignment().Delete(ctx, a.ID)).Required()

		_, err = repo.Assignment().Get(ctx, a.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		err = repo.Assignment().Delete(ctx, a.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestAssignmentRepository_Memory(t *testing.T) {
	runAssignmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestAssignmentRepository_Firestore(t *testing.T) {
	runAssignmentRepositoryTest(t, newFirestoreRepository)
}

func TestMemory_SeedAndClose(t *testing.T) {
	ctx := context.Background()
	seed := newTestAssignment("seed")
	repo := memory.New(memory.WithSeed(seed))

	seed.Title = "mutated after seeding"

	got, err := repo.Assignment().Get(ctx, seed.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, got.Title, "Plate check seed")

	gt.NoError(t, repo.Close())

	all, err := repo.Assignment().List(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, all).Length(0)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	a := newTestAssignment("copy")
	_, err := repo.Assignment().Create(ctx, a)
	gt.NoError(t, err).Required()

	got, err := repo.Assignment().Get(ctx, a.ID)
	gt.NoError(t, err).Required()
	got.Title = "changed"

	again, err := repo.Assignment().Get(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, again.Title, "Plate check copy")
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	// Test data isolation is achieved through unique IDs in test data
	repo, err := firestore.New(ctx, projectID, databaseID)
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}
