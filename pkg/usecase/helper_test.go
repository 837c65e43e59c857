package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/repository/memory"
	"github.com/pressline/taskboard/pkg/service/notify"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/clock"
)

var baseTime = time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

// seqIDs hands out ordered IDs so tests can predict them
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID() model.AssignmentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return model.AssignmentID(fmt.Sprintf("a-%04d", s.n))
}

type engine struct {
	uc    *usecase.UseCases
	repo  *memory.Memory
	sink  *notify.Recorder
	clock *clock.Manual
}

func newEngine(t *testing.T, opts ...usecase.Option) *engine {
	t.Helper()

	e := &engine{
		repo:  memory.New(),
		sink:  notify.NewRecorder(),
		clock: clock.NewManual(baseTime),
	}
	base := []usecase.Option{
		usecase.WithClock(e.clock),
		usecase.WithIDGenerator(&seqIDs{}),
		usecase.WithNotificationSink(e.sink),
	}
	e.uc = usecase.New(e.repo, append(base, opts...)...)
	t.Cleanup(func() { _ = e.repo.Close() })
	return e
}

func (e *engine) create(t *testing.T, input usecase.CreateInput) *model.Assignment {
	t.Helper()
	if input.Title == "" {
		input.Title = "Brochure layout"
	}
	if input.Deadline.IsZero() {
		input.Deadline = e.clock.Now().Add(72 * time.Hour)
	}
	a, err := e.uc.Assignment.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return a
}

func ptr[T any](v T) *T {
	return &v
}
