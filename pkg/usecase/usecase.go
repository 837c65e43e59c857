package usecase

import (
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/utils/clock"
	"github.com/pressline/taskboard/pkg/utils/idgen"
)

type UseCases struct {
	repo        interfaces.Repository
	clock       interfaces.Clock
	ids         interfaces.IDGenerator
	sink        interfaces.NotificationSink
	directory   interfaces.AssigneeDirectory
	policy      model.Policy
	asyncNotify bool

	Assignment *AssignmentUseCase
}

type Option func(*UseCases)

// WithClock replaces the wall clock. Deadline, overdue and month boundaries
// are all computed from this clock.
func WithClock(c interfaces.Clock) Option {
	return func(uc *UseCases) {
		uc.clock = c
	}
}

func WithIDGenerator(ids interfaces.IDGenerator) Option {
	return func(uc *UseCases) {
		uc.ids = ids
	}
}

func WithNotificationSink(sink interfaces.NotificationSink) Option {
	return func(uc *UseCases) {
		uc.sink = sink
	}
}

// WithAssigneeDirectory enables rejection of unknown assignee IDs. Without a
// directory any non-empty ID is accepted.
func WithAssigneeDirectory(dir interfaces.AssigneeDirectory) Option {
	return func(uc *UseCases) {
		uc.directory = dir
	}
}

// WithPolicy sets the scoring policy. The policy must already be validated.
func WithPolicy(p model.Policy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

// WithAsyncNotification sends notifications from a background goroutine
// instead of inline with the state change.
func WithAsyncNotification(enabled bool) Option {
	return func(uc *UseCases) {
		uc.asyncNotify = enabled
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		clock:  clock.System{},
		policy: model.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.ids == nil {
		uc.ids = idgen.NewULID(uc.clock)
	}

	uc.Assignment = &AssignmentUseCase{
		repo:        repo,
		clock:       uc.clock,
		ids:         uc.ids,
		sink:        uc.sink,
		directory:   uc.directory,
		policy:      uc.policy,
		asyncNotify: uc.asyncNotify,
		locks:       newKeyedMutex(),
	}

	return uc
}

// Policy returns the scoring policy in effect
func (uc *UseCases) Policy() model.Policy {
	return uc.policy
}
