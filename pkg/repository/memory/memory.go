package memory

import (
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps all data in process. Each instance is isolated, so tests can
// create one per case.
type Memory struct {
	assignment *assignmentRepository
}

var _ interfaces.Repository = &Memory{}

// Option configures a Memory repository
type Option func(*Memory)

// WithSeed preloads assignments. Entries are copied; later mutation of the
// arguments does not affect the store.
func WithSeed(assignments ...*model.Assignment) Option {
	return func(m *Memory) {
		for _, a := range assignments {
			m.assignment.assignments[a.ID] = a.Copy()
		}
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		assignment: newAssignmentRepository(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Assignment() interfaces.AssignmentRepository {
	return m.assignment
}

// Close drops all stored data
func (m *Memory) Close() error {
	m.assignment.reset()
	return nil
}
