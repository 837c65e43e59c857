package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
)

type assignmentRepository struct {
	mu          sync.RWMutex
	assignments map[model.AssignmentID]*model.Assignment
}

func newAssignmentRepository() *assignmentRepository {
	return &assignmentRepository{
		assignments: make(map[model.AssignmentID]*model.Assignment),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	if assignment.ID == "" {
		return nil, goerr.New("assignment ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assignments[assignment.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "assignment already exists", goerr.V("id", assignment.ID))
	}

	r.assignments[assignment.ID] = assignment.Copy()
	return assignment.Copy(), nil
}

func (r *assignmentRepository) Get(ctx context.Context, id model.AssignmentID) (*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignment, exists := r.assignments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", id))
	}

	return assignment.Copy(), nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := make([]*model.Assignment, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		assignments = append(assignments, assignment.Copy())
	}

	return assignments, nil
}

func (r *assignmentRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := make([]*model.Assignment, 0)
	for _, assignment := range r.assignments {
		if assignment.AssigneeID == assigneeID {
			assignments = append(assignments, assignment.Copy())
		}
	}

	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assignments[assignment.ID]; !exists {
		return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", assignment.ID))
	}

	r.assignments[assignment.ID] = assignment.Copy()
	return assignment.Copy(), nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id model.AssignmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assignments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", id))
	}

	delete(r.assignments, id)
	return nil
}

func (r *assignmentRepository) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = make(map[model.AssignmentID]*model.Assignment)
}
