package interfaces

import (
	"context"

	"github.com/pressline/taskboard/pkg/domain/model"
)

// AssignmentRepository defines the interface for Assignment data access.
// Implementations store what they are given; timestamps and identifiers are
// assigned by the caller.
type AssignmentRepository interface {
	// Create stores a new assignment. The ID must be set and unused.
	Create(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error)

	// Get retrieves an assignment by ID
	Get(ctx context.Context, id model.AssignmentID) (*model.Assignment, error)

	// List retrieves all assignments in no particular order
	List(ctx context.Context) ([]*model.Assignment, error)

	// ListByAssignee retrieves all assignments bound to one assignee
	ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Assignment, error)

	// Update replaces an existing assignment
	Update(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error)

	// Delete removes an assignment by ID
	Delete(ctx context.Context, id model.AssignmentID) error
}
