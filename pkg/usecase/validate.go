package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
)

// ValidationIssue is one stored assignment that breaks an invariant
type ValidationIssue struct {
	AssignmentID model.AssignmentID
	Field        string
	Message      string
}

// ValidationResult holds the results of store validation
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateStore checks every stored assignment against the model invariants.
// It does NOT modify any data.
func (uc *UseCases) ValidateStore(ctx context.Context) (*ValidationResult, error) {
	all, err := uc.repo.Assignment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments")
	}

	result := &ValidationResult{Checked: len(all)}
	for _, a := range all {
		if err := a.Validate(); err != nil {
			result.AddIssue(ValidationIssue{
				AssignmentID: a.ID,
				Field:        FieldOf(err),
				Message:      err.Error(),
			})
		}
	}

	return result, nil
}
