package usecase

import (
	"time"

	"github.com/pressline/taskboard/pkg/domain/model"
)

// BuildWorkload is exported for testing
func BuildWorkload(assigneeID string, assignments []*model.Assignment, now time.Time, perTask int) *model.WorkloadSnapshot {
	return buildWorkload(assigneeID, assignments, now, perTask, "")
}

// NewKeyedMutex is exported for testing
var NewKeyedMutex = newKeyedMutex
