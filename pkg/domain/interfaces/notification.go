package interfaces

import (
	"context"

	"github.com/pressline/taskboard/pkg/domain/model"
)

// NotificationSink receives assignment events. Delivery is best-effort:
// callers log returned errors and carry on.
type NotificationSink interface {
	SendAssignmentEvent(ctx context.Context, event *model.AssignmentEvent) error
}

// AssigneeDirectory resolves whether an assignee identifier refers to a known person
type AssigneeDirectory interface {
	Exists(ctx context.Context, assigneeID string) (bool, error)
}
