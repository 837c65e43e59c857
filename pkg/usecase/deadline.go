package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/utils/errutil"
	"github.com/pressline/taskboard/pkg/utils/logging"
)

// NotifyDeadlines sends due_soon and overdue notices for active assignments.
// Each kind goes out at most once per deadline. It returns the number of
// notices sent.
func (uc *AssignmentUseCase) NotifyDeadlines(ctx context.Context) (int, error) {
	all, err := uc.repo.Assignment().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list assignments")
	}

	sent := 0
	for _, a := range all {
		if !a.IsActive() || a.AssigneeID == "" {
			continue
		}
		if uc.deadlineNotice(a) == "" {
			continue
		}

		ok, err := uc.sendDeadlineNotice(ctx, a.ID)
		if err != nil {
			errutil.Handle(ctx, err, "failed to record deadline notice")
			continue
		}
		if ok {
			sent++
		}
	}

	if sent > 0 {
		logging.From(ctx).Info("deadline notices sent", "count", sent)
	}

	return sent, nil
}

// deadlineNotice returns the notice kind due for a, or empty when nothing is due
func (uc *AssignmentUseCase) deadlineNotice(a *model.Assignment) types.NotificationKind {
	now := uc.clock.Now()

	var kind types.NotificationKind
	switch {
	case a.IsOverdue(now):
		kind = types.NotificationKindOverdue
	case a.Deadline.Sub(now) <= uc.policy.DueSoonWindow:
		kind = types.NotificationKindDueSoon
	default:
		return ""
	}

	if a.DeadlineNotice == kind {
		return ""
	}
	// An overdue notice supersedes due_soon, never the reverse.
	if a.DeadlineNotice == types.NotificationKindOverdue {
		return ""
	}
	return kind
}

func (uc *AssignmentUseCase) sendDeadlineNotice(ctx context.Context, id model.AssignmentID) (bool, error) {
	unlock := uc.locks.Lock(id)
	defer unlock()

	current, err := uc.get(ctx, id)
	if err != nil {
		return false, err
	}
	if !current.IsActive() || current.AssigneeID == "" {
		return false, nil
	}

	kind := uc.deadlineNotice(current)
	if kind == "" {
		return false, nil
	}

	next := current.Copy()
	next.DeadlineNotice = kind
	next.UpdatedAt = uc.clock.Now()

	saved, err := uc.save(ctx, next)
	if err != nil {
		return false, err
	}

	uc.notify(ctx, kind, saved)
	return true, nil
}
