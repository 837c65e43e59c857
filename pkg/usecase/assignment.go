package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/utils/async"
	"github.com/pressline/taskboard/pkg/utils/errutil"
)

// AssignmentUseCase owns the assignment lifecycle, workload aggregation and
// assignee suggestions. Mutations on the same assignment are serialized and
// always re-read the stored record before validating a transition.
type AssignmentUseCase struct {
	repo        interfaces.Repository
	clock       interfaces.Clock
	ids         interfaces.IDGenerator
	sink        interfaces.NotificationSink
	directory   interfaces.AssigneeDirectory
	policy      model.Policy
	asyncNotify bool
	locks       *keyedMutex
}

// CreateInput holds the fields accepted when creating an assignment
type CreateInput struct {
	Title          string
	Description    string
	Type           types.AssignmentType
	Priority       types.Priority
	EstimatedHours float64
	Deadline       time.Time
	AssigneeID     string
	AssignedBy     string
}

// StatusUpdate requests a status transition. Progress and ActualHours are optional.
type StatusUpdate struct {
	Status      types.AssignmentStatus
	Progress    *int
	ActualHours *float64
}

func (uc *AssignmentUseCase) Create(ctx context.Context, input CreateInput) (*model.Assignment, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required", "title")
	}
	if input.Deadline.IsZero() {
		return nil, validationError("deadline is required", "deadline")
	}
	if input.EstimatedHours < 0 {
		return nil, validationError("estimated hours must not be negative", "estimatedHours",
			goerr.V("estimated_hours", input.EstimatedHours))
	}

	assignmentType := input.Type.Normalize()
	if !assignmentType.IsValid() {
		return nil, validationError("invalid assignment type", "type", goerr.V("type", input.Type))
	}
	priority := input.Priority.Normalize()
	if !priority.IsValid() {
		return nil, validationError("invalid priority", "priority", goerr.V("priority", input.Priority))
	}

	if input.AssigneeID != "" {
		if err := uc.checkAssignee(ctx, input.AssigneeID); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	assignment := &model.Assignment{
		ID:             uc.ids.NewID(),
		Title:          title,
		Description:    input.Description,
		Type:           assignmentType,
		Priority:       priority,
		Status:         types.AssignmentStatusUnassigned,
		AssignedBy:     input.AssignedBy,
		Deadline:       input.Deadline,
		EstimatedHours: input.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.AssigneeID != "" {
		assignment.AssigneeID = input.AssigneeID
		assignment.Status = types.AssignmentStatusAssigned
		assignment.AssignedAt = &now
	}

	if err := assignment.Validate(); err != nil {
		return nil, goerr.Wrap(err, "assignment failed invariant check")
	}

	created, err := uc.repo.Assignment().Create(ctx, assignment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assignment", goerr.V(AssignmentIDKey, assignment.ID))
	}

	if created.AssigneeID != "" {
		uc.notify(ctx, types.NotificationKindCreated, created)
	}

	return created, nil
}

func (uc *AssignmentUseCase) Get(ctx context.Context, id model.AssignmentID) (*model.Assignment, error) {
	return uc.get(ctx, id)
}

// AssignTo binds the assignment to assigneeID. Assigning an unassigned task
// moves it to assigned; reassigning keeps the current status. The assignee is
// notified on every call, even when nothing changed.
func (uc *AssignmentUseCase) AssignTo(ctx context.Context, id model.AssignmentID, assigneeID string) (*model.Assignment, error) {
	if strings.TrimSpace(assigneeID) == "" {
		return nil, goerr.Wrap(ErrInvalidAssignee, "assignee is required",
			goerr.V(AssignmentIDKey, id), goerr.V(FieldKey, "assignedTo"))
	}

	unlock := uc.locks.Lock(id)
	defer unlock()

	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, closedError(current, "cannot assign a closed assignment")
	}

	if err := uc.checkAssignee(ctx, assigneeID); err != nil {
		return nil, err
	}

	result := current
	if current.AssigneeID != assigneeID {
		now := uc.clock.Now()
		next := current.Copy()
		next.AssigneeID = assigneeID
		next.AssignedAt = &now
		next.DeadlineNotice = ""
		next.UpdatedAt = now
		if next.Status == types.AssignmentStatusUnassigned {
			next.Status = types.AssignmentStatusAssigned
		}

		result, err = uc.save(ctx, next)
		if err != nil {
			return nil, err
		}
	}

	uc.notify(ctx, types.NotificationKindCreated, result)

	return result, nil
}

// UpdateStatus applies one state machine transition. A request for the
// current status with a progress value only updates progress.
func (uc *AssignmentUseCase) UpdateStatus(ctx context.Context, id model.AssignmentID, update StatusUpdate) (*model.Assignment, error) {
	if !update.Status.IsValid() {
		return nil, validationError("invalid status", "status",
			goerr.V(AssignmentIDKey, id), goerr.V(ToStatusKey, update.Status))
	}
	if err := validateProgress(update.Progress); err != nil {
		return nil, err
	}
	if update.ActualHours != nil {
		if *update.ActualHours < 0 {
			return nil, validationError("actual hours must not be negative", "actualHours",
				goerr.V(AssignmentIDKey, id))
		}
		if update.Status != types.AssignmentStatusCompleted {
			return nil, validationError("actual hours can only be recorded on completion", "actualHours",
				goerr.V(AssignmentIDKey, id), goerr.V(ToStatusKey, update.Status))
		}
	}

	unlock := uc.locks.Lock(id)
	defer unlock()

	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, closedError(current, "cannot change status of a closed assignment",
			goerr.V(ToStatusKey, update.Status))
	}

	now := uc.clock.Now()
	next := current.Copy()

	if update.Status == current.Status {
		if update.Progress == nil {
			return nil, transitionError(current, update.Status)
		}
		next.UpdatedAt = now
	} else if err := checkTransition(current, update.Status); err != nil {
		return nil, err
	} else {
		applyTransition(next, update.Status, now)
	}

	if update.Progress != nil && next.Status != types.AssignmentStatusCompleted {
		next.ProgressPercentage = *update.Progress
	}
	if update.ActualHours != nil {
		hours := *update.ActualHours
		next.ActualHours = &hours
	}

	saved, err := uc.save(ctx, next)
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, types.NotificationKindUpdated, saved)

	return saved, nil
}

// ListFiltered returns one page of assignments matching filter. Results are
// ordered by filter.Sort (created_at_desc when empty) with ID descending as
// the final tie break, so pages are stable across calls.
func (uc *AssignmentUseCase) ListFiltered(ctx context.Context, filter model.Filter, page, pageSize int) (*model.Page, error) {
	if pageSize <= 0 {
		return nil, validationError("page size must be positive", "pageSize", goerr.V("page_size", pageSize))
	}
	if err := validateFilter(&filter); err != nil {
		return nil, err
	}

	all, err := uc.repo.Assignment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments")
	}

	now := uc.clock.Now()
	matched := make([]*model.Assignment, 0, len(all))
	for _, a := range all {
		if filter.Match(a, now) {
			matched = append(matched, a)
		}
	}

	model.SortAssignments(matched, filter.Sort)
	return model.Paginate(matched, page, pageSize), nil
}

// BulkUpdate applies patch to every listed assignment it can. Missing, closed
// and otherwise rejected assignments are reported in Skipped; only an invalid
// patch fails the whole call.
func (uc *AssignmentUseCase) BulkUpdate(ctx context.Context, ids []model.AssignmentID, patch model.Patch) (*model.BulkResult, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	result := &model.BulkResult{
		Updated: []*model.Assignment{},
		Skipped: []model.SkippedAssignment{},
	}

	seen := make(map[model.AssignmentID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		updated, reason := uc.applyPatch(ctx, id, &patch)
		if reason != "" {
			result.Skipped = append(result.Skipped, model.SkippedAssignment{ID: id, Reason: reason})
			continue
		}
		result.Updated = append(result.Updated, updated)
	}

	return result, nil
}

func (uc *AssignmentUseCase) applyPatch(ctx context.Context, id model.AssignmentID, patch *model.Patch) (*model.Assignment, model.SkipReason) {
	unlock := uc.locks.Lock(id)
	defer unlock()

	current, err := uc.get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, model.SkipReasonNotFound
		}
		errutil.Handle(ctx, err, "bulk update could not load assignment")
		return nil, model.SkipReasonFailed
	}
	if current.IsTerminal() {
		return nil, model.SkipReasonClosed
	}

	now := uc.clock.Now()
	next := current.Copy()
	next.UpdatedAt = now

	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.Deadline != nil && !patch.Deadline.Equal(next.Deadline) {
		next.Deadline = *patch.Deadline
		next.DeadlineNotice = ""
	}
	if patch.EstimatedHours != nil {
		next.EstimatedHours = *patch.EstimatedHours
	}
	if patch.Status != nil && *patch.Status != current.Status {
		if err := checkTransition(current, *patch.Status); err != nil {
			if errors.Is(err, ErrInvalidAssignee) {
				return nil, model.SkipReasonInvalidAssignee
			}
			return nil, model.SkipReasonInvalidTransition
		}
		applyTransition(next, *patch.Status, now)
	}
	if patch.Progress != nil && next.Status != types.AssignmentStatusCompleted {
		next.ProgressPercentage = *patch.Progress
	}

	saved, err := uc.save(ctx, next)
	if err != nil {
		errutil.Handle(ctx, err, "bulk update could not save assignment")
		return nil, model.SkipReasonFailed
	}

	uc.notify(ctx, types.NotificationKindUpdated, saved)

	return saved, ""
}

// Delete removes the assignment. Deleting an absent assignment succeeds.
func (uc *AssignmentUseCase) Delete(ctx context.Context, id model.AssignmentID) error {
	unlock := uc.locks.Lock(id)
	defer unlock()

	if err := uc.repo.Assignment().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete assignment", goerr.V(AssignmentIDKey, id))
	}

	return nil
}

func (uc *AssignmentUseCase) get(ctx context.Context, id model.AssignmentID) (*model.Assignment, error) {
	a, err := uc.repo.Assignment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V(AssignmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assignment", goerr.V(AssignmentIDKey, id))
	}
	return a, nil
}

func (uc *AssignmentUseCase) save(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(err, "assignment failed invariant check")
	}

	saved, err := uc.repo.Assignment().Update(ctx, a)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V(AssignmentIDKey, a.ID))
		}
		return nil, goerr.Wrap(err, "failed to update assignment", goerr.V(AssignmentIDKey, a.ID))
	}
	return saved, nil
}

func (uc *AssignmentUseCase) checkAssignee(ctx context.Context, assigneeID string) error {
	if uc.directory == nil {
		return nil
	}

	exists, err := uc.directory.Exists(ctx, assigneeID)
	if err != nil {
		return goerr.Wrap(err, "failed to look up assignee", goerr.V(AssigneeIDKey, assigneeID))
	}
	if !exists {
		return goerr.Wrap(ErrInvalidAssignee, "unknown assignee",
			goerr.V(AssigneeIDKey, assigneeID), goerr.V(FieldKey, "assignedTo"))
	}
	return nil
}

// notify delivers an event to the assignment's assignee. Delivery problems
// are logged and never reach the caller.
func (uc *AssignmentUseCase) notify(ctx context.Context, kind types.NotificationKind, a *model.Assignment) {
	if uc.sink == nil || a.AssigneeID == "" {
		return
	}

	event := model.NewAssignmentEvent(kind, a, uc.clock.Now())
	send := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = goerr.New("notification sink panicked", goerr.V("panic", r))
			}
		}()
		return uc.sink.SendAssignmentEvent(ctx, event)
	}

	if uc.asyncNotify {
		async.Dispatch(ctx, "assignment notification", send)
		return
	}

	if err := send(ctx); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to send assignment notification",
			goerr.V(AssignmentIDKey, a.ID),
			goerr.V(AssigneeIDKey, a.AssigneeID),
			goerr.V("kind", kind)),
			"notification delivery failed")
	}
}

func validateProgress(progress *int) error {
	if progress != nil && (*progress < 0 || *progress > 100) {
		return validationError("progress must be between 0 and 100", "progressPercentage",
			goerr.V("progress", *progress))
	}
	return nil
}

func validateFilter(f *model.Filter) error {
	for _, s := range f.Statuses {
		if !s.IsValid() {
			return validationError("invalid status filter", "status", goerr.V("status", s))
		}
	}
	for _, t := range f.Types {
		if !t.IsValid() {
			return validationError("invalid type filter", "type", goerr.V("type", t))
		}
	}
	for _, p := range f.Priorities {
		if !p.IsValid() {
			return validationError("invalid priority filter", "priority", goerr.V("priority", p))
		}
	}
	if !f.Sort.Normalize().IsValid() {
		return validationError("invalid sort key", "sort", goerr.V("sort", f.Sort))
	}
	return nil
}

func validatePatch(p *model.Patch) error {
	if p.IsEmpty() {
		return validationError("patch changes nothing", "patch")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return validationError("title cannot be empty", "title")
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return validationError("invalid priority", "priority", goerr.V("priority", *p.Priority))
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return validationError("deadline cannot be cleared", "deadline")
	}
	if p.EstimatedHours != nil && *p.EstimatedHours < 0 {
		return validationError("estimated hours must not be negative", "estimatedHours")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return validationError("invalid status", "status", goerr.V("status", *p.Status))
	}
	return validateProgress(p.Progress)
}
