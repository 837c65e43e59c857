package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assignmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssignmentRepository(client *firestore.Client) *assignmentRepository {
	return &assignmentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *assignmentRepository) assignmentsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assignments"
	}
	return "assignments"
}

// assignmentDoc is the stored shape of an assignment. Field names are part of
// the index configuration applied by the migrate command.
type assignmentDoc struct {
	ID                 string     `firestore:"id"`
	Title              string     `firestore:"title"`
	Description        string     `firestore:"description"`
	Type               string     `firestore:"type"`
	Priority           string     `firestore:"priority"`
	Status             string     `firestore:"status"`
	AssigneeID         string     `firestore:"assignee_id"`
	AssignedBy         string     `firestore:"assigned_by"`
	Deadline           time.Time  `firestore:"deadline"`
	EstimatedHours     float64    `firestore:"estimated_hours"`
	ActualHours        *float64   `firestore:"actual_hours"`
	ProgressPercentage int        `firestore:"progress_percentage"`
	RevisionCount      int        `firestore:"revision_count"`
	LastRevisionAt     *time.Time `firestore:"last_revision_at"`
	AssignedAt         *time.Time `firestore:"assigned_at"`
	StartedAt          *time.Time `firestore:"started_at"`
	CompletedAt        *time.Time `firestore:"completed_at"`
	DeadlineNotice     string     `firestore:"deadline_notice"`
	CreatedAt          time.Time  `firestore:"created_at"`
	UpdatedAt          time.Time  `firestore:"updated_at"`
}

func toAssignmentDoc(a *model.Assignment) *assignmentDoc {
	return &assignmentDoc{
		ID:                 a.ID.String(),
		Title:              a.Title,
		Description:        a.Description,
		Type:               a.Type.String(),
		Priority:           a.Priority.String(),
		Status:             a.Status.String(),
		AssigneeID:         a.AssigneeID,
		AssignedBy:         a.AssignedBy,
		Deadline:           a.Deadline,
		EstimatedHours:     a.EstimatedHours,
		ActualHours:        a.ActualHours,
		ProgressPercentage: a.ProgressPercentage,
		RevisionCount:      a.RevisionCount,
		LastRevisionAt:     a.LastRevisionAt,
		AssignedAt:         a.AssignedAt,
		StartedAt:          a.StartedAt,
		CompletedAt:        a.CompletedAt,
		DeadlineNotice:     a.DeadlineNotice.String(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (d *assignmentDoc) toModel() *model.Assignment {
	return &model.Assignment{
		ID:                 model.AssignmentID(d.ID),
		Title:              d.Title,
		Description:        d.Description,
		Type:               types.AssignmentType(d.Type),
		Priority:           types.Priority(d.Priority),
		Status:             types.AssignmentStatus(d.Status),
		AssigneeID:         d.AssigneeID,
		AssignedBy:         d.AssignedBy,
		Deadline:           d.Deadline.UTC(),
		EstimatedHours:     d.EstimatedHours,
		ActualHours:        d.ActualHours,
		ProgressPercentage: d.ProgressPercentage,
		RevisionCount:      d.RevisionCount,
		LastRevisionAt:     utcPtr(d.LastRevisionAt),
		AssignedAt:         utcPtr(d.AssignedAt),
		StartedAt:          utcPtr(d.StartedAt),
		CompletedAt:        utcPtr(d.CompletedAt),
		DeadlineNotice:     types.NotificationKind(d.DeadlineNotice),
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	if assignment.ID == "" {
		return nil, goerr.New("assignment ID is required")
	}

	docRef := r.client.Collection(r.assignmentsCollection()).Doc(assignment.ID.String())
	if _, err := docRef.Create(ctx, toAssignmentDoc(assignment)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "assignment already exists", goerr.V("id", assignment.ID))
		}
		return nil, goerr.Wrap(err, "failed to create assignment", goerr.V("id", assignment.ID))
	}

	return assignment.Copy(), nil
}

func (r *assignmentRepository) Get(ctx context.Context, id model.AssignmentID) (*model.Assignment, error) {
	docSnap, err := r.client.Collection(r.assignmentsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assignment", goerr.V("id", id))
	}

	var doc assignmentDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assignment", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]*model.Assignment, error) {
	iter := r.client.Collection(r.assignmentsCollection()).Documents(ctx)
	return collectAssignments(iter)
}

func (r *assignmentRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]*model.Assignment, error) {
	iter := r.client.Collection(r.assignmentsCollection()).
		Where("assignee_id", "==", assigneeID).
		OrderBy("deadline", firestore.Asc).
		Documents(ctx)
	assignments, err := collectAssignments(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignments by assignee", goerr.V("assignee_id", assigneeID))
	}
	return assignments, nil
}

func collectAssignments(iter *firestore.DocumentIterator) ([]*model.Assignment, error) {
	defer iter.Stop()

	assignments := make([]*model.Assignment, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assignments")
		}

		var doc assignmentDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assignment", goerr.V("doc_id", docSnap.Ref.ID))
		}

		assignments = append(assignments, doc.toModel())
	}

	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.Assignment) (*model.Assignment, error) {
	docRef := r.client.Collection(r.assignmentsCollection()).Doc(assignment.ID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", assignment.ID))
			}
			return goerr.Wrap(err, "failed to check assignment existence", goerr.V("id", assignment.ID))
		}
		return tx.Set(docRef, toAssignmentDoc(assignment))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assignment", goerr.V("id", assignment.ID))
	}

	return assignment.Copy(), nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id model.AssignmentID) error {
	docRef := r.client.Collection(r.assignmentsCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check assignment existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assignment", goerr.V("id", id))
	}

	return nil
}
