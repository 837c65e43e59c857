package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/errutil"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"github.com/pressline/taskboard/pkg/utils/safe"
)

type assignmentResponse struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Type               string     `json:"type"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	AssignedTo         *string    `json:"assignedTo"`
	AssignedBy         string     `json:"assignedBy"`
	Deadline           time.Time  `json:"deadline"`
	EstimatedHours     float64    `json:"estimatedHours"`
	ActualHours        *float64   `json:"actualHours"`
	ProgressPercentage int        `json:"progressPercentage"`
	RevisionCount      int        `json:"revisionCount"`
	LastRevisionAt     *time.Time `json:"lastRevisionAt"`
	AssignedAt         *time.Time `json:"assignedAt"`
	StartedAt          *time.Time `json:"startedAt"`
	CompletedAt        *time.Time `json:"completedAt"`
	Overdue            bool       `json:"overdue"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toAssignmentResponse(a *model.Assignment, now time.Time) assignmentResponse {
	resp := assignmentResponse{
		ID:                 a.ID.String(),
		Title:              a.Title,
		Description:        a.Description,
		Type:               a.Type.String(),
		Priority:           a.Priority.String(),
		Status:             a.Status.String(),
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
		Overdue:            a.IsOverdue(now),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.AssigneeID != "" {
		assignee := a.AssigneeID
		resp.AssignedTo = &assignee
	}
	return resp
}

func toAssignmentResponses(items []*model.Assignment, now time.Time) []assignmentResponse {
	out := make([]assignmentResponse, len(items))
	for i, a := range items {
		out[i] = toAssignmentResponse(a, now)
	}
	return out
}

type listResponse struct {
	Items []assignmentResponse `json:"items"`
	Total int                  `json:"total"`
	Pages int                  `json:"pages"`
}

type workloadResponse struct {
	AssigneeID            string    `json:"assigneeId"`
	ActiveAssignments     int       `json:"activeAssignments"`
	TotalWorkloadPercent  int       `json:"totalWorkloadPercent"`
	OverdueAssignments    int       `json:"overdueAssignments"`
	CompletedThisMonth    int       `json:"completedThisMonth"`
	AverageCompletionDays float64   `json:"averageCompletionDays"`
	ComputedAt            time.Time `json:"computedAt"`
}

type suggestionResponse struct {
	AssigneeID          string    `json:"assigneeId"`
	Confidence          float64   `json:"confidence"`
	Reasons             []string  `json:"reasons"`
	Concerns            []string  `json:"concerns"`
	EstimatedCompletion time.Time `json:"estimatedCompletion"`
	WorkloadImpact      float64   `json:"workloadImpact"`
	SkillMatch          float64   `json:"skillMatch"`
	AvailabilityScore   float64   `json:"availabilityScore"`
}

type skippedResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type bulkResponse struct {
	Updated []assignmentResponse `json:"updated"`
	Skipped []skippedResponse    `json:"skipped"`
}

type errorResponse struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
}

func statusOf(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.ErrorKindValidation:
		return http.StatusBadRequest
	case usecase.ErrorKindNotFound:
		return http.StatusNotFound
	case usecase.ErrorKindInvalidAssignee:
		return http.StatusUnprocessableEntity
	case usecase.ErrorKindClosedAssignment, usecase.ErrorKindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func writeData(w http.ResponseWriter, r *http.Request, status int, v any) {
	writeJSON(w, r, status, map[string]any{"data": v})
}

// writeError renders err as the error envelope. Internal errors are reported
// and their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := usecase.KindOf(err)
	resp := errorResponse{
		ErrorKind: string(kind),
		Message:   err.Error(),
		Field:     usecase.FieldOf(err),
	}

	if kind == usecase.ErrorKindInternal {
		errutil.Handle(r.Context(), err, "request failed")
		resp.Message = "internal error"
		resp.Field = ""
	} else {
		logging.From(r.Context()).Info("request rejected",
			"kind", kind,
			"error", err.Error())
	}

	writeJSON(w, r, statusOf(kind), resp)
}

// decodeJSON reads the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return goerr.Wrap(usecase.ErrValidation, "request body too large",
				goerr.V(usecase.FieldKey, "body"), goerr.V("limit", maxErr.Limit))
		}
		return goerr.Wrap(usecase.ErrValidation, "invalid request body: "+err.Error(),
			goerr.V(usecase.FieldKey, "body"))
	}
	return nil
}
