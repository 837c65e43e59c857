package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/pressline/taskboard/pkg/usecase"
)

type createRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	EstimatedHours float64   `json:"estimatedHours"`
	Deadline       time.Time `json:"deadline"`
	AssignedTo     string    `json:"assignedTo"`
	AssignedBy     string    `json:"assignedBy"`
}

type assignRequest struct {
	AssignedTo string `json:"assignedTo"`
}

type statusRequest struct {
	Status             string   `json:"status"`
	ProgressPercentage *int     `json:"progressPercentage"`
	ActualHours        *float64 `json:"actualHours"`
}

type candidateRequest struct {
	AssigneeID string   `json:"assigneeId"`
	SkillMatch *float64 `json:"skillMatch"`
}

type suggestRequest struct {
	Candidates []candidateRequest `json:"candidates"`
}

type patchRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Priority           *string    `json:"priority"`
	Deadline           *time.Time `json:"deadline"`
	EstimatedHours     *float64   `json:"estimatedHours"`
	Status             *string    `json:"status"`
	ProgressPercentage *int       `json:"progressPercentage"`
}

type bulkRequest struct {
	IDs   []string     `json:"ids"`
	Patch patchRequest `json:"patch"`
}

func assignmentID(r *http.Request) model.AssignmentID {
	return model.AssignmentID(chi.URLParam(r, "id"))
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.uc.Assignment.Create(r.Context(), usecase.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Type:           types.AssignmentType(req.Type),
		Priority:       types.Priority(req.Priority),
		EstimatedHours: req.EstimatedHours,
		Deadline:       req.Deadline,
		AssigneeID:     req.AssignedTo,
		AssignedBy:     req.AssignedBy,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, r, http.StatusCreated, toAssignmentResponse(created, s.clock.Now()))
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.uc.Assignment.Get(r.Context(), assignmentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toAssignmentResponse(a, s.clock.Now()))
}

func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Assignment.Delete(r.Context(), assignmentID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := s.uc.Assignment.AssignTo(r.Context(), assignmentID(r), req.AssignedTo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toAssignmentResponse(a, s.clock.Now()))
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := s.uc.Assignment.UpdateStatus(r.Context(), assignmentID(r), usecase.StatusUpdate{
		Status:      types.AssignmentStatus(req.Status),
		Progress:    req.ProgressPercentage,
		ActualHours: req.ActualHours,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toAssignmentResponse(a, s.clock.Now()))
}

func (s *Server) suggestCandidates(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	candidates := make([]model.Candidate, len(req.Candidates))
	for i, c := range req.Candidates {
		candidates[i] = model.Candidate{AssigneeID: c.AssigneeID, SkillMatch: c.SkillMatch}
	}

	suggestions, err := s.uc.Assignment.SuggestCandidates(r.Context(), assignmentID(r), candidates)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]suggestionResponse, len(suggestions))
	for i, sg := range suggestions {
		resp[i] = suggestionResponse{
			AssigneeID:          sg.AssigneeID,
			Confidence:          sg.Confidence,
			Reasons:             sg.Reasons,
			Concerns:            sg.Concerns,
			EstimatedCompletion: sg.EstimatedCompletion,
			WorkloadImpact:      sg.WorkloadImpact,
			SkillMatch:          sg.SkillMatch,
			AvailabilityScore:   sg.AvailabilityScore,
		}
	}
	writeData(w, r, http.StatusOK, resp)
}

func (s *Server) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ids := make([]model.AssignmentID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = model.AssignmentID(id)
	}

	patch := model.Patch{
		Title:          req.Patch.Title,
		Description:    req.Patch.Description,
		Deadline:       req.Patch.Deadline,
		EstimatedHours: req.Patch.EstimatedHours,
		Progress:       req.Patch.ProgressPercentage,
	}
	if req.Patch.Priority != nil {
		p := types.Priority(*req.Patch.Priority)
		patch.Priority = &p
	}
	if req.Patch.Status != nil {
		st := types.AssignmentStatus(*req.Patch.Status)
		patch.Status = &st
	}

	result, err := s.uc.Assignment.BulkUpdate(r.Context(), ids, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := bulkResponse{
		Updated: toAssignmentResponses(result.Updated, s.clock.Now()),
		Skipped: make([]skippedResponse, len(result.Skipped)),
	}
	for i, sk := range result.Skipped {
		resp.Skipped[i] = skippedResponse{ID: sk.ID.String(), Reason: string(sk.Reason)}
	}
	writeData(w, r, http.StatusOK, resp)
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	filter, page, pageSize, err := parseListQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.uc.Assignment.ListFiltered(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, listResponse{
		Items: toAssignmentResponses(result.Items, s.clock.Now()),
		Total: result.Total,
		Pages: result.Pages,
	})
}

func (s *Server) getWorkload(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.uc.Assignment.ComputeWorkload(r.Context(), chi.URLParam(r, "id"), s.clock.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, r, http.StatusOK, workloadResponse{
		AssigneeID:            snapshot.AssigneeID,
		ActiveAssignments:     snapshot.ActiveCount,
		TotalWorkloadPercent:  snapshot.TotalWorkloadPercent,
		OverdueAssignments:    snapshot.OverdueCount,
		CompletedThisMonth:    snapshot.CompletedThisMonth,
		AverageCompletionDays: snapshot.AverageCompletionDays,
		ComputedAt:            snapshot.ComputedAt,
	})
}

// parseListQuery reads filter and paging parameters. Multi-valued
// parameters may be repeated or comma separated.
func parseListQuery(r *http.Request) (model.Filter, int, int, error) {
	q := r.URL.Query()

	filter := model.Filter{
		Search: strings.TrimSpace(q.Get("q")),
		Sort:   types.SortKey(q.Get("sort")),
	}
	for _, v := range splitValues(q["status"]) {
		filter.Statuses = append(filter.Statuses, types.AssignmentStatus(v))
	}
	for _, v := range splitValues(q["type"]) {
		filter.Types = append(filter.Types, types.AssignmentType(v))
	}
	for _, v := range splitValues(q["priority"]) {
		filter.Priorities = append(filter.Priorities, types.Priority(v))
	}
	filter.AssigneeIDs = splitValues(q["assignee"])

	var err error
	if filter.Unassigned, err = parseBoolParam(q.Get("unassigned"), "unassigned"); err != nil {
		return filter, 0, 0, err
	}
	if filter.Overdue, err = parseBoolParam(q.Get("overdue"), "overdue"); err != nil {
		return filter, 0, 0, err
	}

	page, err := parseIntParam(q.Get("page"), "page", 1)
	if err != nil {
		return filter, 0, 0, err
	}
	pageSize, err := parseIntParam(q.Get("page_size"), "page_size", defaultPageSize)
	if err != nil {
		return filter, 0, 0, err
	}
	if pageSize > maxPageSize {
		return filter, 0, 0, goerr.Wrap(usecase.ErrValidation, "page size too large",
			goerr.V(usecase.FieldKey, "page_size"), goerr.V("max", maxPageSize))
	}

	return filter, page, pageSize, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBoolParam(v, name string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, goerr.Wrap(usecase.ErrValidation, "invalid boolean parameter",
			goerr.V(usecase.FieldKey, name), goerr.V("value", v))
	}
	return &b, nil
}

func parseIntParam(v, name string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, "invalid integer parameter",
			goerr.V(usecase.FieldKey, name), goerr.V("value", v))
	}
	return n, nil
}
