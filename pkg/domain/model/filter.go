package model

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pressline/taskboard/pkg/domain/types"
)

// Filter is an AND-combination of optional predicates over assignments.
// Empty slices and nil pointers impose no constraint.
type Filter struct {
	Statuses    []types.AssignmentStatus
	Types       []types.AssignmentType
	Priorities  []types.Priority
	AssigneeIDs []string
	Unassigned  *bool
	Overdue     *bool
	Search      string
	Sort        types.SortKey
}

// Match reports whether a satisfies every clause of the filter at time now
func (f *Filter) Match(a *Assignment, now time.Time) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, a.Status) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, a.Type) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, a.Priority) {
		return false
	}
	if len(f.AssigneeIDs) > 0 && !slices.Contains(f.AssigneeIDs, a.AssigneeID) {
		return false
	}
	if f.Unassigned != nil && *f.Unassigned != (a.AssigneeID == "") {
		return false
	}
	if f.Overdue != nil && *f.Overdue != a.IsOverdue(now) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			return false
		}
	}
	return true
}

// SortAssignments orders assignments in place by key, breaking ties by ID descending
func SortAssignments(assignments []*Assignment, key types.SortKey) {
	less := func(a, b *Assignment) (bool, bool) {
		switch key.Normalize() {
		case types.SortDeadlineAsc:
			if !a.Deadline.Equal(b.Deadline) {
				return a.Deadline.Before(b.Deadline), true
			}
		case types.SortPriorityDesc:
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() > b.Priority.Rank(), true
			}
		case types.SortUpdatedAtDesc:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt), true
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt), true
			}
		}
		return false, false
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		if result, decided := less(assignments[i], assignments[j]); decided {
			return result
		}
		return assignments[i].ID > assignments[j].ID
	})
}

// Page is one page of a filtered assignment list
type Page struct {
	Items []*Assignment
	Total int
	Pages int
}

// Paginate slices sorted items into a 1-indexed page. Out-of-range pages yield
// no items; pageSize must be positive.
func Paginate(items []*Assignment, page, pageSize int) *Page {
	total := len(items)
	result := &Page{
		Items: []*Assignment{},
		Total: total,
		Pages: total / pageSize,
	}
	if total%pageSize != 0 {
		result.Pages++
	}

	if page < 1 || page > result.Pages {
		return result
	}

	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)
	result.Items = items[start:end]
	return result
}
