// Package fixture generates randomized but reproducible assignment sets.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
)

// Generator builds assignments from a fixed seed. The same seed and base
// time always produce the same set.
type Generator struct {
	rng       *rand.Rand
	base      time.Time
	assignees []string
	seq       int
}

type Option func(*Generator)

// WithAssignees sets the pool assignees are drawn from
func WithAssignees(ids ...string) Option {
	return func(g *Generator) {
		g.assignees = ids
	}
}

func New(seed uint64, base time.Time, opts ...Option) *Generator {
	g := &Generator{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		base:      base,
		assignees: []string{"emp_001", "emp_002", "emp_003", "emp_004"},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var titles = []string{
	"Brochure layout",
	"Business card reprint",
	"Catalog proof",
	"Poster color check",
	"Press maintenance",
	"Label die line",
	"Annual report review",
}

// Assignment returns one assignment that satisfies every model invariant
func (g *Generator) Assignment() *model.Assignment {
	g.seq++

	statuses := types.AllAssignmentStatuses()
	kinds := types.AllAssignmentTypes()
	priorities := types.AllPriorities()

	status := statuses[g.rng.IntN(len(statuses))]
	created := g.base.Add(-time.Duration(g.rng.IntN(60*24)) * time.Hour)
	deadline := g.base.Add(time.Duration(g.rng.IntN(20*24)-10*24) * time.Hour)

	a := &model.Assignment{
		ID:             model.AssignmentID(fmt.Sprintf("fx-%06d", g.seq)),
		Title:          titles[g.rng.IntN(len(titles))],
		Description:    fmt.Sprintf("generated assignment %d", g.seq),
		Type:           kinds[g.rng.IntN(len(kinds))],
		Priority:       priorities[g.rng.IntN(len(priorities))],
		Status:         status,
		AssignedBy:     "fixture",
		Deadline:       deadline,
		EstimatedHours: float64(1 + g.rng.IntN(40)),
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	if status != types.AssignmentStatusUnassigned &&
		!(status == types.AssignmentStatusCancelled && g.rng.IntN(4) == 0) {
		a.AssigneeID = g.assignees[g.rng.IntN(len(g.assignees))]
		assigned := created.Add(time.Hour)
		a.AssignedAt = &assigned
	}

	switch status {
	case types.AssignmentStatusInProgress, types.AssignmentStatusReview, types.AssignmentStatusRevision:
		started := created.Add(2 * time.Hour)
		a.StartedAt = &started
		a.ProgressPercentage = g.rng.IntN(100)
		if status == types.AssignmentStatusRevision {
			a.RevisionCount = 1 + g.rng.IntN(3)
		}
	case types.AssignmentStatusCompleted:
		completed := g.base.Add(-time.Duration(g.rng.IntN(45*24)) * time.Hour)
		if completed.Before(created) {
			completed = created
		}
		started := completed.Add(-time.Duration(1+g.rng.IntN(5*24)) * time.Hour)
		a.StartedAt = &started
		a.CompletedAt = &completed
		a.ProgressPercentage = 100
		hours := float64(1 + g.rng.IntN(60))
		a.ActualHours = &hours
	}

	updated := created.Add(time.Duration(g.rng.IntN(48)) * time.Hour)
	a.UpdatedAt = updated

	return a
}

// Assignments returns n generated assignments
func (g *Generator) Assignments(n int) []*model.Assignment {
	out := make([]*model.Assignment, n)
	for i := range out {
		out[i] = g.Assignment()
	}
	return out
}
