package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
)

const (
	strongSkillThreshold = 0.8
	lowSkillThreshold    = 0.5
	capacityThreshold    = 0.75
	highLoadThreshold    = 0.75
)

// SuggestCandidates ranks the candidate pool for the assignment. The
// assignment itself does not count toward any candidate's current load.
func (uc *AssignmentUseCase) SuggestCandidates(ctx context.Context, id model.AssignmentID, candidates []model.Candidate) ([]*model.Suggestion, error) {
	target, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.IsTerminal() {
		return nil, closedError(target, "cannot suggest assignees for a closed assignment")
	}

	now := uc.clock.Now()
	suggestions := []*model.Suggestion{}
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c.AssigneeID == "" || seen[c.AssigneeID] {
			continue
		}
		seen[c.AssigneeID] = true

		assignments, err := uc.repo.Assignment().ListByAssignee(ctx, c.AssigneeID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list assignments for candidate",
				goerr.V(AssignmentIDKey, id), goerr.V(AssigneeIDKey, c.AssigneeID))
		}

		workload := buildWorkload(c.AssigneeID, assignments, now, uc.policy.PerTaskLoadPercent, target.ID)
		suggestions = append(suggestions, uc.score(target, c, workload, now))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.AvailabilityScore != b.AvailabilityScore {
			return a.AvailabilityScore > b.AvailabilityScore
		}
		return a.AssigneeID < b.AssigneeID
	})

	return suggestions, nil
}

func (uc *AssignmentUseCase) score(target *model.Assignment, c model.Candidate, workload *model.WorkloadSnapshot, now time.Time) *model.Suggestion {
	p := uc.policy

	skill := p.DefaultSkillMatch
	if c.SkillMatch != nil && !math.IsNaN(*c.SkillMatch) {
		skill = clamp01(*c.SkillMatch)
	}

	load := workload.LoadFraction()
	availability := 1 - min(load, 1)
	impact := float64(p.PerTaskLoadPercent) / 100

	days := target.EstimatedHours / p.HoursPerDay * (1 + load)
	estimated := now.Add(time.Duration(days * 24 * float64(time.Hour)))

	s := &model.Suggestion{
		AssigneeID:          c.AssigneeID,
		Confidence:          p.SkillWeight*skill + p.AvailabilityWeight*availability,
		Reasons:             []string{},
		Concerns:            []string{},
		EstimatedCompletion: estimated,
		WorkloadImpact:      impact,
		SkillMatch:          skill,
		AvailabilityScore:   availability,
	}

	if skill >= strongSkillThreshold {
		s.Reasons = append(s.Reasons, "strong skill match")
	}
	if availability >= capacityThreshold {
		s.Reasons = append(s.Reasons, "has capacity")
	}
	if workload.OverdueCount == 0 {
		s.Reasons = append(s.Reasons, "no overdue assignments")
	}

	if skill < lowSkillThreshold {
		s.Concerns = append(s.Concerns, "low skill match")
	}
	if load >= highLoadThreshold {
		s.Concerns = append(s.Concerns, "high current workload")
	}
	if load+impact > 1 {
		s.Concerns = append(s.Concerns, "would exceed capacity")
	}
	if workload.OverdueCount > 0 {
		s.Concerns = append(s.Concerns, fmt.Sprintf("%d overdue assignments", workload.OverdueCount))
	}
	if estimated.After(target.Deadline) {
		s.Concerns = append(s.Concerns, "likely to miss deadline")
	}

	return s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
