package model

import (
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Policy holds the tunable constants of workload and suggestion scoring
type Policy struct {
	// PerTaskLoadPercent is the workload each active assignment adds; the
	// total is capped at 100.
	PerTaskLoadPercent int
	SkillWeight        float64
	AvailabilityWeight float64
	DefaultSkillMatch  float64
	HoursPerDay        float64
	DueSoonWindow      time.Duration
}

// ErrInvalidPolicy is returned by Policy.Validate
var ErrInvalidPolicy = goerr.New("invalid policy")

// DefaultPolicy returns the linear four-tasks-per-person load model
func DefaultPolicy() Policy {
	return Policy{
		PerTaskLoadPercent: 25,
		SkillWeight:        0.6,
		AvailabilityWeight: 0.4,
		DefaultSkillMatch:  0.5,
		HoursPerDay:        8,
		DueSoonWindow:      24 * time.Hour,
	}
}

// Validate checks that the policy yields scores in [0,1]
func (p Policy) Validate() error {
	if p.PerTaskLoadPercent <= 0 || p.PerTaskLoadPercent > 100 {
		return goerr.Wrap(ErrInvalidPolicy, "per-task load percent must be in (0,100]",
			goerr.V("per_task_load_percent", p.PerTaskLoadPercent))
	}
	if p.SkillWeight < 0 || p.AvailabilityWeight < 0 {
		return goerr.Wrap(ErrInvalidPolicy, "weights must not be negative",
			goerr.V("skill_weight", p.SkillWeight),
			goerr.V("availability_weight", p.AvailabilityWeight))
	}
	if math.Abs(p.SkillWeight+p.AvailabilityWeight-1) > 1e-9 {
		return goerr.Wrap(ErrInvalidPolicy, "weights must sum to 1",
			goerr.V("skill_weight", p.SkillWeight),
			goerr.V("availability_weight", p.AvailabilityWeight))
	}
	if p.DefaultSkillMatch < 0 || p.DefaultSkillMatch > 1 {
		return goerr.Wrap(ErrInvalidPolicy, "default skill match must be in [0,1]",
			goerr.V("default_skill_match", p.DefaultSkillMatch))
	}
	if p.HoursPerDay <= 0 || p.HoursPerDay > 24 {
		return goerr.Wrap(ErrInvalidPolicy, "hours per day must be in (0,24]",
			goerr.V("hours_per_day", p.HoursPerDay))
	}
	if p.DueSoonWindow < 0 {
		return goerr.Wrap(ErrInvalidPolicy, "due soon window must not be negative",
			goerr.V("due_soon_window", p.DueSoonWindow))
	}
	return nil
}
