package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Policy holds the CLI flag for the scoring policy file
type Policy struct {
	path string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "Path to policy TOML file (defaults apply when omitted)",
			Category:    "Policy",
			Sources:     cli.EnvVars("TASKBOARD_POLICY"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured policy file path
func (x *Policy) Path() string {
	return x.path
}

// Configure loads the policy file. Without a file the default policy is used
// and the roster is nil.
func (x *Policy) Configure() (*PolicyConfig, error) {
	if x.path == "" {
		return &PolicyConfig{}, nil
	}
	return LoadPolicy(x.path)
}

// PolicyConfig is the TOML layout of a policy file
type PolicyConfig struct {
	Workload   WorkloadConfig   `toml:"workload"`
	Suggestion SuggestionConfig `toml:"suggestion"`
	Deadline   DeadlineConfig   `toml:"deadline"`
	Assignees  []Assignee       `toml:"assignee"`
}

type WorkloadConfig struct {
	PerTaskLoadPercent *int `toml:"per_task_load_percent"`
}

type SuggestionConfig struct {
	SkillWeight        *float64 `toml:"skill_weight"`
	AvailabilityWeight *float64 `toml:"availability_weight"`
	DefaultSkillMatch  *float64 `toml:"default_skill_match"`
	HoursPerDay        *float64 `toml:"hours_per_day"`
}

type DeadlineConfig struct {
	// DueSoonWindow uses time.ParseDuration syntax, e.g. "24h"
	DueSoonWindow string `toml:"due_soon_window"`
	// ScanInterval is how often the deadline worker runs
	ScanInterval string `toml:"scan_interval"`
}

// Assignee is one roster entry
type Assignee struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks that the file yields a valid policy and a roster without
// duplicates
func (c *PolicyConfig) Validate() error {
	p, err := c.ToPolicy()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := c.ScanIntervalOr(time.Minute); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Assignees))
	for i, a := range c.Assignees {
		if a.ID == "" {
			return goerr.Wrap(ErrInvalidConfig, "assignee id is required", goerr.V(EntryIndexKey, i))
		}
		if seen[a.ID] {
			return goerr.Wrap(ErrDuplicateAssignee, "assignee listed twice", goerr.V(AssigneeIDKey, a.ID))
		}
		seen[a.ID] = true
	}
	return nil
}

// ToPolicy overlays the configured values on the default policy
func (c *PolicyConfig) ToPolicy() (model.Policy, error) {
	p := model.DefaultPolicy()
	if v := c.Workload.PerTaskLoadPercent; v != nil {
		p.PerTaskLoadPercent = *v
	}
	if v := c.Suggestion.SkillWeight; v != nil {
		p.SkillWeight = *v
	}
	if v := c.Suggestion.AvailabilityWeight; v != nil {
		p.AvailabilityWeight = *v
	}
	if v := c.Suggestion.DefaultSkillMatch; v != nil {
		p.DefaultSkillMatch = *v
	}
	if v := c.Suggestion.HoursPerDay; v != nil {
		p.HoursPerDay = *v
	}
	if c.Deadline.DueSoonWindow != "" {
		d, err := time.ParseDuration(c.Deadline.DueSoonWindow)
		if err != nil {
			return model.Policy{}, goerr.Wrap(ErrInvalidConfig, "invalid due_soon_window",
				goerr.V("due_soon_window", c.Deadline.DueSoonWindow))
		}
		p.DueSoonWindow = d
	}
	return p, nil
}

// ScanIntervalOr returns the configured deadline scan interval or def
func (c *PolicyConfig) ScanIntervalOr(def time.Duration) (time.Duration, error) {
	if c.Deadline.ScanInterval == "" {
		return def, nil
	}
	d, err := time.ParseDuration(c.Deadline.ScanInterval)
	if err != nil || d <= 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "scan_interval must be a positive duration",
			goerr.V("scan_interval", c.Deadline.ScanInterval))
	}
	return d, nil
}

// Directory returns the roster as an assignee directory, or nil when the
// file lists no assignees
func (c *PolicyConfig) Directory() *notify.StaticDirectory {
	if len(c.Assignees) == 0 {
		return nil
	}
	ids := make([]string, len(c.Assignees))
	for i, a := range c.Assignees {
		ids[i] = a.ID
	}
	return notify.NewStaticDirectory(ids...)
}

// LoadPolicy loads and validates a policy TOML file
func LoadPolicy(path string) (*PolicyConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, path))
	}

	var cfg PolicyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML policy",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}
