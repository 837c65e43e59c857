package config

import (
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Seed holds the CLI flag for an assignment seed file
type Seed struct {
	path string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "YAML file of assignments to preload (memory backend only)",
			Category:    "Repository",
			Sources:     cli.EnvVars("TASKBOARD_SEED_FILE"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured seed file path
func (x *Seed) Path() string {
	return x.path
}

// Configure loads the seed file. No file configured yields no assignments.
func (x *Seed) Configure() ([]*model.Assignment, error) {
	if x.path == "" {
		return nil, nil
	}
	return LoadSeed(x.path)
}

// SeedEntry is one assignment in a seed file. Lifecycle timestamps left out
// are derived from created_at and updated_at.
type SeedEntry struct {
	ID             string     `yaml:"id"`
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	Type           string     `yaml:"type"`
	Priority       string     `yaml:"priority"`
	Status         string     `yaml:"status"`
	AssignedTo     string     `yaml:"assigned_to"`
	AssignedBy     string     `yaml:"assigned_by"`
	Deadline       time.Time  `yaml:"deadline"`
	EstimatedHours float64    `yaml:"estimated_hours"`
	ActualHours    *float64   `yaml:"actual_hours"`
	Progress       int        `yaml:"progress"`
	RevisionCount  int        `yaml:"revision_count"`
	CreatedAt      time.Time  `yaml:"created_at"`
	UpdatedAt      time.Time  `yaml:"updated_at"`
	StartedAt      *time.Time `yaml:"started_at"`
	CompletedAt    *time.Time `yaml:"completed_at"`
}

// LoadSeed reads and validates a YAML list of assignments
func LoadSeed(path string) ([]*model.Assignment, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "seed file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(ConfigPathKey, path))
	}

	assignments, err := ParseSeed(data, time.Now().UTC())
	if err != nil {
		return nil, goerr.Wrap(err, "invalid seed file", goerr.V(ConfigPathKey, path))
	}
	return assignments, nil
}

// ParseSeed decodes seed YAML. Entries without created_at are stamped with now.
func ParseSeed(data []byte, now time.Time) ([]*model.Assignment, error) {
	var entries []SeedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, "failed to parse YAML", goerr.V("error", err.Error()))
	}

	seen := make(map[string]struct{}, len(entries))
	assignments := make([]*model.Assignment, 0, len(entries))
	for i, e := range entries {
		a, err := e.toModel(now)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid seed entry", goerr.V(EntryIndexKey, i))
		}
		if _, dup := seen[e.ID]; dup {
			return nil, goerr.Wrap(ErrInvalidSeed, "duplicate assignment ID",
				goerr.V(EntryIndexKey, i), goerr.V(model.AssignmentIDKey, e.ID))
		}
		seen[e.ID] = struct{}{}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func (e *SeedEntry) toModel(now time.Time) (*model.Assignment, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return nil, goerr.Wrap(ErrInvalidSeed, "title is required", goerr.V(model.AssignmentIDKey, e.ID))
	}

	typ, err := types.ParseAssignmentType(string(types.AssignmentType(e.Type).Normalize()))
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, err.Error(), goerr.V(model.AssignmentIDKey, e.ID))
	}
	priority, err := types.ParsePriority(string(types.Priority(e.Priority).Normalize()))
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, err.Error(), goerr.V(model.AssignmentIDKey, e.ID))
	}

	status := types.AssignmentStatus(e.Status)
	if status == "" {
		status = types.AssignmentStatusUnassigned
		if e.AssignedTo != "" {
			status = types.AssignmentStatusAssigned
		}
	}

	created := e.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := e.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	a := &model.Assignment{
		ID:                 model.AssignmentID(e.ID),
		Title:              title,
		Description:        e.Description,
		Type:               typ,
		Priority:           priority,
		Status:             status,
		AssigneeID:         e.AssignedTo,
		AssignedBy:         e.AssignedBy,
		Deadline:           e.Deadline,
		EstimatedHours:     e.EstimatedHours,
		ActualHours:        e.ActualHours,
		ProgressPercentage: e.Progress,
		RevisionCount:      e.RevisionCount,
		StartedAt:          e.StartedAt,
		CompletedAt:        e.CompletedAt,
		CreatedAt:          created,
		UpdatedAt:          updated,
	}

	if a.AssigneeID != "" {
		a.AssignedAt = &created
	}
	switch status {
	case types.AssignmentStatusInProgress, types.AssignmentStatusReview,
		types.AssignmentStatusRevision, types.AssignmentStatusCompleted:
		if a.StartedAt == nil {
			a.StartedAt = &created
		}
	}
	if status == types.AssignmentStatusCompleted {
		if a.CompletedAt == nil {
			a.CompletedAt = &updated
		}
		a.ProgressPercentage = 100
	}
	if a.RevisionCount > 0 {
		a.LastRevisionAt = &updated
	}

	if err := a.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, err.Error(), goerr.V(model.AssignmentIDKey, e.ID))
	}
	return a, nil
}
