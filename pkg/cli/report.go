package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/cli/config"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/repository/memory"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/clock"
	"github.com/pressline/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Load thresholds for report coloring, in percent
const (
	reportHighLoad     = 75
	reportModerateLoad = 50
)

func cmdReport() *cli.Command {
	var policyCfg config.Policy
	var seedCfg config.Seed
	var at string
	var noColor bool

	var flags []cli.Flag
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, seedCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "at",
			Usage:       "Compute the report as of this RFC3339 time (default: now)",
			Destination: &at,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Sources:     cli.EnvVars("NO_COLOR"),
			Destination: &noColor,
		},
	)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Print per-assignee workload for a seed file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if seedCfg.Path() == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "--seed-file is required")
			}

			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return goerr.Wrap(config.ErrInvalidConfig, "invalid --at time", goerr.V("at", at))
				}
				now = t
			}
			if noColor {
				color.NoColor = true
			}

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}
			p, err := policy.ToPolicy()
			if err != nil {
				return err
			}

			seed, err := seedCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load seed")
			}

			repo := memory.New(memory.WithSeed(seed...))
			defer safe.Close(ctx, "repository", repo)
			uc := usecase.New(repo,
				usecase.WithPolicy(p),
				usecase.WithClock(clock.NewManual(now)),
			)

			assignees := reportAssignees(seed, policy.Assignees)
			snapshots := make([]*model.WorkloadSnapshot, 0, len(assignees))
			for _, id := range assignees {
				snap, err := uc.Assignment.ComputeWorkload(ctx, id, now)
				if err != nil {
					return goerr.Wrap(err, "failed to compute workload", goerr.V("assignee_id", id))
				}
				snapshots = append(snapshots, snap)
			}

			unassigned := 0
			for _, a := range seed {
				if a.AssigneeID == "" && !a.IsTerminal() {
					unassigned++
				}
			}

			return writeReport(c.Root().Writer, now, snapshots, len(seed), unassigned)
		},
	}
}

// reportAssignees lists everyone holding an assignment plus the roster,
// sorted and without duplicates
func reportAssignees(seed []*model.Assignment, roster []config.Assignee) []string {
	var ids []string
	for _, a := range seed {
		if a.AssigneeID != "" {
			ids = append(ids, a.AssigneeID)
		}
	}
	for _, r := range roster {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func loadColor(percent int) *color.Color {
	switch {
	case percent >= reportHighLoad:
		return color.New(color.FgRed, color.Bold)
	case percent >= reportModerateLoad:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func writeReport(w io.Writer, now time.Time, snapshots []*model.WorkloadSnapshot, total, unassigned int) error {
	header := color.New(color.Bold)
	if _, err := header.Fprintf(w, "Workload as of %s\n", now.Format(time.RFC3339)); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}
	if _, err := fmt.Fprintf(w, "%-16s %6s %6s %8s %10s %9s\n",
		"ASSIGNEE", "LOAD", "ACTIVE", "OVERDUE", "DONE/MONTH", "AVG DAYS"); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}

	red := color.New(color.FgRed)
	for _, s := range snapshots {
		load := loadColor(s.TotalWorkloadPercent).Sprintf("%5d%%", s.TotalWorkloadPercent)
		overdue := fmt.Sprintf("%8d", s.OverdueCount)
		if s.OverdueCount > 0 {
			overdue = red.Sprint(overdue)
		}
		if _, err := fmt.Fprintf(w, "%-16s %s %6d %s %10d %9.1f\n",
			s.AssigneeID, load, s.ActiveCount, overdue, s.CompletedThisMonth, s.AverageCompletionDays); err != nil {
			return goerr.Wrap(err, "failed to write report")
		}
	}

	if _, err := fmt.Fprintf(w, "%d assignments, %d waiting for an assignee\n", total, unassigned); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}
	return nil
}
