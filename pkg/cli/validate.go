package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/cli/config"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"github.com/pressline/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// ErrStoreInconsistent is returned when the store holds records that break
// assignment invariants
var ErrStoreInconsistent = goerr.New("store consistency check failed")

func cmdValidate() *cli.Command {
	var policyCfg config.Policy
	var repoCfg config.Repository
	var checkDB bool

	var flags []cli.Flag
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-db",
		Usage:       "Also check every stored assignment against its invariants",
		Sources:     cli.EnvVars("TASKBOARD_CHECK_DB"),
		Destination: &checkDB,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate policy and seed files and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate configuration files
			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}
			p, err := policy.ToPolicy()
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}
			logger.Info("Policy validation passed",
				"path", policyCfg.Path(),
				"per_task_load_percent", p.PerTaskLoadPercent,
				"skill_weight", p.SkillWeight,
				"availability_weight", p.AvailabilityWeight,
				"due_soon_window", p.DueSoonWindow.String(),
				"assignee_count", len(policy.Assignees),
			)

			seed, err := repoCfg.Seed().Configure()
			if err != nil {
				return goerr.Wrap(err, "seed validation failed")
			}
			if repoCfg.Seed().Path() != "" {
				logger.Info("Seed validation passed",
					"path", repoCfg.Seed().Path(),
					"assignment_count", len(seed),
				)
			}

			// Step 2: If requested, run DB consistency check
			if !checkDB {
				logger.Info("DB consistency check not requested, skipping")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			uc := usecase.New(repo, usecase.WithPolicy(p))
			result, err := uc.ValidateStore(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"assignment_id", issue.AssignmentID,
						"field", issue.Field,
						"message", issue.Message,
					)
				}

				return goerr.Wrap(ErrStoreInconsistent, "DB consistency check found issues",
					goerr.V("checked", result.Checked),
					goerr.V("issues", len(result.Issues)))
			}

			logger.Info("DB consistency check passed", "checked", result.Checked)
			return nil
		},
	}
}
