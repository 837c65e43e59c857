package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"github.com/pressline/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("TASKBOARD_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("TASKBOARD_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for Firestore collection names",
				Sources:     cli.EnvVars("TASKBOARD_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(collectionPrefix)

			client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
				fireconf.WithLogger(logger))
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, "fireconf client", client)

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				current, err := client.Import(ctx, assignmentsCollection(collectionPrefix))
				if err != nil {
					return goerr.Wrap(err, "failed to import current indexes")
				}
				diff, err := client.DiffConfigs(current)
				if err != nil {
					return goerr.Wrap(err, "failed to diff index configuration")
				}

				steps := migrationSteps(diff)
				if len(steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"fields", step.Fields,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

type migrationStep struct {
	Collection  string
	Operation   string
	Fields      string
	Destructive bool
}

// migrationSteps flattens a fireconf diff into one step per index change
func migrationSteps(diff *fireconf.DiffResult) []migrationStep {
	var steps []migrationStep
	for _, col := range diff.Collections {
		for _, idx := range col.IndexesToAdd {
			steps = append(steps, migrationStep{
				Collection: col.Name,
				Operation:  "create index",
				Fields:     indexFields(idx),
			})
		}
		for _, idx := range col.IndexesToDelete {
			steps = append(steps, migrationStep{
				Collection:  col.Name,
				Operation:   "delete index",
				Fields:      indexFields(idx),
				Destructive: true,
			})
		}
		if col.TTLAction != "" {
			step := migrationStep{
				Collection:  col.Name,
				Operation:   "ttl " + strings.ToLower(string(col.TTLAction)),
				Destructive: col.TTLAction == fireconf.ActionDelete,
			}
			if col.TTL != nil {
				step.Fields = col.TTL.Field
			}
			steps = append(steps, step)
		}
	}
	return steps
}

func indexFields(idx fireconf.Index) string {
	parts := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		parts = append(parts, f.Path+" "+string(f.Order))
	}
	return strings.Join(parts, ", ")
}

// assignmentsCollection mirrors the naming used by the Firestore repository
func assignmentsCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_assignments"
	}
	return "assignments"
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: assignmentsCollection(prefix),
				Indexes: []fireconf.Index{
					// ListByAssignee: assignee_id ASC, deadline ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "assignee_id", Order: fireconf.OrderAscending},
							{Path: "deadline", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
