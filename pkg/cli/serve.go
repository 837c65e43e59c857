package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/cli/config"
	httpctrl "github.com/pressline/taskboard/pkg/controller/http"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/service/notify"
	"github.com/pressline/taskboard/pkg/service/worker"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"github.com/pressline/taskboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const defaultScanInterval = time.Minute

func cmdServe(version string) *cli.Command {
	var addr string
	var asyncNotify bool
	var noDeadlineWorker bool
	var repoCfg config.Repository
	var policyCfg config.Policy
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "async-notification",
			Usage:       "Send notifications in the background instead of inline with the change",
			Sources:     cli.EnvVars("TASKBOARD_ASYNC_NOTIFICATION"),
			Destination: &asyncNotify,
		},
		&cli.BoolFlag{
			Name:        "no-deadline-worker",
			Usage:       "Disable the periodic due_soon/overdue notice scan",
			Sources:     cli.EnvVars("TASKBOARD_NO_DEADLINE_WORKER"),
			Destination: &noDeadlineWorker,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			slackSink, slackDir, err := slackCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}
			if slackSink != nil {
				logging.Default().Info("Slack notifications enabled", "slack", slackCfg)
			} else {
				logging.Default().Info("Slack Bot Token not configured, notifications are logged only")
			}

			ucOpts, err := engineOptions(policy, slackSink, slackDir)
			if err != nil {
				return err
			}
			ucOpts = append(ucOpts, usecase.WithAsyncNotification(asyncNotify))
			uc := usecase.New(repo, ucOpts...)

			var deadlineWorker *worker.DeadlineWorker
			if !noDeadlineWorker {
				interval, err := policy.ScanIntervalOr(defaultScanInterval)
				if err != nil {
					return err
				}
				deadlineWorker = worker.NewDeadlineWorker(uc.Assignment, interval)
				if err := deadlineWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start deadline worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				if deadlineWorker != nil {
					deadlineWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the worker first so no notice is sent mid-shutdown
				if deadlineWorker != nil {
					deadlineWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// engineOptions turns loaded configuration into engine options. Notifications
// always reach the log sink; Slack is added when configured. A Slack directory
// takes precedence over the policy roster.
func engineOptions(policy *config.PolicyConfig, slackSink interfaces.NotificationSink, slackDir interfaces.AssigneeDirectory) ([]usecase.Option, error) {
	p, err := policy.ToPolicy()
	if err != nil {
		return nil, err
	}

	opts := []usecase.Option{
		usecase.WithPolicy(p),
		usecase.WithNotificationSink(notify.NewMulti(notify.Log{}, slackSink)),
	}

	if slackDir != nil {
		opts = append(opts, usecase.WithAssigneeDirectory(slackDir))
	} else if roster := policy.Directory(); roster != nil {
		opts = append(opts, usecase.WithAssigneeDirectory(roster))
	}

	return opts, nil
}
