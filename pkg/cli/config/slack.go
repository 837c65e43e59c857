package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/service/slack"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notifications and the assignee directory
type Slack struct {
	botToken     string
	channelID    string
	baseURL      string
	directory    bool
	directoryTTL time.Duration
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (enables assignment notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Post notifications to this channel instead of direct messages",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL linked from notifications (e.g., https://taskboard.example.com)",
			Category:    "Slack",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("TASKBOARD_BASE_URL"),
		},
		&cli.BoolFlag{
			Name:        "slack-directory",
			Usage:       "Validate assignee IDs against the Slack workspace",
			Category:    "Slack",
			Destination: &x.directory,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_DIRECTORY"),
		},
		&cli.DurationFlag{
			Name:        "slack-directory-ttl",
			Usage:       "Cache lifetime of Slack user lookups",
			Value:       slack.DefaultDirectoryTTL,
			Category:    "Slack",
			Destination: &x.directoryTTL,
			Sources:     cli.EnvVars("TASKBOARD_SLACK_DIRECTORY_TTL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.String("base-url", x.baseURL),
		slog.Bool("directory", x.directory),
	)
}

// IsConfigured reports whether a bot token was given
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure builds the Slack notification sink and, when enabled, the
// assignee directory. Both are nil when no bot token is configured.
func (x *Slack) Configure(ctx context.Context, opts ...slack.Option) (interfaces.NotificationSink, interfaces.AssigneeDirectory, error) {
	if !x.IsConfigured() {
		if x.directory {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "--slack-directory requires --slack-bot-token")
		}
		return nil, nil, nil
	}

	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	var notifierOpts []slack.NotifierOption
	if x.channelID != "" {
		notifierOpts = append(notifierOpts, slack.WithChannel(x.channelID))
	}
	if x.baseURL != "" {
		notifierOpts = append(notifierOpts, slack.WithBaseURL(x.baseURL))
	}
	sink := slack.NewNotifier(svc, notifierOpts...)

	if !x.directory {
		return sink, nil, nil
	}

	dir := slack.NewDirectory(svc, slack.WithDirectoryTTL(x.directoryTTL))
	n, err := dir.Warm(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load Slack users")
	}
	logging.From(ctx).Info("Slack directory loaded", "users", n)

	return sink, dir, nil
}
