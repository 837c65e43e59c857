package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/utils/logging"
)

type slackCredential struct {
	Channel string
	Token   string `masq:"secret"`
}

func TestNew_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	logger.Info("configured", "slack", slackCredential{Channel: "C123", Token: "hidden-value"})

	gt.S(t, buf.String()).Contains("C123")
	gt.S(t, buf.String()).NotContains("hidden-value")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("hello")
	gt.S(t, buf.String()).Contains("hello")

	gt.V(t, logging.From(context.Background())).Equal(logging.Default())
}
