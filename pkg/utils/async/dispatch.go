package async

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/utils/errutil"
	"github.com/pressline/taskboard/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine with a context detached from the
// caller's cancellation. The caller's logger and Sentry hub are carried over.
// Errors and panics are reported through errutil.Handle under the given name.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		bgCtx = sentry.SetHubOnContext(bgCtx, hub.Clone())
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := goerr.New(fmt.Sprintf("panic: %v", r), goerr.V("task", name))
				_ = errutil.Handle(bgCtx, err, "panic in async handler")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async handler failed", goerr.V("task", name)), "async handler failed")
		}
	}()
}
