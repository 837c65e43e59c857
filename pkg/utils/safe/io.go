package safe

import (
	"context"
	"io"

	"github.com/pressline/taskboard/pkg/utils/logging"
)

// Close closes a resource at the end of its owner's lifetime. Failures are
// logged with the resource name since no caller is left to handle them.
func Close(ctx context.Context, name string, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "resource", name, "error", err.Error())
	}
}

// Write writes a response body after the status line is already sent. A
// failed write usually means the client went away, so it is logged at warn.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if n, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write response",
			"written", n,
			"size", len(data),
			"error", err.Error())
	}
}
