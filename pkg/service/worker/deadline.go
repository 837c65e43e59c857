package worker

import (
	"context"
	"sync"
	"time"

	"github.com/pressline/taskboard/pkg/utils/logging"
)

// DeadlineNotifier scans assignments and sends the deadline notices that are due
type DeadlineNotifier interface {
	NotifyDeadlines(ctx context.Context) (int, error)
}

// DeadlineWorker periodically sends due_soon and overdue notices
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Notices are deduplicated per assignment in storage, so an extra run is harmless
type DeadlineWorker struct {
	notifier DeadlineNotifier
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewDeadlineWorker creates a new worker for deadline notices
func NewDeadlineWorker(notifier DeadlineNotifier, interval time.Duration) *DeadlineWorker {
	return &DeadlineWorker{
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background scan loop. It does not block. Starting a
// running or stopped worker does nothing.
func (w *DeadlineWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return nil
	}
	w.started = true

	logging.From(ctx).Info("Deadline worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion. It is safe to
// call more than once and before Start.
func (w *DeadlineWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		logging.Default().Info("Deadline worker stopping")
		w.stopped = true
		close(w.stopCh)
		if !w.started {
			close(w.doneCh)
		}
	}
	w.mu.Unlock()

	<-w.doneCh
	logging.Default().Info("Deadline worker stopped")
}

// Done is closed when the loop has exited
func (w *DeadlineWorker) Done() <-chan struct{} {
	return w.doneCh
}

func (w *DeadlineWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scan(ctx)

		case <-w.stopCh:
			logging.Default().Info("Deadline worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Deadline worker context cancelled")
			return
		}
	}
}

func (w *DeadlineWorker) scan(ctx context.Context) {
	startTime := time.Now()

	sent, err := w.notifier.NotifyDeadlines(ctx)
	if err != nil {
		// Log error but continue worker
		logging.From(ctx).Error("Deadline scan failed (will retry next interval)",
			"error", err.Error())
		return
	}

	logging.From(ctx).Debug("Deadline scan completed",
		"sent", sent,
		"duration", time.Since(startTime).String())
}
