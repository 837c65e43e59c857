// Package notify holds NotificationSink and AssigneeDirectory
// implementations that need no external service.
package notify

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
	"github.com/pressline/taskboard/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Log writes every event to the context logger
type Log struct{}

var _ interfaces.NotificationSink = Log{}

func (Log) SendAssignmentEvent(ctx context.Context, event *model.AssignmentEvent) error {
	logging.From(ctx).Info("assignment notification",
		"event_id", event.ID,
		"kind", event.Kind,
		"assignee_id", event.AssigneeID,
		"assignment_id", event.AssignmentID,
		"status", event.Status,
		"deadline", event.Deadline,
	)
	return nil
}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []*model.AssignmentEvent
	err    error
}

var _ interfaces.NotificationSink = &Recorder{}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes later sends record the event and then return err
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) SendAssignmentEvent(_ context.Context, event *model.AssignmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *event
	r.events = append(r.events, &copied)
	return r.err
}

// Events returns a snapshot of the recorded events in send order
func (r *Recorder) Events() []*model.AssignmentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.AssignmentEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans an event out to several sinks concurrently. Every sink is tried;
// the first error is returned.
type Multi struct {
	sinks []interfaces.NotificationSink
}

var _ interfaces.NotificationSink = &Multi{}

// NewMulti drops nil sinks
func NewMulti(sinks ...interfaces.NotificationSink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *Multi) SendAssignmentEvent(ctx context.Context, event *model.AssignmentEvent) error {
	var eg errgroup.Group
	for _, sink := range m.sinks {
		eg.Go(func() error {
			if err := sink.SendAssignmentEvent(ctx, event); err != nil {
				return goerr.Wrap(err, "sink failed", goerr.V("event_id", event.ID))
			}
			return nil
		})
	}
	return eg.Wait()
}

// StaticDirectory accepts a fixed set of assignee IDs
type StaticDirectory struct {
	ids map[string]struct{}
}

var _ interfaces.AssigneeDirectory = &StaticDirectory{}

func NewStaticDirectory(ids ...string) *StaticDirectory {
	d := &StaticDirectory{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
	return d
}

func (d *StaticDirectory) Exists(_ context.Context, assigneeID string) (bool, error) {
	_, ok := d.ids[assigneeID]
	return ok, nil
}

// Len returns the number of known assignees
func (d *StaticDirectory) Len() int {
	return len(d.ids)
}
