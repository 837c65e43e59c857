package idgen

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/domain/model"
)

// ULID generates lexically sortable assignment IDs. IDs issued by one
// generator are strictly increasing, including within the same millisecond.
type ULID struct {
	clock   interfaces.Clock
	mu      sync.Mutex
	entropy io.Reader
}

var _ interfaces.IDGenerator = &ULID{}

// NewULID returns a generator timestamped by clock
func NewULID(clock interfaces.Clock) *ULID {
	return &ULID{
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *ULID) NewID() model.AssignmentID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy)
	return model.AssignmentID(id.String())
}
