package interfaces

import (
	"time"

	"github.com/pressline/taskboard/pkg/domain/model"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique assignment identifiers
type IDGenerator interface {
	NewID() model.AssignmentID
}
