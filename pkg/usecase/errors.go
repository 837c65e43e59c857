package usecase

import (
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// Input errors
	ErrValidation      = errors.New("validation failed")
	ErrInvalidAssignee = errors.New("invalid assignee")

	// Not found errors
	ErrNotFound = errors.New("assignment not found")

	// Business rule errors
	ErrClosedAssignment  = errors.New("assignment is closed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Context keys for error values
const (
	AssignmentIDKey = "assignment_id"
	AssigneeIDKey   = "assignee_id"
	FieldKey        = "field"
	FromStatusKey   = "from"
	ToStatusKey     = "to"
)

// ErrorKind names the category of an error for API clients
type ErrorKind string

const (
	ErrorKindValidation        ErrorKind = "validation"
	ErrorKindNotFound          ErrorKind = "not_found"
	ErrorKindInvalidAssignee   ErrorKind = "invalid_assignee"
	ErrorKindClosedAssignment  ErrorKind = "closed_assignment"
	ErrorKindInvalidTransition ErrorKind = "invalid_transition"
	ErrorKindInternal          ErrorKind = "internal"
)

// KindOf classifies err by the sentinel it wraps
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return ErrorKindValidation
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	case errors.Is(err, ErrInvalidAssignee):
		return ErrorKindInvalidAssignee
	case errors.Is(err, ErrClosedAssignment):
		return ErrorKindClosedAssignment
	case errors.Is(err, ErrInvalidTransition):
		return ErrorKindInvalidTransition
	default:
		return ErrorKindInternal
	}
}

// FieldOf returns the offending field recorded on err, or the assignment ID
// when no field was recorded.
func FieldOf(err error) string {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return ""
	}

	values := ge.Values()
	if v, ok := values[FieldKey]; ok {
		return fmt.Sprint(v)
	}
	if v, ok := values[AssignmentIDKey]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func validationError(msg, field string, opts ...goerr.Option) error {
	opts = append(opts, goerr.V(FieldKey, field))
	return goerr.Wrap(ErrValidation, msg, opts...)
}
