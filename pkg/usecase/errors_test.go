package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressline/taskboard/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrValidation", usecase.ErrValidation},
		{"ErrInvalidAssignee", usecase.ErrInvalidAssignee},
		{"ErrNotFound", usecase.ErrNotFound},
		{"ErrClosedAssignment", usecase.ErrClosedAssignment},
		{"ErrInvalidTransition", usecase.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrValidation, usecase.ErrNotFound)).False()
	gt.Bool(t, errors.Is(usecase.ErrClosedAssignment, usecase.ErrInvalidTransition)).False()
	gt.Bool(t, errors.Is(usecase.ErrInvalidAssignee, usecase.ErrValidation)).False()
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want usecase.ErrorKind
	}{
		{"validation", goerr.Wrap(usecase.ErrValidation, "bad"), usecase.ErrorKindValidation},
		{"not found", goerr.Wrap(usecase.ErrNotFound, "missing"), usecase.ErrorKindNotFound},
		{"invalid assignee", goerr.Wrap(usecase.ErrInvalidAssignee, "who"), usecase.ErrorKindInvalidAssignee},
		{"closed", goerr.Wrap(usecase.ErrClosedAssignment, "done"), usecase.ErrorKindClosedAssignment},
		{"transition", goerr.Wrap(usecase.ErrInvalidTransition, "nope"), usecase.ErrorKindInvalidTransition},
		{"wrapped twice", goerr.Wrap(goerr.Wrap(usecase.ErrNotFound, "inner"), "outer"), usecase.ErrorKindNotFound},
		{"unknown", errors.New("disk on fire"), usecase.ErrorKindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, usecase.KindOf(tt.err), tt.want)
		})
	}
}

func TestFieldOf(t *testing.T) {
	t.Run("field wins over id", func(t *testing.T) {
		err := goerr.Wrap(usecase.ErrValidation, "bad",
			goerr.V(usecase.FieldKey, "title"),
			goerr.V(usecase.AssignmentIDKey, "a1"))
		gt.Equal(t, usecase.FieldOf(err), "title")
	})

	t.Run("falls back to assignment id", func(t *testing.T) {
		err := goerr.Wrap(usecase.ErrNotFound, "missing", goerr.V(usecase.AssignmentIDKey, "a1"))
		gt.Equal(t, usecase.FieldOf(err), "a1")
	})

	t.Run("plain error has no field", func(t *testing.T) {
		gt.Equal(t, usecase.FieldOf(errors.New("x")), "")
	})
}
