package usecase

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced lead or site does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidStateError indicates an operation was invoked out of order, e.g.
// delivery before completion.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// SchedulingError indicates the deferred completion task could not be armed.
// The status mutation has already been committed when this is returned.
type SchedulingError struct {
	Err error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("failed to schedule completion task: %v", e.Err)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

func IsSchedulingFailure(err error) bool {
	var se *SchedulingError
	return errors.As(err, &se)
}
