package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidID is returned for ids that are not well-formed. It wraps
	// ErrNotFound, so callers that only care about existence can ignore it.
	ErrInvalidID = fmt.Errorf("invalid task id: %w", ErrNotFound)

	// ErrUnavailable wraps every failure of the underlying persistence.
	ErrUnavailable = errors.New("task store unavailable")
)

// ValidationError reports a missing or invalid task field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// passThrough returns err unchanged when it is already one of the store's
// own errors, and wraps anything else as unavailable.
func passThrough(op string, err error) error {
	var verr *ValidationError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) || errors.As(err, &verr) {
		return err
	}
	return unavailable(op, err)
}
