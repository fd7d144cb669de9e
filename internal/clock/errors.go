package clock

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is wrapped by every RangeError
	ErrOutOfRange = errors.New("value out of range")

	// ErrInconsistentState signals a bug in a state machine. It is raised with panic, never returned.
	ErrInconsistentState = errors.New("inconsistent state")
)

// RangeError reports a value rejected by validation.
// Max is -1 when the range has no upper bound.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func newRangeError(field string, value, min, max int) *RangeError {
	return &RangeError{Field: field, Value: value, Min: min, Max: max}
}

// Error implements the error interface
func (e *RangeError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("%s must be an integer >= %d, got %d", e.Field, e.Min, e.Value)
	}
	return fmt.Sprintf("%s must be an integer between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

// Unwrap lets errors.Is match ErrOutOfRange
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// IsRangeError reports whether err is (or wraps) a RangeError
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
}
