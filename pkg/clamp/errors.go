package clamp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is returned before any mutation when the element
	// handed to Resolve or Clamp cannot be clamped.
	ErrInvalidTarget = errors.New("clamp: invalid target element")

	// ErrInvalidOption reports a malformed clamp, animate or similar value.
	ErrInvalidOption = errors.New("clamp: invalid option")

	// ErrMeasurementUnavailable wraps a Measurer failure. Runs treat it as
	// "already fits" and stop.
	ErrMeasurementUnavailable = errors.New("clamp: measurement unavailable")
)

// InvalidTargetError describes why an element was rejected.
type InvalidTargetError struct {
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTarget, e.Reason)
}

func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}
