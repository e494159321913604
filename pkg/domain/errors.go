package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a TraceConfig fails validation.
// No result is produced.
var ErrInvalidConfiguration = errors.New("invalid trace configuration")

// ErrModelEvaluation is returned when a field evaluator fails or yields a non-finite vector.
var ErrModelEvaluation = errors.New("field model evaluation failed")

// ErrDegenerateField is returned when the combined field is too weak to define a direction.
var ErrDegenerateField = errors.New("degenerate field")

// ErrStepConvergence is returned when the stepper cannot meet the error tolerance
// within its bounded number of step halvings.
var ErrStepConvergence = errors.New("step size control did not converge")

// ErrTraceNotFound is returned when a trace record ID cannot be found in the store.
var ErrTraceNotFound = errors.New("trace not found")

// ErrUnknownModel is returned when a field model name is not registered.
var ErrUnknownModel = errors.New("unknown field model")

// TraceError carries the position at which a trace terminated fatally.
type TraceError struct {
	Reason   Reason
	Step     int
	Position Vec3
	Err      error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("trace terminated at step %d (%.6g, %.6g, %.6g): %v",
		e.Step, e.Position.X, e.Position.Y, e.Position.Z, e.Err)
}

func (e *TraceError) Unwrap() error {
	return e.Err
}

// ReasonFor maps a fatal error to its termination reason.
func ReasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrDegenerateField):
		return ReasonDegenerateField
	case errors.Is(err, ErrStepConvergence):
		return ReasonStepConvergence
	default:
		return ReasonModelFailure
	}
}
