package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrCapacityExceeded indicates an append or init beyond the particle capacity.
	// Recoverable: the simulation continues unaffected.
	ErrCapacityExceeded = errors.New("dynamo: particle capacity exceeded")

	// ErrInvalidMass indicates a non-positive or non-finite particle mass.
	ErrInvalidMass = errors.New("dynamo: particle mass must be positive")

	// ErrInvalidState indicates a position or velocity that is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates a spatial dimension other than 2.
	ErrDimensionMismatch = errors.New("dynamo: only 2D simulation is supported")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
