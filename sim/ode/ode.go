// Package ode provides time-stepping integrators for complex-valued linear
// systems of the form dy/dt = f(t, y). The integrators only ever call
// System.Derive; they know nothing about Hamiltonians.
package ode

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStepTooSmall indicates the adaptive step fell below MinStep.
	ErrStepTooSmall = errors.New("ode: adaptive step below minimum")

	// ErrTooManySteps indicates MaxSteps was exhausted before reaching the end.
	ErrTooManySteps = errors.New("ode: maximum number of steps exceeded")

	// ErrDimensionMismatch indicates an initial state whose length differs from
	// the system dimension.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch between state and system")

	// ErrBadTimes indicates an empty or decreasing output time grid.
	ErrBadTimes = errors.New("ode: output times must be non-empty and non-decreasing")
)

// System is the right-hand side f(t, y). Derive writes f(t, y) into dst and
// must not retain y or dst.
type System interface {
	Derive(t float64, y, dst []complex128)
	Dim() int
}

// Observer is called with the state at every requested output time,
// including the first. y is only valid for the duration of the call.
type Observer func(k int, t float64, y []complex128)

// Solver integrates a System from times[0] through each output time in turn
// and returns the state at the last one.
type Solver interface {
	Solve(ctx context.Context, sys System, y0 []complex128, times []float64, observe Observer) ([]complex128, error)
}

// checkInputs validates the shared preconditions of every solver.
func checkInputs(sys System, y0 []complex128, times []float64) error {
	if len(y0) != sys.Dim() {
		return fmt.Errorf("%w: len(y0)=%d, dim=%d", ErrDimensionMismatch, len(y0), sys.Dim())
	}
	if len(times) == 0 {
		return ErrBadTimes
	}
	for k := 1; k < len(times); k++ {
		if times[k] < times[k-1] {
			return fmt.Errorf("%w: times[%d]=%v < times[%d]=%v", ErrBadTimes, k, times[k], k-1, times[k-1])
		}
	}
	return nil
}

// SimulationError wraps a solver failure with the time it occurred at.
type SimulationError struct {
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("at t=%v: %v", e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
