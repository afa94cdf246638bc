package ode

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phaseSystem is dy/dt = -i*omega*y, with solution y0*exp(-i*omega*t).
type phaseSystem struct {
	omega float64
	calls int
}

func (p *phaseSystem) Dim() int { return 1 }

func (p *phaseSystem) Derive(t float64, y, dst []complex128) {
	p.calls++
	dst[0] = complex(0, -p.omega) * y[0]
}

// rabiSystem is a driven two-level system dy/dt = -i*(Ω/2)σx*y.
type rabiSystem struct{ omega float64 }

func (r rabiSystem) Dim() int { return 2 }

func (r rabiSystem) Derive(t float64, y, dst []complex128) {
	c := complex(0, -r.omega/2)
	dst[0] = c * y[1]
	dst[1] = c * y[0]
}

func solvers() map[string]Solver {
	return map[string]Solver{
		"rk4":    RK4{Substeps: 20},
		"dopri5": DormandPrince{Atol: 1e-10, Rtol: 1e-10},
	}
}

func TestSolvers_PhaseRotation(t *testing.T) {
	times := []float64{0, 0.5, 1, 1.5, 2}
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			// GIVEN dy/dt = -i*3*y from y0 = 1
			sys := &phaseSystem{omega: 3}

			// WHEN integrated to t=2
			y, err := solver.Solve(context.Background(), sys, []complex128{1}, times, nil)
			require.NoError(t, err)

			// THEN y matches exp(-6i)
			want := cmplx.Exp(complex(0, -6))
			assert.InDelta(t, real(want), real(y[0]), 1e-5)
			assert.InDelta(t, imag(want), imag(y[0]), 1e-5)
		})
	}
}

func TestSolvers_RabiOscillation(t *testing.T) {
	omega := 2.0
	tEnd := math.Pi / omega // half-way: population fully transferred
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			y, err := solver.Solve(context.Background(), rabiSystem{omega: omega}, []complex128{1, 0}, []float64{0, tEnd / 2, tEnd}, nil)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(y[0]), 1e-5)
			assert.InDelta(t, 1, cmplx.Abs(y[1]), 1e-5)
		})
	}
}

func TestSolvers_ObserverSeesEveryOutputTime(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			var seen []float64
			_, err := solver.Solve(context.Background(), &phaseSystem{omega: 1}, []complex128{1}, times,
				func(k int, tk float64, y []complex128) {
					assert.Equal(t, len(seen), k)
					seen = append(seen, tk)
				})
			require.NoError(t, err)
			assert.Equal(t, times, seen)
		})
	}
}

func TestSolvers_DoNotMutateInitialState(t *testing.T) {
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			y0 := []complex128{1}
			_, err := solver.Solve(context.Background(), &phaseSystem{omega: 1}, y0, []float64{0, 1}, nil)
			require.NoError(t, err)
			assert.Equal(t, []complex128{1}, y0)
		})
	}
}

func TestSolvers_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			_, err := solver.Solve(ctx, &phaseSystem{omega: 1}, []complex128{1}, []float64{0, 1}, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.Canceled))
			var simErr *SimulationError
			assert.True(t, errors.As(err, &simErr))
		})
	}
}

func TestSolvers_InputValidation(t *testing.T) {
	for name, solver := range solvers() {
		t.Run(name, func(t *testing.T) {
			_, err := solver.Solve(context.Background(), &phaseSystem{}, []complex128{1, 2}, []float64{0, 1}, nil)
			assert.ErrorIs(t, err, ErrDimensionMismatch)

			_, err = solver.Solve(context.Background(), &phaseSystem{}, []complex128{1}, nil, nil)
			assert.ErrorIs(t, err, ErrBadTimes)

			_, err = solver.Solve(context.Background(), &phaseSystem{}, []complex128{1}, []float64{1, 0}, nil)
			assert.ErrorIs(t, err, ErrBadTimes)
		})
	}
}

func TestDormandPrince_MaxSteps(t *testing.T) {
	solver := DormandPrince{Atol: 1e-14, Rtol: 1e-14, MaxSteps: 3}
	_, err := solver.Solve(context.Background(), &phaseSystem{omega: 50}, []complex128{1}, []float64{0, 10}, nil)
	assert.ErrorIs(t, err, ErrTooManySteps)
}
