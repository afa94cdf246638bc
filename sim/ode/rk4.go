package ode

import (
	"context"

	"gonum.org/v1/gonum/cmplxs"
)

// RK4 is the classical fixed-step fourth-order Runge-Kutta method. Each
// output interval is split into Substeps equal steps.
type RK4 struct {
	Substeps int // default 10 when <= 0
}

// Solve implements Solver.
func (r RK4) Solve(ctx context.Context, sys System, y0 []complex128, times []float64, observe Observer) ([]complex128, error) {
	if err := checkInputs(sys, y0, times); err != nil {
		return nil, err
	}
	substeps := r.Substeps
	if substeps <= 0 {
		substeps = 10
	}

	n := len(y0)
	y := append([]complex128(nil), y0...)
	k1 := make([]complex128, n)
	k2 := make([]complex128, n)
	k3 := make([]complex128, n)
	k4 := make([]complex128, n)
	tmp := make([]complex128, n)

	if observe != nil {
		observe(0, times[0], y)
	}
	for k := 1; k < len(times); k++ {
		t := times[k-1]
		h := (times[k] - times[k-1]) / float64(substeps)
		for s := 0; s < substeps && h > 0; s++ {
			if err := ctx.Err(); err != nil {
				return nil, &SimulationError{Time: t, Wrapped: err}
			}
			sys.Derive(t, y, k1)

			copy(tmp, y)
			cmplxs.AddScaled(tmp, complex(h/2, 0), k1)
			sys.Derive(t+h/2, tmp, k2)

			copy(tmp, y)
			cmplxs.AddScaled(tmp, complex(h/2, 0), k2)
			sys.Derive(t+h/2, tmp, k3)

			copy(tmp, y)
			cmplxs.AddScaled(tmp, complex(h, 0), k3)
			sys.Derive(t+h, tmp, k4)

			cmplxs.AddScaled(y, complex(h/6, 0), k1)
			cmplxs.AddScaled(y, complex(h/3, 0), k2)
			cmplxs.AddScaled(y, complex(h/3, 0), k3)
			cmplxs.AddScaled(y, complex(h/6, 0), k4)

			t += h
		}
		if observe != nil {
			observe(k, times[k], y)
		}
	}
	return y, nil
}
