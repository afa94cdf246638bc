package ode

import (
	"context"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// Dormand-Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// dpE is the difference between the 5th and embedded 4th order weights.
	dpE = [7]float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920, -17253.0 / 339200, 22.0 / 525, -1.0 / 40}
)

// DormandPrince is an adaptive explicit Runge-Kutta 5(4) integrator with
// first-same-as-last stage reuse. Steps are shortened to land exactly on
// every output time.
type DormandPrince struct {
	Atol     float64 // absolute tolerance, default 1e-8
	Rtol     float64 // relative tolerance, default 1e-6
	MinStep  float64 // default 1e-12
	MaxStep  float64 // 0 means unbounded
	MaxSteps int     // total accepted+rejected steps, default 100000
}

func (d DormandPrince) withDefaults() DormandPrince {
	if d.Atol <= 0 {
		d.Atol = 1e-8
	}
	if d.Rtol <= 0 {
		d.Rtol = 1e-6
	}
	if d.MinStep <= 0 {
		d.MinStep = 1e-12
	}
	if d.MaxSteps <= 0 {
		d.MaxSteps = 100000
	}
	return d
}

// Solve implements Solver.
func (d DormandPrince) Solve(ctx context.Context, sys System, y0 []complex128, times []float64, observe Observer) ([]complex128, error) {
	if err := checkInputs(sys, y0, times); err != nil {
		return nil, err
	}
	d = d.withDefaults()

	n := len(y0)
	y := append([]complex128(nil), y0...)
	yNew := make([]complex128, n)
	tmp := make([]complex128, n)
	var k [7][]complex128
	for s := range k {
		k[s] = make([]complex128, n)
	}

	if observe != nil {
		observe(0, times[0], y)
	}

	t := times[0]
	h := 0.0
	fsal := false
	steps := 0
	for out := 1; out < len(times); out++ {
		tEnd := times[out]
		if h == 0 {
			h = tEnd - t
		}
		for t < tEnd {
			if err := ctx.Err(); err != nil {
				return nil, &SimulationError{Time: t, Wrapped: err}
			}
			if steps >= d.MaxSteps {
				return nil, &SimulationError{Time: t, Wrapped: ErrTooManySteps}
			}
			steps++

			if d.MaxStep > 0 && h > d.MaxStep {
				h = d.MaxStep
			}
			proposed := h
			landing := false
			if t+h >= tEnd {
				h = tEnd - t
				landing = true
			}

			if !fsal {
				sys.Derive(t, y, k[0])
			}
			for s := 1; s < 7; s++ {
				copy(tmp, y)
				for j := 0; j < s; j++ {
					if a := dpA[s][j]; a != 0 {
						cmplxs.AddScaled(tmp, complex(h*a, 0), k[j])
					}
				}
				if s == 6 {
					copy(yNew, tmp)
				}
				sys.Derive(t+dpC[s]*h, tmp, k[s])
			}

			errNorm := d.errorNorm(y, yNew, k, h)
			accepted := errNorm <= 1
			if accepted {
				if landing {
					t = tEnd
				} else {
					t += h
				}
				y, yNew = yNew, y
				// The last stage was evaluated at (t+h, yNew): reuse it.
				k[0], k[6] = k[6], k[0]
				fsal = true
			}

			factor := 5.0
			if errNorm > 0 {
				factor = math.Min(5, math.Max(0.2, 0.9*math.Pow(errNorm, -0.2)))
			}
			if !accepted {
				factor = math.Min(factor, 1)
			}
			h *= factor
			if accepted && landing {
				// Landing on an output time is not a reason to shrink.
				h = math.Max(h, proposed)
			}
			if h < d.MinStep && t < tEnd {
				return nil, &SimulationError{Time: t, Wrapped: ErrStepTooSmall}
			}
		}
		if observe != nil {
			observe(out, tEnd, y)
		}
	}
	return y, nil
}

// errorNorm is the RMS of the embedded error estimate scaled by
// atol + rtol*max(|y|, |yNew|).
func (d DormandPrince) errorNorm(y, yNew []complex128, k [7][]complex128, h float64) float64 {
	sum := 0.0
	for i := range y {
		var e complex128
		for s := 0; s < 7; s++ {
			if dpE[s] != 0 {
				e += complex(dpE[s], 0) * k[s][i]
			}
		}
		e *= complex(h, 0)
		scale := d.Atol + d.Rtol*math.Max(cmplx.Abs(y[i]), cmplx.Abs(yNew[i]))
		r := cmplx.Abs(e) / scale
		sum += r * r
	}
	if len(y) == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(len(y)))
}
