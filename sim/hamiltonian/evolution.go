package hamiltonian

import (
	"gonum.org/v1/gonum/cmplxs"

	"github.com/inference-sim/ahs-sim/sim/sparse"
	"github.com/inference-sim/ahs-sim/sim/trace"
)

// Evolution is the Schrödinger right-hand side in index time,
//
//	dψ/dτ = -i·dt·H(τ)·ψ
//
// where physical time is τ·dt. It satisfies ode.System.
//
// In assembled mode the most recent H_k is cached, since an integrator
// evaluates many sub-steps inside one index interval. An Evolution is
// therefore not safe for concurrent use; create one per goroutine over a
// shared Bundle.
type Evolution struct {
	bundle     *Bundle
	dt         float64
	matrixFree bool
	rec        trace.Recorder

	cachedIndex int
	cached      *sparse.Matrix
}

// NewEvolution wraps bundle for an integrator. With matrixFree set, each
// evaluation applies the operators directly instead of assembling H.
func NewEvolution(bundle *Bundle, dt float64, matrixFree bool, rec trace.Recorder) *Evolution {
	return &Evolution{bundle: bundle, dt: dt, matrixFree: matrixFree, rec: rec, cachedIndex: -1}
}

// Dim returns the state dimension.
func (e *Evolution) Dim() int { return e.bundle.Dim() }

// Derive writes -i·dt·H(t)·y into dst.
func (e *Evolution) Derive(t float64, y, dst []complex128) {
	idx := e.bundle.Index(t, e.rec)
	if e.matrixFree {
		e.bundle.ApplyIndexTo(dst, idx, y)
	} else {
		if e.cached == nil || idx != e.cachedIndex {
			e.cached = e.bundle.AtIndex(idx)
			e.cachedIndex = idx
		}
		e.cached.MulVec(dst, y)
	}
	cmplxs.Scale(complex(0, -e.dt), dst)
}
