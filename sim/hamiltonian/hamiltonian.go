// Package hamiltonian assembles or applies the time-dependent Rydberg
// Hamiltonian at a (possibly fractional) index into the simulation time grid.
//
// At index k the Hamiltonian is
//
//	H_k = V + sum_f [ Ω_f,k/2 R_f + conj(Ω_f,k)/2 R_f^H - Δ_f,k D_f ] - sum_l h_l,k L_l
//
// where V is the interaction operator, R_f the raising operator of driving
// field f, D_f its detuning operator and L_l the pattern-weighted local
// detuning operator of channel l.
package hamiltonian

import (
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/ahs-sim/sim/sparse"
	"github.com/inference-sim/ahs-sim/sim/trace"
)

// Bundle is the read-only context threaded through every evaluation:
// operators, their coefficient tables, and the interaction operator.
// Nothing in this package mutates a Bundle, so one may be shared across
// goroutines evaluating different time points.
type Bundle struct {
	RabiOps          []*sparse.Matrix
	DetuningOps      []*sparse.Matrix
	LocalDetuningOps []*sparse.Matrix

	RabiCoefs          [][]complex128 // [field][time index]
	DetuningCoefs      [][]complex128 // [field][time index]
	LocalDetuningCoefs [][]complex128 // [channel][time index]

	Interaction *sparse.Matrix
}

// Dim returns the basis dimension.
func (b *Bundle) Dim() int {
	n, _ := b.Interaction.Dims()
	return n
}

// HasChannels reports whether any driving field or local detuning exists.
// Without channels the Hamiltonian is the bare interaction operator.
func (b *Bundle) HasChannels() bool {
	return len(b.RabiCoefs) > 0 || len(b.LocalDetuningCoefs) > 0
}

// MaxIndex returns the last valid time index, or -1 when there are no
// channels.
func (b *Bundle) MaxIndex() int {
	switch {
	case len(b.RabiCoefs) > 0:
		return len(b.RabiCoefs[0]) - 1
	case len(b.LocalDetuningCoefs) > 0:
		return len(b.LocalDetuningCoefs[0]) - 1
	default:
		return -1
	}
}

// Index truncates indexTime toward zero and clamps it into [0, MaxIndex].
// The range check runs on the float, so values too large for an int (and
// +Inf) clamp high. NaN clamps low. Each clamp is logged as a warning and,
// when rec is non-nil, recorded. Without channels the index is irrelevant
// and 0 is returned.
func (b *Bundle) Index(indexTime float64, rec trace.Recorder) int {
	if !b.HasChannels() {
		return 0
	}
	maxIdx := b.MaxIndex()
	switch {
	case indexTime >= float64(maxIdx+1):
		logrus.Warnf("intermediate time value %v larger than maximum index %d; using final value as approximation",
			indexTime, maxIdx)
		if rec != nil {
			rec.RecordClamp(trace.ClampRecord{Requested: indexTime, Used: maxIdx, Max: maxIdx, Direction: trace.ClampHigh})
		}
		return maxIdx
	case indexTime <= -1, math.IsNaN(indexTime):
		if math.IsNaN(indexTime) {
			logrus.Warnf("intermediate time value is NaN; using initial value as approximation")
		} else {
			logrus.Warnf("intermediate time value %v smaller than 0; using initial value as approximation", indexTime)
		}
		if rec != nil {
			rec.RecordClamp(trace.ClampRecord{Requested: indexTime, Used: 0, Max: maxIdx, Direction: trace.ClampLow})
		}
		return 0
	}
	return int(indexTime)
}

// At returns the assembled Hamiltonian at indexTime.
func (b *Bundle) At(indexTime float64, rec trace.Recorder) *sparse.Matrix {
	return b.AtIndex(b.Index(indexTime, rec))
}

// AtIndex returns the assembled Hamiltonian at an already clamped index.
func (b *Bundle) AtIndex(idx int) *sparse.Matrix {
	if !b.HasChannels() {
		return b.Interaction
	}
	n := b.Dim()
	builder := sparse.NewBuilder(n, n)
	builder.AddMatrix(1, b.Interaction)
	for f, rabi := range b.RabiOps {
		omega := b.RabiCoefs[f][idx]
		builder.AddMatrix(omega/2, rabi)
		builder.AddMatrixH(cmplx.Conj(omega)/2, rabi)
		builder.AddMatrix(-b.DetuningCoefs[f][idx], b.DetuningOps[f])
	}
	for l, local := range b.LocalDetuningOps {
		builder.AddMatrix(-b.LocalDetuningCoefs[l][idx], local)
	}
	return builder.Build()
}

// Apply returns H(indexTime)·psi without assembling H.
func (b *Bundle) Apply(indexTime float64, psi []complex128, rec trace.Recorder) []complex128 {
	dst := make([]complex128, len(psi))
	b.ApplyIndexTo(dst, b.Index(indexTime, rec), psi)
	return dst
}

// ApplyIndexTo writes H_idx·psi into dst. dst and psi must not alias.
func (b *Bundle) ApplyIndexTo(dst []complex128, idx int, psi []complex128) {
	b.Interaction.MulVec(dst, psi)
	if !b.HasChannels() {
		return
	}
	for f, rabi := range b.RabiOps {
		omega := b.RabiCoefs[f][idx]
		rabi.AddMulVec(dst, omega/2, psi)
		rabi.AddMulVecH(dst, cmplx.Conj(omega)/2, psi)
		b.DetuningOps[f].AddMulVec(dst, -b.DetuningCoefs[f][idx], psi)
	}
	for l, local := range b.LocalDetuningOps {
		local.AddMulVec(dst, -b.LocalDetuningCoefs[l][idx], psi)
	}
}
