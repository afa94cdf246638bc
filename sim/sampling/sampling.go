// Package sampling draws measurement outcomes from a final state vector.
package sampling

import (
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Probabilities returns |ψ_i|^2 renormalised to sum to one, absorbing the
// small drift from unitarity an integrator leaves behind. An all-zero state
// has no distribution and yields NaNs.
func Probabilities(state []complex128) []float64 {
	probs := make([]float64, len(state))
	for i, amp := range state {
		a := cmplx.Abs(amp)
		probs[i] = a * a
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// Sample draws shots outcomes from the multinomial distribution defined by
// the state and returns per-basis-index counts summing to shots.
func Sample(state []complex128, shots int, src rand.Source) []int {
	counts := make([]int, len(state))
	if shots <= 0 {
		return counts
	}
	dist := distuv.NewCategorical(Probabilities(state), src)
	for s := 0; s < shots; s++ {
		counts[int(dist.Rand())]++
	}
	return counts
}
