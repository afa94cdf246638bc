// Package operator builds the sparse operators of the Rydberg Hamiltonian in a
// configuration basis produced by sim/basis. Operators carry no time
// dependence; their coefficients are applied at evaluation time.
package operator

import (
	"math"

	"github.com/inference-sim/ahs-sim/sim/basis"
	"github.com/inference-sim/ahs-sim/sim/sparse"
)

// AllSites returns the target set {0, ..., n-1}.
func AllSites(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Interaction returns the diagonal van der Waals operator: for each
// configuration, the sum of c6/d^6 over every pair of Rydberg atoms.
// Configurations with fewer than two Rydberg atoms have no entry.
func Interaction(configs []string, sites []basis.Site, c6 float64) *sparse.Matrix {
	b := sparse.NewBuilder(len(configs), len(configs))
	for idx, c := range configs {
		excited := basis.RydbergSites(c)
		value := 0.0
		for a := 0; a < len(excited); a++ {
			for k := a + 1; k < len(excited); k++ {
				d := basis.Distance(sites[excited[a]], sites[excited[k]])
				value += c6 / math.Pow(d, 6)
			}
		}
		if value > 0 {
			b.Add(idx, idx, complex(value, 0))
		}
	}
	return b.Build()
}

// Detuning returns the diagonal number operator over targets: the count of
// target atoms in the Rydberg state.
func Detuning(configs []string, targets []int) *sparse.Matrix {
	b := sparse.NewBuilder(len(configs), len(configs))
	for idx, c := range configs {
		count := 0
		for _, t := range targets {
			if c[t] == basis.Rydberg {
				count++
			}
		}
		if count > 0 {
			b.Add(idx, idx, complex(float64(count), 0))
		}
	}
	return b.Build()
}

// LocalDetuning returns sum_k pattern[k] * n_k, where n_k is the number
// operator of filled site k. pattern is indexed in filled-site order.
func LocalDetuning(configs []string, pattern []float64) *sparse.Matrix {
	b := sparse.NewBuilder(len(configs), len(configs))
	for site, weight := range pattern {
		if weight == 0 {
			continue
		}
		b.AddMatrix(complex(weight, 0), Detuning(configs, []int{site}))
	}
	return b.Build()
}

// Rabi returns the raising part of the drive, sum over targets of |r><g| on
// that atom. Entry (index(c2), index(c1)) is 1 when c2 is c1 with one target
// atom lifted from g to r and c2 is itself a valid configuration. Since 'g'
// sorts before 'r', the row always exceeds the column: the operator is
// strictly lower triangular. The lowering part is its conjugate transpose.
func Rabi(configs []string, targets []int) *sparse.Matrix {
	index := basis.NewIndex(configs)
	b := sparse.NewBuilder(len(configs), len(configs))
	for col, c1 := range configs {
		for _, t := range targets {
			if c1[t] != basis.Ground {
				continue
			}
			if row, ok := index[basis.Flip(c1, t, basis.Rydberg)]; ok {
				b.Add(row, col, 1)
			}
		}
	}
	return b.Build()
}
