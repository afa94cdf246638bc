// Package basis enumerates the configuration basis of a Rydberg atom array
// under the blockade approximation.
//
// A configuration is a string with one character per filled site, 'g' for an
// atom in the ground state and 'r' for an atom in the Rydberg state. The
// leftmost character belongs to the first filled site. Configurations are
// produced in lexicographic order, and their position in the returned slice is
// the basis index used by every operator built on top of them.
package basis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Ground labels an atom in the ground state.
	Ground = 'g'
	// Rydberg labels an atom in the Rydberg state.
	Rydberg = 'r'
)

// MaxSites is the largest number of filled sites Enumerate accepts.
// Enumeration materialises all 2^N candidate strings before filtering, so
// the cap keeps that list (about 2^20 strings) well inside memory.
const MaxSites = 20

// Site is a 2-D lattice coordinate.
type Site [2]float64

// Distance returns the Euclidean separation of two sites.
func Distance(a, b Site) float64 {
	return floats.Distance(a[:], b[:], 2)
}

// MinSeparation returns the smallest pairwise distance among sites, or +Inf
// when there are fewer than two.
func MinSeparation(sites []Site) float64 {
	minDist := math.Inf(1)
	for i := 0; i < len(sites); i++ {
		for j := i + 1; j < len(sites); j++ {
			if d := Distance(sites[i], sites[j]); d < minDist {
				minDist = d
			}
		}
	}
	return minDist
}

// Enumerate returns every configuration over the filled sites that satisfies
// the blockade constraint: no two Rydberg atoms separated by blockadeRadius or
// less. With no sites the result is the single empty configuration.
//
// Panics if len(sites) exceeds MaxSites.
func Enumerate(sites []Site, blockadeRadius float64) []string {
	n := len(sites)
	if n > MaxSites {
		panic("basis: too many filled sites for exact enumeration")
	}
	all := product(n)
	if blockadeRadius < MinSeparation(sites) {
		return all
	}
	valid := all[:0]
	for _, c := range all {
		if IsValid(c, sites, blockadeRadius) {
			valid = append(valid, c)
		}
	}
	return valid
}

// IsValid reports whether configuration c has no pair of Rydberg atoms
// within blockadeRadius of each other. A distance equal to the radius counts
// as a violation.
func IsValid(c string, sites []Site, blockadeRadius float64) bool {
	excited := RydbergSites(c)
	for a := 0; a < len(excited); a++ {
		for b := a + 1; b < len(excited); b++ {
			if Distance(sites[excited[a]], sites[excited[b]]) <= blockadeRadius {
				return false
			}
		}
	}
	return true
}

// RydbergSites returns the positions labelled 'r' in c, in increasing order.
func RydbergSites(c string) []int {
	var out []int
	for i := 0; i < len(c); i++ {
		if c[i] == Rydberg {
			out = append(out, i)
		}
	}
	return out
}

// Flip returns c with position i set to label.
func Flip(c string, i int, label byte) string {
	b := []byte(c)
	b[i] = label
	return string(b)
}

// Index maps a configuration to its basis index.
type Index map[string]int

// NewIndex builds the lookup for configs.
func NewIndex(configs []string) Index {
	idx := make(Index, len(configs))
	for i, c := range configs {
		idx[c] = i
	}
	return idx
}

// product lists all 2^n strings over {g, r} in lexicographic order. Because
// 'g' < 'r', this is binary counting with the most significant bit leftmost.
func product(n int) []string {
	total := 1 << n
	out := make([]string, total)
	buf := make([]byte, n)
	for k := 0; k < total; k++ {
		for pos := 0; pos < n; pos++ {
			if k&(1<<(n-1-pos)) != 0 {
				buf[pos] = Rydberg
			} else {
				buf[pos] = Ground
			}
		}
		out[k] = string(buf)
	}
	return out
}
