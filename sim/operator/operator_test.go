package operator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/ahs-sim/sim/basis"
)

func threeSiteChain() ([]basis.Site, []string) {
	sites := []basis.Site{{0, 0}, {1, 0}, {3, 0}}
	// Radius 1.5 blockades only the first pair
	return sites, basis.Enumerate(sites, 1.5)
}

func TestInteraction_DiagonalAndPositive(t *testing.T) {
	// GIVEN a chain where sites 0 and 2 may both be excited
	sites, configs := threeSiteChain()
	index := basis.NewIndex(configs)

	// WHEN the interaction operator is built with c6 = 64
	op := Interaction(configs, sites, 64)

	// THEN every stored entry is diagonal and strictly positive
	op.Do(func(i, j int, v complex128) {
		assert.Equal(t, i, j)
		assert.Greater(t, real(v), 0.0)
		assert.Zero(t, imag(v))
	})
	// AND "rgr" (distance 3) carries 64/3^6
	rgr := index["rgr"]
	assert.InDelta(t, 64/math.Pow(3, 6), real(op.At(rgr, rgr)), 1e-12)
	// AND configurations with at most one Rydberg atom have no entry
	for _, c := range []string{"ggg", "ggr", "grg", "rgg"} {
		assert.Zero(t, op.At(index[c], index[c]), c)
	}
}

func TestInteraction_SumsAllRydbergPairs(t *testing.T) {
	sites := []basis.Site{{0, 0}, {1, 0}, {2, 0}}
	configs := basis.Enumerate(sites, 0.1)
	index := basis.NewIndex(configs)
	op := Interaction(configs, sites, 1)

	want := 1.0 + 1.0 + 1/math.Pow(2, 6)
	rrr := index["rrr"]
	assert.InDelta(t, want, real(op.At(rrr, rrr)), 1e-12)
	assert.Equal(t, 4, op.NNZ()) // rrg, rgr, grr, rrr
}

func TestDetuning_CountsTargetRydbergAtoms(t *testing.T) {
	_, configs := threeSiteChain()
	index := basis.NewIndex(configs)

	global := Detuning(configs, AllSites(3))
	assert.Equal(t, complex128(2), global.At(index["rgr"], index["rgr"]))
	assert.Equal(t, complex128(1), global.At(index["grg"], index["grg"]))
	assert.Zero(t, global.At(index["ggg"], index["ggg"]))

	// Restricted to site 2 only
	local := Detuning(configs, []int{2})
	assert.Equal(t, complex128(1), local.At(index["rgr"], index["rgr"]))
	assert.Zero(t, local.At(index["grg"], index["grg"]))
}

func TestLocalDetuning_WeightsByFilledSitePattern(t *testing.T) {
	_, configs := threeSiteChain()
	index := basis.NewIndex(configs)

	op := LocalDetuning(configs, []float64{0.5, 0, 2})

	assert.Equal(t, complex(2.5, 0), op.At(index["rgr"], index["rgr"]))
	assert.Equal(t, complex(0.5, 0), op.At(index["rgg"], index["rgg"]))
	assert.Zero(t, op.At(index["grg"], index["grg"]))
}

func TestRabi_StrictlyLowerTriangularUnitEntries(t *testing.T) {
	_, configs := threeSiteChain()
	op := Rabi(configs, AllSites(3))

	require.Positive(t, op.NNZ())
	op.Do(func(i, j int, v complex128) {
		assert.Greater(t, i, j, "entry (%d,%d) not strictly lower", i, j)
		assert.Equal(t, complex128(1), v)
	})
}

func TestRabi_OnlyValidSingleFlips(t *testing.T) {
	// GIVEN two blockaded atoms: basis {gg, gr, rg}
	sites := []basis.Site{{0, 0}, {1, 0}}
	configs := basis.Enumerate(sites, 2)
	require.Equal(t, []string{"gg", "gr", "rg"}, configs)

	// WHEN the Rabi operator is built
	op := Rabi(configs, AllSites(2))

	// THEN gg couples to gr and rg, and nothing couples to the excluded rr
	assert.Equal(t, complex128(1), op.At(1, 0))
	assert.Equal(t, complex128(1), op.At(2, 0))
	assert.Equal(t, 2, op.NNZ())
}

func TestRabi_TargetSubset(t *testing.T) {
	configs := basis.Enumerate([]basis.Site{{0, 0}, {5, 0}}, 1)
	index := basis.NewIndex(configs)
	op := Rabi(configs, []int{1})

	assert.Equal(t, complex128(1), op.At(index["gr"], index["gg"]))
	assert.Equal(t, complex128(1), op.At(index["rr"], index["rg"]))
	assert.Zero(t, op.At(index["rg"], index["gg"]))
}
