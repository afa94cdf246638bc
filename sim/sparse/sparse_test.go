package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_SumsDuplicatesAndDropsZeros(t *testing.T) {
	// GIVEN triplets with a duplicated cell and a cell that cancels out
	b := NewBuilder(3, 3)
	b.Add(2, 0, 1)
	b.Add(0, 1, 2i)
	b.Add(2, 0, 0.5)
	b.Add(1, 1, 3)
	b.Add(1, 1, -3)

	// WHEN the matrix is built
	m := b.Build()

	// THEN duplicates are summed and cancelled cells are not stored
	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, complex(1.5, 0), m.At(2, 0))
	assert.Equal(t, 2i, m.At(0, 1))
	assert.Equal(t, complex128(0), m.At(1, 1))
}

func TestBuilder_Build_IndependentOfInsertionOrder(t *testing.T) {
	forward := NewBuilder(4, 4)
	backward := NewBuilder(4, 4)
	cells := [][3]int{{0, 3, 1}, {1, 2, 2}, {2, 1, 3}, {3, 0, 4}, {1, 1, 5}}
	for _, c := range cells {
		forward.Add(c[0], c[1], complex(float64(c[2]), 0))
	}
	for k := len(cells) - 1; k >= 0; k-- {
		c := cells[k]
		backward.Add(c[0], c[1], complex(float64(c[2]), 0))
	}
	assert.Equal(t, forward.Build().Dense(), backward.Build().Dense())
}

func TestMatrix_MulVec_MatchesDense(t *testing.T) {
	b := NewBuilder(2, 3)
	b.Add(0, 0, 1)
	b.Add(0, 2, 2i)
	b.Add(1, 1, -1+1i)
	m := b.Build()

	x := []complex128{1, 2, 3}
	dst := []complex128{99, 99}
	m.MulVec(dst, x)

	assert.Equal(t, []complex128{1 + 6i, -2 + 2i}, dst)
}

func TestMatrix_AddMulVecH_MatchesExplicitConjugateTranspose(t *testing.T) {
	// GIVEN a non-Hermitian complex matrix
	b := NewBuilder(3, 3)
	b.Add(1, 0, 1+2i)
	b.Add(2, 0, 3)
	b.Add(2, 1, -1i)
	m := b.Build()
	x := []complex128{0.5, 1 - 1i, 2i}

	// WHEN A^H x is computed implicitly and via the materialised H()
	implicit := make([]complex128, 3)
	m.AddMulVecH(implicit, 2, x)
	explicit := make([]complex128, 3)
	m.H().AddMulVec(explicit, 2, x)

	// THEN both agree
	for i := range implicit {
		assert.InDelta(t, real(explicit[i]), real(implicit[i]), 1e-12)
		assert.InDelta(t, imag(explicit[i]), imag(implicit[i]), 1e-12)
	}
}

func TestMatrix_H_ConjugatesAndTransposes(t *testing.T) {
	b := NewBuilder(2, 2)
	b.Add(1, 0, 2+3i)
	h := b.Build().H()

	assert.Equal(t, 2-3i, h.At(0, 1))
	assert.Equal(t, complex128(0), h.At(1, 0))
}

func TestBuilder_AddMatrix_ScalesEntries(t *testing.T) {
	src := NewBuilder(2, 2)
	src.Add(0, 0, 1)
	src.Add(1, 0, 1i)
	a := src.Build()

	b := NewBuilder(2, 2)
	b.AddMatrix(2, a)
	b.AddMatrixH(1i, a)
	m := b.Build()

	// (0,0): 2*1 + 1i*conj(1) ; (1,0): 2*1i ; (0,1): 1i*conj(1i)
	assert.Equal(t, 2+1i, m.At(0, 0))
	assert.Equal(t, 2i, m.At(1, 0))
	assert.Equal(t, complex128(1), m.At(0, 1))
}

func TestMatrix_AddMulVec_DimensionMismatchPanics(t *testing.T) {
	m := NewBuilder(2, 2).Build()
	require.Panics(t, func() {
		m.AddMulVec(make([]complex128, 2), 1, make([]complex128, 3))
	})
}

func TestBuilder_Add_OutOfRangePanics(t *testing.T) {
	b := NewBuilder(2, 2)
	require.Panics(t, func() { b.Add(2, 0, 1) })
}
