// Package sparse provides a compressed sparse row (CSR) matrix over complex128
// and a triplet builder for assembling operators in a configuration basis.
//
// Matrices are immutable once built. All products write into caller-owned
// slices so that an integrator can evaluate them in a tight loop without
// allocating.
package sparse

import (
	"cmp"
	"fmt"
	"math/cmplx"
	"slices"
	"sort"
)

// Matrix is a CSR matrix. The zero value is an empty 0x0 matrix.
type Matrix struct {
	rows, cols int
	indptr     []int // len rows+1
	ind        []int // column index per stored entry
	data       []complex128
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.data) }

// At returns the entry at (i, j), zero when nothing is stored there.
func (m *Matrix) At(i, j int) complex128 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := sort.SearchInts(m.ind[lo:hi], j)
	if k < hi-lo && m.ind[lo+k] == j {
		return m.data[lo+k]
	}
	return 0
}

// Do calls fn for every stored entry in row-major order.
func (m *Matrix) Do(fn func(i, j int, v complex128)) {
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fn(i, m.ind[k], m.data[k])
		}
	}
}

// MulVec computes dst = A*x. dst and x must not alias.
func (m *Matrix) MulVec(dst, x []complex128) {
	clear(dst[:m.rows])
	m.AddMulVec(dst, 1, x)
}

// AddMulVec computes dst += alpha*A*x.
func (m *Matrix) AddMulVec(dst []complex128, alpha complex128, x []complex128) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic(fmt.Sprintf("sparse: dimension mismatch: %dx%d matrix, len(x)=%d, len(dst)=%d", m.rows, m.cols, len(x), len(dst)))
	}
	for i := 0; i < m.rows; i++ {
		var sum complex128
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			sum += m.data[k] * x[m.ind[k]]
		}
		dst[i] += alpha * sum
	}
}

// AddMulVecH computes dst += alpha*A^H*x without materialising A^H.
func (m *Matrix) AddMulVecH(dst []complex128, alpha complex128, x []complex128) {
	if len(x) != m.rows || len(dst) != m.cols {
		panic(fmt.Sprintf("sparse: dimension mismatch: %dx%d matrix transposed, len(x)=%d, len(dst)=%d", m.rows, m.cols, len(x), len(dst)))
	}
	for i := 0; i < m.rows; i++ {
		xi := alpha * x[i]
		if xi == 0 {
			continue
		}
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			dst[m.ind[k]] += cmplx.Conj(m.data[k]) * xi
		}
	}
}

// H returns the conjugate transpose as a new matrix.
func (m *Matrix) H() *Matrix {
	b := NewBuilder(m.cols, m.rows)
	b.AddMatrixH(1, m)
	return b.Build()
}

// Dense expands the matrix into a row-major slice of rows.
func (m *Matrix) Dense() [][]complex128 {
	out := make([][]complex128, m.rows)
	for i := range out {
		out[i] = make([]complex128, m.cols)
	}
	m.Do(func(i, j int, v complex128) { out[i][j] = v })
	return out
}

// Builder accumulates (row, col, value) triplets and compresses them into a
// Matrix in one pass. Entries written to the same cell more than once are
// summed.
type Builder struct {
	rows, cols int
	r, c       []int
	v          []complex128
}

// NewBuilder returns a builder for a rows x cols matrix.
func NewBuilder(rows, cols int) *Builder {
	return &Builder{rows: rows, cols: cols}
}

// Add records value v at (i, j).
func (b *Builder) Add(i, j int, v complex128) {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range for %dx%d builder", i, j, b.rows, b.cols))
	}
	b.r = append(b.r, i)
	b.c = append(b.c, j)
	b.v = append(b.v, v)
}

// AddMatrix records alpha*A.
func (b *Builder) AddMatrix(alpha complex128, a *Matrix) {
	if alpha == 0 {
		return
	}
	a.Do(func(i, j int, v complex128) { b.Add(i, j, alpha*v) })
}

// AddMatrixH records alpha*A^H.
func (b *Builder) AddMatrixH(alpha complex128, a *Matrix) {
	if alpha == 0 {
		return
	}
	a.Do(func(i, j int, v complex128) { b.Add(j, i, alpha*cmplx.Conj(v)) })
}

// Len returns the number of recorded triplets, duplicates included.
func (b *Builder) Len() int { return len(b.v) }

// Build compresses the recorded triplets. Cells whose summed value is exactly
// zero are not stored. The builder may be reused afterwards.
func (b *Builder) Build() *Matrix {
	order := make([]int, len(b.v))
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(x, y int) int {
		if c := cmp.Compare(b.r[x], b.r[y]); c != 0 {
			return c
		}
		return cmp.Compare(b.c[x], b.c[y])
	})

	m := &Matrix{
		rows:   b.rows,
		cols:   b.cols,
		indptr: make([]int, b.rows+1),
		ind:    make([]int, 0, len(order)),
		data:   make([]complex128, 0, len(order)),
	}
	for k := 0; k < len(order); {
		i, j := b.r[order[k]], b.c[order[k]]
		var sum complex128
		for ; k < len(order) && b.r[order[k]] == i && b.c[order[k]] == j; k++ {
			sum += b.v[order[k]]
		}
		if sum == 0 {
			continue
		}
		m.ind = append(m.ind, j)
		m.data = append(m.data, sum)
		m.indptr[i+1]++
	}
	for i := 0; i < b.rows; i++ {
		m.indptr[i+1] += m.indptr[i]
	}
	return m
}
