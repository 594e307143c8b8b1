// Package sparse adapts github.com/james-bowman/sparse for the encoder and
// the resamplers. CSR is the library's compressed sparse row matrix, so
// encoded data satisfies gonum's mat.Matrix and flows through the same APIs
// as *mat.Dense without being densified. The helpers here add the few row
// operations SMOTE needs that the library leaves out.
package sparse

import (
	"fmt"
	"sort"

	bsparse "github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix. Row i stores its non-zero entries in
// Ind[Indptr[i]:Indptr[i+1]] of RawMatrix() with the matching Data.
type CSR = bsparse.CSR

var _ mat.Matrix = (*CSR)(nil)

// NewCSR creates a CSR matrix from its raw arrays. The slices are used
// directly, not copied. It panics on inconsistent lengths like mat.NewDense.
func NewCSR(r, c int, indptr, indices []int, data []float64) *CSR {
	if r < 0 || c < 0 {
		panic(mat.ErrNegativeDimension)
	}
	if len(indptr) != r+1 {
		panic(fmt.Sprintf("sparse: indptr length %d, want %d", len(indptr), r+1))
	}
	if len(indices) != len(data) || indptr[r] != len(data) {
		panic("sparse: indices/data length mismatch")
	}
	return bsparse.NewCSR(r, c, indptr, indices, data)
}

// NewCSRFromDense compresses m, dropping exact zeros.
func NewCSRFromDense(m mat.Matrix) *CSR {
	r, c := m.Dims()
	indptr := make([]int, r+1)
	var (
		indices []int
		data    []float64
	)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				indices = append(indices, j)
				data = append(data, v)
			}
		}
		indptr[i+1] = len(data)
	}
	return bsparse.NewCSR(r, c, indptr, indices, data)
}

// Row copies row i of m into dst as a dense vector. If dst is nil or too
// short a new slice is allocated.
func Row(dst []float64, m *CSR, i int) []float64 {
	raw := m.RawMatrix()
	if uint(i) >= uint(raw.I) {
		panic(mat.ErrRowAccess)
	}
	if len(dst) < raw.J {
		dst = make([]float64, raw.J)
	} else {
		dst = dst[:raw.J]
		for j := range dst {
			dst[j] = 0
		}
	}
	for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
		dst[raw.Ind[k]] = raw.Data[k]
	}
	return dst
}

// RemapColumns rewrites every column index c of m to remap[c] in place and
// restores column order inside each row. remap must be a permutation of the
// columns.
func RemapColumns(m *CSR, remap []int) {
	raw := m.RawMatrix()
	if len(remap) != raw.J {
		panic(mat.ErrShape)
	}
	for k, c := range raw.Ind {
		raw.Ind[k] = remap[c]
	}
	SortIndices(m)
}

// SortIndices restores column order inside every row.
func SortIndices(m *CSR) {
	raw := m.RawMatrix()
	for i := 0; i < raw.I; i++ {
		start, end := raw.Indptr[i], raw.Indptr[i+1]
		sort.Sort(rowEntries{indices: raw.Ind[start:end], data: raw.Data[start:end]})
	}
}

// VStack concatenates matrices with equal column counts on top of each other.
func VStack(ms ...*CSR) *CSR {
	if len(ms) == 0 {
		return bsparse.NewCSR(0, 0, []int{0}, nil, nil)
	}
	_, cols := ms[0].Dims()
	rows := 0
	for _, m := range ms {
		r, c := m.Dims()
		if c != cols {
			panic(mat.ErrShape)
		}
		rows += r
	}
	indptr := make([]int, 1, rows+1)
	var (
		indices []int
		data    []float64
	)
	for _, m := range ms {
		raw := m.RawMatrix()
		for i := 0; i < raw.I; i++ {
			indices = append(indices, raw.Ind[raw.Indptr[i]:raw.Indptr[i+1]]...)
			data = append(data, raw.Data[raw.Indptr[i]:raw.Indptr[i+1]]...)
			indptr = append(indptr, len(data))
		}
	}
	return bsparse.NewCSR(rows, cols, indptr, indices, data)
}

type rowEntries struct {
	indices []int
	data    []float64
}

func (r rowEntries) Len() int           { return len(r.indices) }
func (r rowEntries) Less(i, j int) bool { return r.indices[i] < r.indices[j] }
func (r rowEntries) Swap(i, j int) {
	r.indices[i], r.indices[j] = r.indices[j], r.indices[i]
	r.data[i], r.data[j] = r.data[j], r.data[i]
}
