package over_sampling

import (
	"testing"

	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestColumnReordererRestoresOrder(t *testing.T) {
	r, err := NewColumnReorderer([]int{0, 2}, []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 3}, r.Permutation())

	// layout [c0, c2, c1, c3]
	grouped := mat.NewDense(2, 4, []float64{
		0, 2, 1, 3,
		10, 12, 11, 13,
	})
	want := mat.NewDense(2, 4, []float64{
		0, 1, 2, 3,
		10, 11, 12, 13,
	})

	got, err := r.Reorder(grouped)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	gotSparse, err := r.Reorder(sparse.NewCSRFromDense(grouped))
	require.NoError(t, err)
	_, ok := gotSparse.(*sparse.CSR)
	require.True(t, ok)
	assert.True(t, mat.Equal(want, gotSparse))
}

func TestColumnReordererInverseIsIdentity(t *testing.T) {
	r, err := NewColumnReorderer([]int{4, 0, 3}, []int{2, 1})
	require.NoError(t, err)

	m := mat.NewDense(3, 5, []float64{
		1, 2, 3, 4, 5,
		0, 7, 0, 9, 0,
		6, 0, 8, 0, 10,
	})

	t.Run("dense", func(t *testing.T) {
		fwd, err := r.Reorder(m)
		require.NoError(t, err)
		back, err := r.Inverse(fwd)
		require.NoError(t, err)
		assert.True(t, mat.Equal(m, back))

		inv, err := r.Inverse(m)
		require.NoError(t, err)
		again, err := r.Reorder(inv)
		require.NoError(t, err)
		assert.True(t, mat.Equal(m, again))
	})

	t.Run("sparse", func(t *testing.T) {
		csr := sparse.NewCSRFromDense(m)
		fwd, err := r.Reorder(csr)
		require.NoError(t, err)

		denseFwd, err := r.Reorder(m)
		require.NoError(t, err)
		assert.True(t, mat.Equal(denseFwd, fwd))

		back, err := r.Inverse(fwd)
		require.NoError(t, err)
		assert.True(t, mat.Equal(m, back))
	})
}

func TestColumnReordererErrors(t *testing.T) {
	_, err := NewColumnReorderer([]int{0, 1}, []int{1})
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewColumnReorderer([]int{0}, []int{2})
	assert.True(t, errors.As(err, &cfgErr))

	r, err := NewColumnReorderer([]int{0}, []int{1})
	require.NoError(t, err)
	_, err = r.Reorder(mat.NewDense(1, 3, nil))
	var shapeErr *errors.DataShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
