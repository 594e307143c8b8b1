package preprocessing

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// columns: age, city (code), income
func encoderFixture() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 3, []float64{
		20, 0, 100,
		30, 1, 300,
		40, 2, 200,
		50, 0, 400,
		60, 1, 500,
		70, 2, 600,
	})
	y := mat.NewDense(6, 1, []float64{1, 1, 0, 0, 0, 0})
	return X, y
}

func newFixtureEncoder(t *testing.T, opts ...EncoderOption) *MixedDistanceEncoder {
	t.Helper()
	split, err := SplitFeatures(3, []int{1})
	require.NoError(t, err)
	return NewMixedDistanceEncoder(split, opts...)
}

func TestEncoderFit(t *testing.T) {
	X, y := encoderFixture()
	enc := newFixtureEncoder(t)

	require.NoError(t, enc.Fit(X, y))
	assert.True(t, enc.IsFitted())
	assert.Equal(t, 1.0, enc.MinorityClass())
	assert.Equal(t, 2, enc.NMinority())

	// minority rows: age {20,30} std 5, income {100,300} std 100 -> median 52.5
	assert.InDelta(t, 52.5, enc.MedianStd(), 1e-12)
	assert.Equal(t, [][]float64{{0, 1, 2}}, enc.Categories())
	assert.Equal(t, []int{2, 5}, enc.BlockOffsets())
	assert.Equal(t, 5, enc.EncodedWidth())
}

func TestEncoderMinorityTieBreak(t *testing.T) {
	X, _ := encoderFixture()
	y := mat.NewDense(6, 1, []float64{3, 3, 3, 2, 2, 2})
	enc := newFixtureEncoder(t)

	require.NoError(t, enc.Fit(X, y))
	assert.Equal(t, 2.0, enc.MinorityClass())
}

func TestEncoderMedianOddCount(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(median(nil)))
}

func TestEncoderTransformDense(t *testing.T) {
	X, y := encoderFixture()
	enc := newFixtureEncoder(t)

	out, err := enc.FitTransform(X, y)
	require.NoError(t, err)
	dense, ok := out.(*mat.Dense)
	require.True(t, ok)

	h := enc.MedianStd() / 2
	assert.Equal(t, []float64{20, 100, h, 0, 0}, dense.RawRowView(0))
	assert.Equal(t, []float64{40, 200, 0, 0, h}, dense.RawRowView(2))

	// unknown category maps to an all-zero block
	unknown := mat.NewDense(1, 3, []float64{25, 9, 150})
	out, err = enc.Transform(unknown)
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 150, 0, 0, 0}, out.(*mat.Dense).RawRowView(0))
}

func TestEncoderTransformSparseMatchesDense(t *testing.T) {
	X, y := encoderFixture()
	enc := newFixtureEncoder(t)
	require.NoError(t, enc.Fit(X, y))

	dense, err := enc.Transform(X)
	require.NoError(t, err)
	sp, err := enc.Transform(sparse.NewCSRFromDense(X))
	require.NoError(t, err)

	_, ok := sp.(*sparse.CSR)
	require.True(t, ok)
	assert.True(t, mat.EqualApprox(dense, sp, 1e-12))
}

func TestEncoderInverse(t *testing.T) {
	X, y := encoderFixture()
	enc := newFixtureEncoder(t)
	require.NoError(t, enc.Fit(X, y))

	blocks := mat.NewDense(2, 3, []float64{
		0, 0, 1,
		1, 0, 0,
	})
	out, err := enc.Inverse(blocks)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0}, mat.Col(nil, 0, out))

	bad := []*mat.Dense{
		mat.NewDense(1, 3, []float64{0, 0, 0}),
		mat.NewDense(1, 3, []float64{1, 1, 0}),
		mat.NewDense(1, 3, []float64{0, 0.5, 0}),
	}
	for _, b := range bad {
		_, err := enc.Inverse(b)
		var shapeErr *errors.DataShapeError
		assert.True(t, errors.As(err, &shapeErr), "input %v", mat.Formatted(b))
	}
}

func TestEncoderErrors(t *testing.T) {
	X, y := encoderFixture()

	t.Run("not fitted", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		_, err := enc.Transform(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
		_, err = enc.Inverse(mat.NewDense(1, 3, nil))
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("column mismatch", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		require.NoError(t, enc.Fit(X, y))
		_, err := enc.Transform(mat.NewDense(1, 2, nil))
		var shapeErr *errors.DataShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, 3, shapeErr.Expected)
		assert.Equal(t, 2, shapeErr.Got)
	})

	t.Run("single minority row", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		err := enc.Fit(X, mat.NewDense(6, 1, []float64{1, 0, 0, 0, 0, 0}))
		var degErr *errors.NumericDegeneracyError
		assert.True(t, errors.As(err, &degErr))
		assert.False(t, enc.IsFitted())
	})

	t.Run("zero variance", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		flat := mat.NewDense(3, 3, []float64{
			5, 0, 7,
			5, 1, 7,
			9, 0, 1,
		})
		err := enc.Fit(flat, mat.NewDense(3, 1, []float64{1, 1, 0}))
		var degErr *errors.NumericDegeneracyError
		require.True(t, errors.As(err, &degErr))
		assert.Equal(t, "median_std", degErr.Statistic)
	})

	t.Run("overflowing spread", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		huge := mat.NewDense(3, 3, []float64{
			1e300, 0, -1e300,
			-1e300, 1, 1e300,
			0, 0, 0,
		})
		err := enc.Fit(huge, mat.NewDense(3, 1, []float64{1, 1, 0}))
		var instErr *errors.NumericalInstabilityError
		require.True(t, errors.As(err, &instErr))
		assert.Equal(t, "MixedDistanceEncoder.Fit.median_std", instErr.Operation)
		assert.True(t, math.IsInf(instErr.Values[0], 1))
		assert.False(t, enc.IsFitted())
	})

	t.Run("label length", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		err := enc.Fit(X, mat.NewDense(5, 1, nil))
		var shapeErr *errors.DataShapeError
		assert.True(t, errors.As(err, &shapeErr))
	})

	t.Run("non-finite input", func(t *testing.T) {
		enc := newFixtureEncoder(t)
		bad := mat.DenseCopyOf(X)
		bad.Set(3, 0, math.Inf(1))
		err := enc.Fit(bad, y)
		var numErr *errors.NumericalInstabilityError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, 3, numErr.Row)
	})
}

func TestEncoderLogsFit(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X, y := encoderFixture()
	enc := newFixtureEncoder(t, WithEncoderLogger(logger))

	require.NoError(t, enc.Fit(X, y))
	assert.True(t, logger.ContainsMessage("encoder fitted"))
	assert.True(t, logger.ContainsField(log.MinoritySamplesKey, float64(2)))
}
