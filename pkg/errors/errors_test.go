package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("SMOTENC.Validate", "categorical_features", "index out of range [0, 3)", 5)

	want := "synthgen: SMOTENC.Validate: invalid configuration for 'categorical_features': index out of range [0, 3) (got: 5)"
	assert.Equal(t, want, err.Error())

	var cfgErr *ConfigurationError
	require.True(t, As(err, &cfgErr), "Error should be castable to *ConfigurationError")
	assert.Equal(t, "categorical_features", cfgErr.ParamName)

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	assert.Contains(t, formatted, "errors_test.go")
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("MixedDistanceEncoder.Transform", 4, 3, 1)

	want := "synthgen: MixedDistanceEncoder.Transform: dimension mismatch on axis 1 (features). Expected 4, got 3"
	assert.Equal(t, want, err.Error())

	var shapeErr *DataShapeError
	assert.True(t, As(err, &shapeErr))
}

func TestNewDataShapeError(t *testing.T) {
	err := NewDataShapeError("dataset.FromMatrix", "cannot cast NaN to int64")
	assert.Equal(t, "synthgen: dataset.FromMatrix: cannot cast NaN to int64", err.Error())
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("MixedDistanceEncoder", "Transform")

	want := "synthgen: MixedDistanceEncoder: this estimator is not fitted yet. Call Fit() before using Transform()"
	assert.Equal(t, want, err.Error())

	var notFittedErr *NotFittedError
	assert.True(t, As(err, &notFittedErr))
}

func TestNumericDegeneracyError(t *testing.T) {
	err := NewNumericDegeneracyError("MixedDistanceEncoder.Fit", "median_std", 0, "minority class has zero variance")
	assert.Contains(t, err.Error(), "median_std is undefined")

	var degErr *NumericDegeneracyError
	require.True(t, As(err, &degErr))
	assert.Equal(t, "median_std", degErr.Statistic)
}

func TestOversampleErrorUnwrap(t *testing.T) {
	cause := NewConfigurationError("SMOTE.FitResample", "k_neighbors", "must be lower than the minority class size", 6)
	err := NewOversampleError("SMOTENC.FitResample", cause)

	var overErr *OversampleError
	require.True(t, As(err, &overErr))

	// 原因のConfigurationErrorまで辿れること
	var cfgErr *ConfigurationError
	require.True(t, As(err, &cfgErr))
	assert.Equal(t, "k_neighbors", cfgErr.ParamName)
	assert.True(t, strings.HasPrefix(err.Error(), "synthgen: SMOTENC.FitResample: oversampling failed"))
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in MixedDistanceEncoder.Fit")

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in MixedDistanceEncoder.Fit")

	wrappedf := Wrapf(ErrCanceled, "after %d samples", 10)
	assert.True(t, Is(wrappedf, ErrCanceled))
	assert.Contains(t, wrappedf.Error(), "after 10 samples")
}

func TestWarnUsesHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(func(w error) {})

	w := NewDataConversionWarning("age", "float64", "int64", "fractional values truncated")
	Warn(w)

	require.NotNil(t, got)
	assert.Equal(t, `column "age" converted from float64 to int64. Reason: fractional values truncated`, got.Error())
}

func TestRecover(t *testing.T) {
	t.Run("panic becomes PanicError", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "SMOTE.generate")
			panic("index out of range")
		}
		err := fn()
		require.Error(t, err)

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.Equal(t, "SMOTE.generate", panicErr.Operation)
		assert.NotEmpty(t, panicErr.StackTrace)
		assert.Equal(t, "panic in SMOTE.generate: index out of range", panicErr.Error())
	})

	t.Run("existing error is kept", func(t *testing.T) {
		original := fmt.Errorf("original error")
		fn := func() (err error) {
			defer Recover(&err, "op")
			err = original
			panic("boom")
		}
		err := fn()
		assert.True(t, Is(err, original))
		assert.Contains(t, err.Error(), "panic in op")
	})

	t.Run("no panic", func(t *testing.T) {
		err := SafeExecute("op", func() error { return nil })
		assert.NoError(t, err)
	})
}

func TestCheckMatrix(t *testing.T) {
	m := denseStub{rows: [][]float64{{1, 2}, {3, math.NaN()}}}
	err := CheckMatrix("SMOTE.FitResample", m, 2, 2)
	require.Error(t, err)

	var instErr *NumericalInstabilityError
	require.True(t, As(err, &instErr))
	assert.Equal(t, 1, instErr.Row)

	assert.NoError(t, CheckMatrix("ok", denseStub{rows: [][]float64{{1}}}, 1, 1))
	assert.Error(t, CheckScalar("median_std", math.Inf(1)))
}

func TestIsClose(t *testing.T) {
	assert.True(t, IsClose(1.0, 1.0+1e-9))
	assert.True(t, IsClose(1e6, 1e6+5))
	assert.False(t, IsClose(1.0, 1.001))
	assert.False(t, IsClose(0, 1e-7))
}

type denseStub struct{ rows [][]float64 }

func (d denseStub) At(i, j int) float64 { return d.rows[i][j] }
