package dataset

import (
	"math"
	"strconv"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FromMatrix casts m back to the names, kinds and levels of like. Int columns
// are truncated toward zero (a DataConversionWarning is emitted once per
// column when a value had a fractional part); category cells must hold a
// valid integer code. Non-finite values fail with DataShapeError.
func FromMatrix(m mat.Matrix, like *Table) (*Table, error) {
	const op = "dataset.FromMatrix"
	r, c := m.Dims()
	if c != like.NCols() {
		return nil, errors.NewDimensionError(op, like.NCols(), c, 1)
	}

	cols := make([]*Column, c)
	for j, ref := range like.columns {
		values := make([]float64, r)
		truncated := false
		for i := 0; i < r; i++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.NewDataShapeError(op,
					"column "+strconv.Quote(ref.Name)+": cannot cast non-finite value at row "+strconv.Itoa(i))
			}
			switch ref.Kind {
			case KindInt:
				t := math.Trunc(v)
				if t != v {
					truncated = true
				}
				v = t
			case KindCategory:
				if v != math.Trunc(v) || v < 0 || int(v) >= len(ref.Levels) {
					return nil, errors.NewDataShapeError(op,
						"column "+strconv.Quote(ref.Name)+": invalid category code "+strconv.FormatFloat(v, 'g', -1, 64)+" at row "+strconv.Itoa(i))
				}
			}
			values[i] = v
		}
		if truncated {
			errors.Warn(errors.NewDataConversionWarning(ref.Name, "float64", "int", "fractional values truncated toward zero"))
		}
		cols[j] = ref.clone(values)
	}
	return NewTable(cols...)
}
