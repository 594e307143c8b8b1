package metrics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// CorrelationMatrix は列名付きのピアソン相関行列
type CorrelationMatrix struct {
	Names  []string
	Values *mat.SymDense
}

// At は列名 a と b の相関係数を返す。どちらかが無い場合は ok=false
func (c *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := indexOf(c.Names, a), indexOf(c.Names, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return c.Values.At(i, j), true
}

// Correlation は数値列同士のピアソン相関を計算する
//
// 定数列は相関が定義できないので結果から除く。対象列が1列も残らない場合は
// 空の CorrelationMatrix を返す。
func Correlation(table *dataset.Table) (*CorrelationMatrix, error) {
	if table == nil || table.NRows() < 2 {
		return nil, errors.Wrap(errors.ErrEmptyData, "metrics.Correlation")
	}

	var cols []*dataset.Column
	for j := 0; j < table.NCols(); j++ {
		col := table.Column(j)
		if col.Kind == dataset.KindCategory || isConstant(col.Values) {
			continue
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return &CorrelationMatrix{}, nil
	}

	x := mat.NewDense(table.NRows(), len(cols), nil)
	names := make([]string, len(cols))
	for j, col := range cols {
		x.SetCol(j, col.Values)
		names[j] = col.Name
	}

	corr := mat.NewSymDense(len(cols), nil)
	stat.CorrelationMatrix(corr, x, nil)
	return &CorrelationMatrix{Names: names, Values: corr}, nil
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
