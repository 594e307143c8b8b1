package over_sampling

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// ColumnReorderer は [連続値..., カテゴリ...] の並びを元の列順に戻す
type ColumnReorderer struct {
	// concat は並べ替え前の位置 p にある元の列番号
	concat []int
	// order は argsort(concat)。元の列 c は並べ替え前の位置 order[c] にある
	order []int
}

// NewColumnReorderer は連続値列とカテゴリ列のインデックスから ColumnReorderer を作る
// 二つを合わせて 0..n-1 の置換にならない場合は ConfigurationError
func NewColumnReorderer(continuous, categorical []int) (*ColumnReorderer, error) {
	const op = "ColumnReorderer"
	concat := make([]int, 0, len(continuous)+len(categorical))
	concat = append(concat, continuous...)
	concat = append(concat, categorical...)

	n := len(concat)
	seen := make([]bool, n)
	for _, c := range concat {
		if c < 0 || c >= n || seen[c] {
			return nil, errors.NewConfigurationError(op, "features",
				"continuous and categorical indices must partition the columns", concat)
		}
		seen[c] = true
	}

	keys := make([]float64, n)
	for p, c := range concat {
		keys[p] = float64(c)
	}
	order := make([]int, n)
	floats.Argsort(keys, order)

	return &ColumnReorderer{concat: concat, order: order}, nil
}

// Permutation は argsort(concat(continuous, categorical)) を返す
func (r *ColumnReorderer) Permutation() []int {
	return append([]int(nil), r.order...)
}

// Reorder は列を元の順序に戻す
//
// *sparse.CSR はその場で列インデックスを書き換えて同じ値を返す（密行列化しない）。
// それ以外は新しい *mat.Dense を返す。
func (r *ColumnReorderer) Reorder(m mat.Matrix) (mat.Matrix, error) {
	return r.permute("ColumnReorderer.Reorder", m, r.order, r.concat)
}

// Inverse は Reorder の逆変換。Inverse(Reorder(m)) は m と等しい
func (r *ColumnReorderer) Inverse(m mat.Matrix) (mat.Matrix, error) {
	return r.permute("ColumnReorderer.Inverse", m, r.concat, r.order)
}

// permute は密行列では新しい列 j に元の列 gather[j] を置き、
// CSR では列インデックス c を remap[c] に書き換える
func (r *ColumnReorderer) permute(op string, m mat.Matrix, gather, remap []int) (mat.Matrix, error) {
	rows, cols := m.Dims()
	if cols != len(gather) {
		return nil, errors.NewDimensionError(op, len(gather), cols, 1)
	}

	if csr, ok := m.(*sparse.CSR); ok {
		sparse.RemapColumns(csr, remap)
		return csr, nil
	}

	if rows == 0 {
		return &mat.Dense{}, nil
	}
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j, src := range gather {
		mat.Col(col, src, m)
		out.SetCol(j, col)
	}
	return out, nil
}
