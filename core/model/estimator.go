package model

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はラベル付きデータから必要な統計量を学習する
	Fit(X, y mat.Matrix) error
}

// Resampler はデータセットを再標本化するモデルのインターフェース
//
// yはn×1の行列として渡す。戻り値は元の行の後ろに合成行を連結した行列と
// それに対応するラベルベクトル。
type Resampler interface {
	// FitResample は学習と再標本化を一度に行う
	FitResample(ctx context.Context, X, y mat.Matrix) (mat.Matrix, *mat.VecDense, error)
}
