package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	Fitter

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X, y mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer は変換結果を元の表現に戻せるTransformer
type InverseTransformer interface {
	Transformer

	// Inverse は変換後の表現から元の値を復元する
	Inverse(X mat.Matrix) (mat.Matrix, error)
}
