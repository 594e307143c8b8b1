package metrics

import (
	"math"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
// 元データと合成データの統計量の差を一つの値にまとめるのに使う
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// checkPair は二つのベクトルが空でなく同じ長さであることを確認する
func checkPair(op string, a, b *mat.VecDense) (int, error) {
	if a == nil || b == nil || a.Len() == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if b.Len() != a.Len() {
		return 0, errors.NewDimensionError(op, a.Len(), b.Len(), 0)
	}
	return a.Len(), nil
}
