// Package model はエンコーダやリサンプラーが共通で使う状態管理とインターフェースを定義する
package model

import "github.com/YuminosukeSato/synthgen/pkg/errors"

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全てのモデルの基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
// Fitが途中で失敗した場合にも呼ばれ、中途半端な学習結果を使わせない
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// State は現在の学習状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// CheckFitted は未学習の場合にNotFittedErrorを返す
//
// 使用例:
//
//	if err := enc.CheckFitted("MixedDistanceEncoder", "Transform"); err != nil {
//	    return nil, err
//	}
func (e *BaseEstimator) CheckFitted(modelName, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
