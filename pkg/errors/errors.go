// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 設定エラー・形状エラー・数値的な劣化などを構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("synthgen-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// DataConversionWarning はデータの型が暗黙的に変換された場合に発生する警告です。
type DataConversionWarning struct {
	Column   string
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("column %q converted from %s to %s. Reason: %s", w.Column, w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(column, from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError は未学習の状態で `Transform` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("synthgen: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ConfigurationError は設定値（カテゴリ列インデックス、近傍数、サンプリング戦略など）が
// 不正な場合のエラーです。合成処理を開始する前に検出されます。
type ConfigurationError struct {
	Op        string
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("synthgen: %s: invalid configuration for '%s': %s (got: %v)", e.Op, e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(op, param, reason string, value interface{}) error {
	err := &ConfigurationError{Op: op, ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// DataShapeError は入力データの形状や型が期待と異なる場合のエラーです。
// fit時とtransform時の列数不一致や、元のdtypeへのキャスト失敗を表します。
type DataShapeError struct {
	Op       string
	Reason   string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DataShapeError) Error() string {
	if e.Expected == 0 && e.Got == 0 {
		return fmt.Sprintf("synthgen: %s: %s", e.Op, e.Reason)
	}
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("synthgen: %s: %s on axis %d (%s). Expected %d, got %d", e.Op, e.Reason, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DataShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DataShapeError")
}

// NewDimensionError は次元不一致を表すDataShapeErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DataShapeError{Op: op, Reason: "dimension mismatch", Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NewDataShapeError は形状以外の理由（キャスト失敗など）によるDataShapeErrorを作成します。
func NewDataShapeError(op, reason string) error {
	err := &DataShapeError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// NumericDegeneracyError は少数クラスの分散が0、あるいは少数クラスの行数が不足しており
// median_stdが定義できない場合のエラーです。劣化した結果を出力せずに処理を中断します。
type NumericDegeneracyError struct {
	Op        string
	Statistic string
	Value     float64
	Reason    string
}

func (e *NumericDegeneracyError) Error() string {
	return fmt.Sprintf("synthgen: %s: %s is undefined (%g): %s", e.Op, e.Statistic, e.Value, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericDegeneracyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("statistic", e.Statistic).
		Float64("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "NumericDegeneracyError")
}

// NewNumericDegeneracyError は新しいNumericDegeneracyErrorを作成し、スタックトレースを付与します。
func NewNumericDegeneracyError(op, statistic string, value float64, reason string) error {
	err := &NumericDegeneracyError{Op: op, Statistic: statistic, Value: value, Reason: reason}
	return errors.WithStack(err)
}

// OversampleError はオーバーサンプリングエンジンが失敗した場合のエラーです。
// 原因となったエラー（多くの場合ConfigurationError）をラップして呼び出し元に伝播します。
type OversampleError struct {
	Op  string
	Err error
}

func (e *OversampleError) Error() string {
	return fmt.Sprintf("synthgen: %s: oversampling failed: %v", e.Op, e.Err)
}

func (e *OversampleError) Unwrap() error {
	return e.Err
}

// NewOversampleError は新しいOversampleErrorを作成し、スタックトレースを付与します。
func NewOversampleError(op string, err error) error {
	return errors.WithStack(&OversampleError{Op: op, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrCanceled は合成処理がキャンセルされた場合のエラーです。
	ErrCanceled = New("synthesis canceled")
)
