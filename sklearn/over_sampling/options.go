package over_sampling

import (
	"github.com/YuminosukeSato/synthgen/pkg/log"
)

// サンプリング戦略
const (
	// StrategyAuto は少数クラスを多数クラスと同数になるまで増やす
	StrategyAuto = "auto"
	// StrategyMinority は二値の枠組みでは StrategyAuto と同じ
	StrategyMinority = "minority"
)

const (
	defaultKNeighbors        = 5
	defaultRandomState       = 0
	defaultParallelThreshold = 64
)

// Option は SMOTE / SMOTENC の設定オプション
type Option func(*SMOTE)

// WithKNeighbors は合成に使う近傍数を設定
func WithKNeighbors(k int) Option {
	return func(s *SMOTE) {
		s.kNeighbors = k
	}
}

// WithRandomState は乱数シードを設定
func WithRandomState(seed int64) Option {
	return func(s *SMOTE) {
		s.randomState = seed
	}
}

// WithSamplingStrategy はサンプリング戦略（"auto" または "minority"）を設定
func WithSamplingStrategy(strategy string) Option {
	return func(s *SMOTE) {
		s.samplingStrategy = strategy
	}
}

// WithLogger はロガーを設定
func WithLogger(l log.Logger) Option {
	return func(s *SMOTE) {
		s.logger = l
	}
}

// WithParallelThreshold は並列化する最小行数を設定
// これ以下のサンプル数では逐次処理する
func WithParallelThreshold(n int) Option {
	return func(s *SMOTE) {
		s.parallelThreshold = n
	}
}
