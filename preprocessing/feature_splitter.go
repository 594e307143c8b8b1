package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// FeatureSplit は列インデックスを連続値列とカテゴリ列に分割した結果
//
// Categorical と Continuous はどちらも昇順で、和集合は [0, NFeatures) 全体、
// 共通部分は空になる。
type FeatureSplit struct {
	// NFeatures は元データの列数
	NFeatures int

	// Categorical はカテゴリ列のインデックス（昇順・重複なし）
	Categorical []int

	// Continuous は連続値列のインデックス（昇順）
	Continuous []int
}

// SplitFeatures はカテゴリ列のインデックス配列から FeatureSplit を作る
//
// パラメータ:
//   - n: 列数
//   - categorical: カテゴリ列のインデックス（順不同、重複可）
//
// 戻り値:
//   - FeatureSplit: 分割結果
//   - error: インデックスが [0, n) の範囲外、または全列がカテゴリの場合は ConfigurationError
//
// 使用例:
//
//	split, err := preprocessing.SplitFeatures(4, []int{3, 1})
//	// split.Categorical = [1 3], split.Continuous = [0 2]
func SplitFeatures(n int, categorical []int) (FeatureSplit, error) {
	const op = "FeatureSplitter"
	if n <= 0 {
		return FeatureSplit{}, errors.NewConfigurationError(op, "n_features", "must be positive", n)
	}

	isCat := make([]bool, n)
	for _, idx := range categorical {
		if idx < 0 || idx >= n {
			return FeatureSplit{}, errors.NewConfigurationError(op, "categorical_features",
				"index out of range [0, n_features)", idx)
		}
		isCat[idx] = true
	}
	return splitFromMask(op, isCat)
}

// SplitFeaturesMask は長さ n のブールマスク（true がカテゴリ列）から FeatureSplit を作る
func SplitFeaturesMask(mask []bool) (FeatureSplit, error) {
	const op = "FeatureSplitter"
	if len(mask) == 0 {
		return FeatureSplit{}, errors.NewConfigurationError(op, "categorical_features",
			"mask must have one entry per feature", len(mask))
	}
	return splitFromMask(op, append([]bool(nil), mask...))
}

// SplitFeaturesMaskN はマスク長を列数 n と突き合わせてから分割する
func SplitFeaturesMaskN(n int, mask []bool) (FeatureSplit, error) {
	if len(mask) != n {
		return FeatureSplit{}, errors.NewConfigurationError("FeatureSplitter", "categorical_features",
			"mask length must equal n_features", len(mask))
	}
	return SplitFeaturesMask(mask)
}

func splitFromMask(op string, isCat []bool) (FeatureSplit, error) {
	split := FeatureSplit{NFeatures: len(isCat)}
	for j, c := range isCat {
		if c {
			split.Categorical = append(split.Categorical, j)
		} else {
			split.Continuous = append(split.Continuous, j)
		}
	}
	// 連続値列がないと median_std が定義できない
	if len(split.Continuous) == 0 {
		return FeatureSplit{}, errors.NewConfigurationError(op, "categorical_features",
			"at least one continuous feature is required", split.Categorical)
	}
	return split, nil
}

// Order は [連続値..., カテゴリ...] の並びを返す
func (s FeatureSplit) Order() []int {
	order := make([]int, 0, s.NFeatures)
	order = append(order, s.Continuous...)
	order = append(order, s.Categorical...)
	return order
}

// IsCategorical は列 j がカテゴリ列かどうかを返す
func (s FeatureSplit) IsCategorical(j int) bool {
	i := sort.SearchInts(s.Categorical, j)
	return i < len(s.Categorical) && s.Categorical[i] == j
}
