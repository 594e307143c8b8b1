package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/synthgen/core/model"
	"github.com/YuminosukeSato/synthgen/core/parallel"
	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
)

const encoderName = "MixedDistanceEncoder"

var _ model.InverseTransformer = (*MixedDistanceEncoder)(nil)

// 密行列の Transform を並列化する行数の下限
const transformParallelThreshold = 1024

// MixedDistanceEncoder は連続値列とカテゴリ列が混在するデータを、
// 一つのユークリッド距離で比較できる行列に変換するエンコーダ
//
// 出力は [連続値列 | カテゴリ列ごとの指示子ブロック] の並び。指示子ブロックは
// 観測されたカテゴリ値ごとに1列を持ち、該当する列に median_std/2 を置く。
// median_std は少数クラス行だけで計算した連続値列の母標準偏差の中央値。
type MixedDistanceEncoder struct {
	model.BaseEstimator

	split  FeatureSplit
	logger log.Logger

	minorityClass float64
	nMinority     int
	medianStd     float64

	// categories はカテゴリ列ごとの観測値（昇順）
	categories [][]float64
	lookup     []map[float64]int

	// blockOffsets は各指示子ブロックの開始列。先頭は連続値列の数、末尾は出力の列数
	blockOffsets []int
}

// EncoderOption は MixedDistanceEncoder のオプション
type EncoderOption func(*MixedDistanceEncoder)

// WithEncoderLogger はエンコーダが使うロガーを設定する
func WithEncoderLogger(l log.Logger) EncoderOption {
	return func(e *MixedDistanceEncoder) {
		e.logger = l
	}
}

// NewMixedDistanceEncoder は新しい MixedDistanceEncoder を作成する
//
// 使用例:
//
//	split, _ := preprocessing.SplitFeatures(3, []int{2})
//	enc := preprocessing.NewMixedDistanceEncoder(split)
//	Xenc, err := enc.FitTransform(X, y)
func NewMixedDistanceEncoder(split FeatureSplit, opts ...EncoderOption) *MixedDistanceEncoder {
	e := &MixedDistanceEncoder{split: split}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.GetLoggerWithName(encoderName)
	}
	return e
}

// Fit は少数クラス、median_std、カテゴリ語彙を学習する
//
// パラメータ:
//   - X: n_samples × n_features の行列（*mat.Dense または *sparse.CSR）
//   - y: n_samples × 1 のラベル
//
// 戻り値:
//   - error: 形状不一致は DataShapeError、少数クラスが2行未満や median_std が0の場合は
//     NumericDegeneracyError、median_std が溢れた場合は NumericalInstabilityError
func (e *MixedDistanceEncoder) Fit(X, y mat.Matrix) error {
	const op = encoderName + ".Fit"
	e.Reset()

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if cols != e.split.NFeatures {
		return errors.NewDimensionError(op, e.split.NFeatures, cols, 1)
	}
	yRows, yCols := y.Dims()
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}
	if err := errors.CheckMatrix(op, X, rows, cols); err != nil {
		return err
	}

	minority, minorityRows := minorityClass(y, rows)
	if len(minorityRows) < 2 {
		return errors.NewNumericDegeneracyError(op, "median_std", math.NaN(),
			"the minority class needs at least two rows")
	}
	if len(e.split.Continuous) == 0 {
		return errors.NewNumericDegeneracyError(op, "median_std", math.NaN(),
			"no continuous features")
	}

	// 連続値列ごとの母標準偏差（ddof=0）
	stds := make([]float64, len(e.split.Continuous))
	buf := make([]float64, len(minorityRows))
	for k, j := range e.split.Continuous {
		for i, r := range minorityRows {
			buf[i] = X.At(r, j)
		}
		stds[k] = stat.PopStdDev(buf, nil)
	}
	medianStd := median(stds)
	// 有限な入力でも分散計算が溢れうる
	if err := errors.CheckScalar(op+".median_std", medianStd); err != nil {
		return err
	}
	if medianStd == 0 {
		return errors.NewNumericDegeneracyError(op, "median_std", medianStd,
			"minority rows have zero variance in the continuous features")
	}

	// カテゴリ語彙は全行から作る
	categories := make([][]float64, len(e.split.Categorical))
	lookup := make([]map[float64]int, len(e.split.Categorical))
	offsets := make([]int, len(e.split.Categorical)+1)
	offsets[0] = len(e.split.Continuous)
	for k, j := range e.split.Categorical {
		seen := make(map[float64]struct{})
		for i := 0; i < rows; i++ {
			seen[X.At(i, j)] = struct{}{}
		}
		values := make([]float64, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Float64s(values)

		idx := make(map[float64]int, len(values))
		for c, v := range values {
			idx[v] = c
		}
		categories[k] = values
		lookup[k] = idx
		offsets[k+1] = offsets[k] + len(values)
	}

	e.minorityClass = minority
	e.nMinority = len(minorityRows)
	e.medianStd = medianStd
	e.categories = categories
	e.lookup = lookup
	e.blockOffsets = offsets
	e.SetFitted()

	e.logger.Debug("encoder fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.CategoricalFeaturesKey, len(e.split.Categorical),
		log.EncodedFeaturesKey, offsets[len(offsets)-1],
		log.MinorityClassKey, minority,
		log.MinoritySamplesKey, len(minorityRows),
		log.MedianStdKey, medianStd,
	)
	return nil
}

// Transform は X を [連続値 | 指示子ブロック] に変換する
//
// *sparse.CSR を渡した場合は *sparse.CSR を、それ以外は *mat.Dense を返す。
// 学習時に見ていないカテゴリ値は全て0のブロックになる。
func (e *MixedDistanceEncoder) Transform(X mat.Matrix) (mat.Matrix, error) {
	const op = encoderName + ".Transform"
	if err := e.CheckFitted(encoderName, "Transform"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if cols != e.split.NFeatures {
		return nil, errors.NewDimensionError(op, e.split.NFeatures, cols, 1)
	}

	width := e.EncodedWidth()
	indicator := e.medianStd / 2

	if _, ok := X.(*sparse.CSR); ok {
		indptr := make([]int, rows+1)
		var (
			indices []int
			data    []float64
		)
		for i := 0; i < rows; i++ {
			for k, j := range e.split.Continuous {
				if v := X.At(i, j); v != 0 {
					indices = append(indices, k)
					data = append(data, v)
				}
			}
			for k, j := range e.split.Categorical {
				if c, ok := e.lookup[k][X.At(i, j)]; ok {
					indices = append(indices, e.blockOffsets[k]+c)
					data = append(data, indicator)
				}
			}
			indptr[i+1] = len(data)
		}
		return sparse.NewCSR(rows, width, indptr, indices, data), nil
	}

	out := mat.NewDense(rows, width, nil)
	parallel.ParallelizeWithThreshold(rows, transformParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for k, j := range e.split.Continuous {
				out.Set(i, k, X.At(i, j))
			}
			for k, j := range e.split.Categorical {
				if c, ok := e.lookup[k][X.At(i, j)]; ok {
					out.Set(i, e.blockOffsets[k]+c, indicator)
				}
			}
		}
	})
	return out, nil
}

// FitTransform は Fit と Transform を続けて実行する
func (e *MixedDistanceEncoder) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	if err := e.Fit(X, y); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// Inverse は2値化済みの指示子ブロック（n × 指示子列数）からカテゴリ値を復元する
//
// 各ブロックはちょうど一つの1と残りの0でなければならず、そうでない場合は DataShapeError。
// 戻り値は n × カテゴリ列数 の *mat.Dense。
func (e *MixedDistanceEncoder) Inverse(X mat.Matrix) (mat.Matrix, error) {
	const op = encoderName + ".Inverse"
	if err := e.CheckFitted(encoderName, "Inverse"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	nIndicators := e.EncodedWidth() - len(e.split.Continuous)
	if cols != nIndicators {
		return nil, errors.NewDimensionError(op, nIndicators, cols, 1)
	}
	if rows == 0 || len(e.categories) == 0 {
		return &mat.Dense{}, nil
	}

	base := e.blockOffsets[0]
	out := mat.NewDense(rows, len(e.categories), nil)
	for i := 0; i < rows; i++ {
		for k, values := range e.categories {
			start := e.blockOffsets[k] - base
			chosen := -1
			for c := range values {
				v := X.At(i, start+c)
				switch {
				case v == 0:
					continue
				case v == 1 && chosen < 0:
					chosen = c
				default:
					return nil, errors.NewDataShapeError(op, "indicator block is not one-hot")
				}
			}
			if chosen < 0 {
				return nil, errors.NewDataShapeError(op, "indicator block is not one-hot")
			}
			out.Set(i, k, values[chosen])
		}
	}
	return out, nil
}

// Split は学習に使った列分割を返す
func (e *MixedDistanceEncoder) Split() FeatureSplit {
	return e.split
}

// MedianStd は学習済みの median_std を返す
func (e *MixedDistanceEncoder) MedianStd() float64 {
	return e.medianStd
}

// MinorityClass は少数クラスのラベルを返す
func (e *MixedDistanceEncoder) MinorityClass() float64 {
	return e.minorityClass
}

// NMinority は少数クラスの行数を返す
func (e *MixedDistanceEncoder) NMinority() int {
	return e.nMinority
}

// Categories はカテゴリ列ごとの語彙のコピーを返す
func (e *MixedDistanceEncoder) Categories() [][]float64 {
	out := make([][]float64, len(e.categories))
	for k, v := range e.categories {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

// BlockOffsets は各指示子ブロックの開始列（末尾は出力の列数）を返す
func (e *MixedDistanceEncoder) BlockOffsets() []int {
	return append([]int(nil), e.blockOffsets...)
}

// EncodedWidth は変換後の列数を返す
func (e *MixedDistanceEncoder) EncodedWidth() int {
	if len(e.blockOffsets) == 0 {
		return len(e.split.Continuous)
	}
	return e.blockOffsets[len(e.blockOffsets)-1]
}

// GetParams はエンコーダの設定を返す
func (e *MixedDistanceEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_features":           e.split.NFeatures,
		"categorical_features": append([]int(nil), e.split.Categorical...),
	}
}

// minorityClass は出現数が最も少ないラベル（同数なら小さい方）とその行番号を返す
func minorityClass(y mat.Matrix, rows int) (float64, []int) {
	counts := make(map[float64][]int)
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		counts[v] = append(counts[v], i)
	}
	labels := make([]float64, 0, len(counts))
	for v := range counts {
		labels = append(labels, v)
	}
	sort.Float64s(labels)

	best := labels[0]
	for _, v := range labels[1:] {
		if len(counts[v]) < len(counts[best]) {
			best = v
		}
	}
	return best, counts[best]
}

// median は偶数個の場合に中央2値の平均を返す。x は並べ替えられる
func median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sort.Float64s(x)
	mid := len(x) / 2
	if len(x)%2 == 1 {
		return x[mid]
	}
	return (x[mid-1] + x[mid]) / 2
}
