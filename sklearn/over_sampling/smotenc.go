package over_sampling

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
	"github.com/YuminosukeSato/synthgen/preprocessing"
)

// SMOTENC は連続値列とカテゴリ列が混在するデータ向けの SMOTE
//
// 連続値は SMOTE と同じく補間し、カテゴリ列は近傍の多数決で決める。
// 距離計算のためにカテゴリ列を median_std/2 でスケールした指示子に展開し、
// 合成後に元の値へ戻して列順を復元する。
type SMOTENC struct {
	smote *SMOTE

	categorical []int
	mask        []bool

	// 学習結果
	split_     preprocessing.FeatureSplit
	encoder_   *preprocessing.MixedDistanceEncoder
	reorderer_ *ColumnReorderer
}

// NewSMOTENC はカテゴリ列のインデックスを指定して SMOTENC を作成
//
// 使用例:
//
//	sm := over_sampling.NewSMOTENC([]int{1}, over_sampling.WithKNeighbors(1), over_sampling.WithRandomState(42))
//	Xres, yres, err := sm.FitResample(ctx, X, y)
func NewSMOTENC(categorical []int, opts ...Option) *SMOTENC {
	return &SMOTENC{
		smote:       NewSMOTE(opts...),
		categorical: append([]int(nil), categorical...),
	}
}

// NewSMOTENCWithMask はカテゴリ列をブールマスクで指定して SMOTENC を作成
func NewSMOTENCWithMask(mask []bool, opts ...Option) *SMOTENC {
	return &SMOTENC{
		smote: NewSMOTE(opts...),
		mask:  append([]bool(nil), mask...),
	}
}

// Validate はカテゴリ列の指定とハイパーパラメータを検証し、列分割を確定する
func (s *SMOTENC) Validate(nFeatures int) error {
	if err := s.smote.Validate(nFeatures); err != nil {
		return err
	}
	var (
		split preprocessing.FeatureSplit
		err   error
	)
	if s.mask != nil {
		split, err = preprocessing.SplitFeaturesMaskN(nFeatures, s.mask)
	} else {
		split, err = preprocessing.SplitFeatures(nFeatures, s.categorical)
	}
	if err != nil {
		return err
	}
	reorderer, err := NewColumnReorderer(split.Continuous, split.Categorical)
	if err != nil {
		return err
	}
	s.split_ = split
	s.reorderer_ = reorderer
	return nil
}

// GenerateSample は SMOTE の補間を行ったあと、指示子ブロックを多数決で確定する
func (s *SMOTENC) GenerateSample(dst []float64, task SampleTask) error {
	if err := s.smote.GenerateSample(dst, task); err != nil {
		return err
	}
	ReconcileCategories(dst, task.Neighbors, s.encoder_.BlockOffsets(), task.Rand)
	return nil
}

// FitResample は X（元の列順、カテゴリ列はコード値）を再標本化する
//
// 戻り値の行列は元の行の後ろに合成行を連結したもので、列順とカテゴリ値の表現は
// 入力と同じ。*sparse.CSR を渡した場合は *sparse.CSR を返す。
func (s *SMOTENC) FitResample(ctx context.Context, X, y mat.Matrix) (mat.Matrix, *mat.VecDense, error) {
	const op = "SMOTENC.FitResample"
	_, cols := X.Dims()
	if err := s.Validate(cols); err != nil {
		return nil, nil, err
	}
	labels, err := labelVector(op, X, y)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.smote.samplingTarget(labels)
	if err != nil {
		return nil, nil, errors.NewOversampleError(op, err)
	}

	s.encoder_ = preprocessing.NewMixedDistanceEncoder(s.split_, preprocessing.WithEncoderLogger(s.smote.logger))
	yCol := mat.NewDense(len(labels), 1, labels)
	encoded, err := s.encoder_.FitTransform(X, yCol)
	if err != nil {
		return nil, nil, err
	}

	resampled, yOut, err := s.smote.resample(ctx, encoded, labels, target, s)
	if err != nil {
		return nil, nil, err
	}

	decoded, err := s.decode(resampled)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.reorderer_.Reorder(decoded)
	if err != nil {
		return nil, nil, err
	}

	s.smote.logger.Info("SMOTENC resampling finished",
		log.OperationKey, log.OperationFitResample,
		log.CategoricalFeaturesKey, len(s.split_.Categorical),
		log.MedianStdKey, s.encoder_.MedianStd(),
		log.SyntheticSamplesKey, target.nSamples,
	)
	return out, yOut, nil
}

// decode は [連続値 | 指示子ブロック] を [連続値 | カテゴリ値] に戻す
// 元データの行は median_std/2 の指示子を持つので、非ゼロを1とみなしてから復元する
func (s *SMOTENC) decode(m mat.Matrix) (mat.Matrix, error) {
	rows, width := m.Dims()
	nCont := len(s.split_.Continuous)
	nCat := len(s.split_.Categorical)

	continuous := mat.NewDense(rows, nCont, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < nCont; j++ {
			continuous.Set(i, j, m.At(i, j))
		}
	}

	var categories mat.Matrix
	if nCat > 0 {
		indicators := mat.NewDense(rows, width-nCont, nil)
		for i := 0; i < rows; i++ {
			for j := nCont; j < width; j++ {
				if m.At(i, j) != 0 {
					indicators.Set(i, j-nCont, 1)
				}
			}
		}
		var err error
		categories, err = s.encoder_.Inverse(indicators)
		if err != nil {
			return nil, err
		}
	}

	out := mat.NewDense(rows, nCont+nCat, nil)
	out.Slice(0, rows, 0, nCont).(*mat.Dense).Copy(continuous)
	if nCat > 0 {
		out.Slice(0, rows, nCont, nCont+nCat).(*mat.Dense).Copy(categories)
	}

	if _, ok := m.(*sparse.CSR); ok {
		return sparse.NewCSRFromDense(out), nil
	}
	return out, nil
}

// Encoder は直近の FitResample で学習したエンコーダを返す
func (s *SMOTENC) Encoder() *preprocessing.MixedDistanceEncoder { return s.encoder_ }

// Split は直近の FitResample で使った列分割を返す
func (s *SMOTENC) Split() preprocessing.FeatureSplit { return s.split_ }

// MedianStd は直近の FitResample で求めた median_std を返す
func (s *SMOTENC) MedianStd() float64 {
	if s.encoder_ == nil {
		return 0
	}
	return s.encoder_.MedianStd()
}

// MinorityClass は直近の FitResample で選ばれた少数クラスを返す
func (s *SMOTENC) MinorityClass() float64 { return s.smote.MinorityClass() }

// NSynthetic は直近の FitResample で合成した行数を返す
func (s *SMOTENC) NSynthetic() int { return s.smote.NSynthetic() }

// GetParams はハイパーパラメータを返す
func (s *SMOTENC) GetParams() map[string]interface{} {
	params := s.smote.GetParams()
	if s.mask != nil {
		params["categorical_features"] = append([]bool(nil), s.mask...)
	} else {
		params["categorical_features"] = append([]int(nil), s.categorical...)
	}
	return params
}
