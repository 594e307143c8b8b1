// Package over_sampling は不均衡データの少数クラスを近傍補間で水増しするリサンプラーを提供する
//
// SMOTE は連続値だけを扱う基本戦略で、SMOTENC は SMOTE に処理を委譲しつつ
// カテゴリ列の多数決による復元を加える。どちらも SampleGenerator を実装する。
package over_sampling

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthgen/core/model"
	"github.com/YuminosukeSato/synthgen/core/parallel"
	"github.com/YuminosukeSato/synthgen/core/sparse"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
)

// SampleTask は合成サンプル1行分の入力
type SampleTask struct {
	// Seed は起点となる少数クラス行（エンコード済み）
	Seed []float64
	// Neighbors は Seed の k 近傍すべて
	Neighbors [][]float64
	// Chosen は補間に使う近傍の Neighbors 内での位置
	Chosen int
	// Step は (0, 1) の補間係数
	Step float64
	// Rand はこのサンプル専用の乱数源
	Rand *rand.Rand
}

// SampleGenerator は合成サンプルの生成方法を表す
type SampleGenerator interface {
	// Validate は列数 nFeatures のデータを扱えるか検証する
	Validate(nFeatures int) error
	// GenerateSample は dst に合成サンプルを書き込む
	GenerateSample(dst []float64, task SampleTask) error
}

// SMOTE は連続値の特徴量だけを持つデータ向けの合成少数オーバーサンプリング
type SMOTE struct {
	// ハイパーパラメータ
	kNeighbors        int
	samplingStrategy  string
	randomState       int64
	parallelThreshold int
	logger            log.Logger

	// 学習結果
	minorityClass_ float64
	nMinority_     int
	nSynthetic_    int
}

var (
	_ SampleGenerator = (*SMOTE)(nil)
	_ SampleGenerator = (*SMOTENC)(nil)

	_ model.ConfigurableResampler = (*SMOTE)(nil)
	_ model.ConfigurableResampler = (*SMOTENC)(nil)
)

// NewSMOTE は新しい SMOTE を作成
//
// 使用例:
//
//	sm := over_sampling.NewSMOTE(over_sampling.WithKNeighbors(3), over_sampling.WithRandomState(42))
//	Xres, yres, err := sm.FitResample(ctx, X, y)
func NewSMOTE(opts ...Option) *SMOTE {
	s := &SMOTE{
		kNeighbors:        defaultKNeighbors,
		samplingStrategy:  StrategyAuto,
		randomState:       defaultRandomState,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("SMOTE")
	}
	return s
}

// Validate はハイパーパラメータを検証する
func (s *SMOTE) Validate(nFeatures int) error {
	const op = "SMOTE.Validate"
	if nFeatures < 1 {
		return errors.NewConfigurationError(op, "n_features", "must be positive", nFeatures)
	}
	if s.kNeighbors < 1 {
		return errors.NewConfigurationError(op, "k_neighbors", "must be at least 1", s.kNeighbors)
	}
	switch s.samplingStrategy {
	case StrategyAuto, StrategyMinority:
	default:
		return errors.NewConfigurationError(op, "sampling_strategy",
			"only binary balancing (\"auto\" or \"minority\") is supported", s.samplingStrategy)
	}
	return nil
}

// GenerateSample は Seed と選ばれた近傍の間を Step で線形補間する
func (s *SMOTE) GenerateSample(dst []float64, task SampleTask) error {
	nb := task.Neighbors[task.Chosen]
	if len(task.Seed) != len(dst) || len(nb) != len(dst) {
		return errors.NewDimensionError("SMOTE.GenerateSample", len(dst), len(task.Seed), 1)
	}
	for j, x := range task.Seed {
		dst[j] = x + task.Step*(nb[j]-x)
	}
	return nil
}

// FitResample は少数クラスを補間で増やし、元の行の後ろに合成行を連結して返す
func (s *SMOTE) FitResample(ctx context.Context, X, y mat.Matrix) (mat.Matrix, *mat.VecDense, error) {
	_, cols := X.Dims()
	if err := s.Validate(cols); err != nil {
		return nil, nil, err
	}
	labels, err := labelVector("SMOTE.FitResample", X, y)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.samplingTarget(labels)
	if err != nil {
		return nil, nil, errors.NewOversampleError("SMOTE.FitResample", err)
	}
	return s.resample(ctx, X, labels, target, s)
}

// GetParams はハイパーパラメータを返す
func (s *SMOTE) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k_neighbors":       s.kNeighbors,
		"sampling_strategy": s.samplingStrategy,
		"random_state":      s.randomState,
	}
}

// MinorityClass は直近の FitResample で選ばれた少数クラスを返す
func (s *SMOTE) MinorityClass() float64 { return s.minorityClass_ }

// NSynthetic は直近の FitResample で合成した行数を返す
func (s *SMOTE) NSynthetic() int { return s.nSynthetic_ }

// target は少数クラスと合成する行数
type target struct {
	class     float64
	rows      []int
	nSamples  int
	nMajority int
}

// samplingTarget は少数クラス（同数なら小さいラベル）と合成行数を決める
//
// ラベルが1種類しかない場合は同数の多数クラスが暗黙に存在するものとみなし、
// 行数を倍にする。
func (s *SMOTE) samplingTarget(labels []float64) (target, error) {
	const op = "SMOTE.samplingTarget"
	groups := make(map[float64][]int)
	for i, v := range labels {
		groups[v] = append(groups[v], i)
	}
	classes := make([]float64, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	minority, majority := classes[0], classes[0]
	for _, c := range classes[1:] {
		if len(groups[c]) < len(groups[minority]) {
			minority = c
		}
		if len(groups[c]) > len(groups[majority]) {
			majority = c
		}
	}

	t := target{class: minority, rows: groups[minority], nMajority: len(groups[majority])}
	if len(classes) == 1 {
		t.nSamples = len(t.rows)
	} else {
		t.nSamples = t.nMajority - len(t.rows)
	}

	if s.kNeighbors >= len(t.rows) {
		return target{}, errors.NewConfigurationError(op, "k_neighbors",
			"must be smaller than the number of minority samples", s.kNeighbors)
	}
	return t, nil
}

// draw は1サンプル分の乱数（起点行、近傍、補間係数、タイブレーク用シード）
type draw struct {
	row, col int
	step     float64
	seed     uint64
}

// resample は SMOTE と SMOTENC が共有する合成エンジン
//
// 乱数は乱数源から逐次に引き、サンプルの生成だけを並列化するので結果は
// 並列度に依存しない。X が *sparse.CSR の場合は *sparse.CSR を返す。
func (s *SMOTE) resample(ctx context.Context, X mat.Matrix, labels []float64, t target, gen SampleGenerator) (mat.Matrix, *mat.VecDense, error) {
	const op = "SMOTE.resample"
	start := time.Now()
	n, p := X.Dims()

	csr, isSparse := X.(*sparse.CSR)
	minority := make([][]float64, len(t.rows))
	for i, r := range t.rows {
		if isSparse {
			minority[i] = sparse.Row(nil, csr, r)
		} else {
			minority[i] = mat.Row(nil, r, X)
		}
	}

	nn, err := NearestNeighbors{K: s.kNeighbors, Threshold: s.parallelThreshold}.KNeighbors(ctx, minority)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, nil, errors.NewOversampleError(op, err)
	}

	seed := uint64(s.randomState)
	rng := rand.New(rand.NewPCG(seed, seed))
	draws := make([]draw, t.nSamples)
	for i := range draws {
		idx := rng.IntN(len(minority) * s.kNeighbors)
		step := rng.Float64()
		for step == 0 {
			step = rng.Float64()
		}
		draws[i] = draw{row: idx / s.kNeighbors, col: idx % s.kNeighbors, step: step, seed: rng.Uint64()}
	}

	samples := mat.NewDense(max(t.nSamples, 1), p, nil)
	err = parallel.Run(ctx, t.nSamples, s.parallelThreshold, op, func(ctx context.Context, lo, hi int) error {
		neighbors := make([][]float64, s.kNeighbors)
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			d := draws[i]
			for c, j := range nn[d.row] {
				neighbors[c] = minority[j]
			}
			task := SampleTask{
				Seed:      minority[d.row],
				Neighbors: neighbors,
				Chosen:    d.col,
				Step:      d.step,
				Rand:      rand.New(rand.NewPCG(d.seed, uint64(i))),
			}
			if err := gen.GenerateSample(samples.RawRowView(i), task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if t.nSamples > 0 {
		if err := errors.CheckMatrix(op, samples, t.nSamples, p); err != nil {
			return nil, nil, err
		}
	}

	yOut := mat.NewVecDense(n+t.nSamples, nil)
	for i, v := range labels {
		yOut.SetVec(i, v)
	}
	for i := n; i < n+t.nSamples; i++ {
		yOut.SetVec(i, t.class)
	}

	var out mat.Matrix
	switch {
	case isSparse && t.nSamples > 0:
		out = sparse.VStack(csr, sparse.NewCSRFromDense(samples))
	case isSparse:
		out = csr
	default:
		dense := mat.NewDense(n+max(t.nSamples, 0), p, nil)
		dense.Slice(0, n, 0, p).(*mat.Dense).Copy(X)
		if t.nSamples > 0 {
			dense.Slice(n, n+t.nSamples, 0, p).(*mat.Dense).Copy(samples)
		}
		out = dense
	}

	s.minorityClass_ = t.class
	s.nMinority_ = len(t.rows)
	s.nSynthetic_ = t.nSamples
	s.logger.Debug("resampling finished",
		log.OperationKey, log.OperationFitResample,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.SparseKey, isSparse,
		log.MinorityClassKey, t.class,
		log.MinoritySamplesKey, len(t.rows),
		log.SyntheticSamplesKey, t.nSamples,
		log.KNeighborsKey, s.kNeighbors,
		log.RandomSeedKey, s.randomState,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, yOut, nil
}

// labelVector は y（n × 1）を X の行数と突き合わせてスライスに変換する
func labelVector(op string, X, y mat.Matrix) ([]float64, error) {
	n, _ := X.Dims()
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	yRows, yCols := y.Dims()
	if yRows != n {
		return nil, errors.NewDimensionError(op, n, yRows, 0)
	}
	if yCols != 1 {
		return nil, errors.NewDimensionError(op, 1, yCols, 1)
	}
	labels := make([]float64, n)
	for i := range labels {
		labels[i] = y.At(i, 0)
	}
	return labels, nil
}
