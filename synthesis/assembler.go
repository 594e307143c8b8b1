// Package synthesis drives a complete synthetic-record run over a typed
// table: it validates the request, shuffles rows, resamples the minority
// class with SMOTE-NC and casts the synthesized rows back to the table's
// column names and kinds.
package synthesis

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/core/model"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/YuminosukeSato/synthgen/pkg/log"
	"github.com/YuminosukeSato/synthgen/pkg/monitoring"
	"github.com/YuminosukeSato/synthgen/sklearn/over_sampling"
)

// FlagColumn marks synthesized rows while the resampled table is filtered.
// It never appears in the returned table.
const FlagColumn = "__flag_value"

// DefaultKNeighbors is the neighbour count used when Config leaves it unset.
const DefaultKNeighbors = 6

// Config carries everything a run needs. It is passed by value and never
// read from global state.
type Config struct {
	// KNeighbors is the number of nearest minority neighbours (>= 1).
	KNeighbors int
	// RandomState seeds both the row shuffle and the resampler.
	RandomState int64
	// SamplingStrategy is "auto" or "minority".
	SamplingStrategy string
	// CategoricalColumns lists zero-based column positions. When nil, every
	// category-kind column of the table is used.
	CategoricalColumns []int
	// Sparse runs the resampler on a CSR matrix instead of a dense one.
	Sparse bool
}

// DefaultConfig returns a Config with the default neighbour count and the
// "auto" strategy.
func DefaultConfig() Config {
	return Config{
		KNeighbors:       DefaultKNeighbors,
		SamplingStrategy: over_sampling.StrategyAuto,
	}
}

// Report describes a finished run.
type Report struct {
	RunID         uuid.UUID
	InputRows     int
	SyntheticRows int
	MinorityClass float64
	MinorityRows  int
	MedianStd     float64
	Duration      time.Duration
}

// Assembler runs synthesis over tables.
type Assembler struct {
	cfg     Config
	logger  log.Logger
	metrics *monitoring.Metrics
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. Defaults to log.GetLoggerWithName("synthesis").
func WithLogger(l log.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// WithMetrics records every run into m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(a *Assembler) {
		a.metrics = m
	}
}

// NewAssembler creates an Assembler. A zero KNeighbors or empty strategy is
// replaced by the defaults.
func NewAssembler(cfg Config, opts ...Option) *Assembler {
	if cfg.KNeighbors == 0 {
		cfg.KNeighbors = DefaultKNeighbors
	}
	if cfg.SamplingStrategy == "" {
		cfg.SamplingStrategy = over_sampling.StrategyAuto
	}
	a := &Assembler{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.GetLoggerWithName("synthesis")
	}
	return a
}

// Config returns the effective configuration.
func (a *Assembler) Config() Config {
	return a.cfg
}

// Synthesize returns a table holding only the synthesized rows, with the
// same column names, kinds and order as table.
//
// labels assigns a class to every row. When nil, every row gets label 0 and
// the single class is doubled. A run either returns the complete result or an
// error; partial output is never returned.
func (a *Assembler) Synthesize(ctx context.Context, table *dataset.Table, labels []float64) (out *dataset.Table, report *Report, err error) {
	start := time.Now()
	report = &Report{RunID: uuid.New()}
	logger := a.logger.With(log.RunIDKey, report.RunID.String())

	defer func() {
		report.Duration = time.Since(start)
		if a.metrics != nil {
			a.metrics.ObserveRun(err, monitoring.RunStats{
				InputRows:     report.InputRows,
				SyntheticRows: report.SyntheticRows,
				MinorityRows:  report.MinorityRows,
				MedianStd:     report.MedianStd,
				Duration:      report.Duration,
			})
		}
		if err != nil {
			logger.Error("synthesis failed", err, log.OperationKey, log.OperationSynthesize)
			out = nil
		}
	}()

	positions, err := a.validate(table, labels)
	if err != nil {
		return nil, report, err
	}
	n := table.NRows()
	report.InputRows = n

	if labels == nil {
		labels = make([]float64, n)
	}

	logger.Info("synthesis started",
		log.OperationKey, log.OperationSynthesize,
		log.SamplesKey, n,
		log.FeaturesKey, table.NCols(),
		log.CategoricalFeaturesKey, len(positions),
		log.KNeighborsKey, a.cfg.KNeighbors,
		log.SamplingStrategyKey, a.cfg.SamplingStrategy,
		log.RandomSeedKey, a.cfg.RandomState,
		log.SparseKey, a.cfg.Sparse,
	)

	// shuffle rows and labels together
	seed := uint64(a.cfg.RandomState)
	perm := rand.New(rand.NewPCG(seed, seed+1)).Perm(n)
	shuffled := table.Take(perm)
	y := mat.NewDense(n, 1, nil)
	for i, p := range perm {
		y.Set(i, 0, labels[p])
	}

	var X mat.Matrix = shuffled.ToMatrix()
	if a.cfg.Sparse {
		X = shuffled.ToCSR()
	}

	smote := over_sampling.NewSMOTENC(positions,
		over_sampling.WithKNeighbors(a.cfg.KNeighbors),
		over_sampling.WithRandomState(a.cfg.RandomState),
		over_sampling.WithSamplingStrategy(a.cfg.SamplingStrategy),
		over_sampling.WithLogger(logger),
	)
	var resampler model.ConfigurableResampler = smote
	logger.Debug("resampler configured", "params", resampler.GetParams())

	resampled, _, err := resampler.FitResample(ctx, X, y)
	if err != nil {
		return nil, report, err
	}
	report.MinorityClass = smote.MinorityClass()
	report.MinorityRows = smote.Encoder().NMinority()
	report.MedianStd = smote.MedianStd()

	var minority []int
	for i := 0; i < n; i++ {
		if y.At(i, 0) == report.MinorityClass {
			minority = append(minority, i)
		}
	}
	values := mat.DenseCopyOf(resampled)
	snapIntColumns(values, shuffled, minority, n)

	casted, err := dataset.FromMatrix(values, shuffled)
	if err != nil {
		return nil, report, err
	}

	total := casted.NRows()
	flags := make([]int, total)
	for i := n; i < total; i++ {
		flags[i] = 1
	}
	flagged, err := casted.AddColumn(dataset.NewIntColumn(FlagColumn, flags))
	if err != nil {
		return nil, report, err
	}
	flag, _ := flagged.ColumnByName(FlagColumn)
	synthetic := flagged.Filter(func(i int) bool { return flag.Values[i] == 1 }).Drop(FlagColumn)

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	report.SyntheticRows = synthetic.NRows()
	logger.Info("synthesis finished",
		log.OperationKey, log.OperationSynthesize,
		log.SyntheticSamplesKey, report.SyntheticRows,
		log.MinorityClassKey, report.MinorityClass,
		log.MedianStdKey, report.MedianStd,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return synthetic, report, nil
}

// snapIntColumns rounds the synthetic rows (from onwards) of int columns to
// the nearest integer. A value strictly inside the minority range stays
// strictly inside it whenever the range holds an integer.
func snapIntColumns(m *mat.Dense, like *dataset.Table, minority []int, from int) {
	if len(minority) == 0 {
		return
	}
	rows, _ := m.Dims()
	for j := 0; j < like.NCols(); j++ {
		col := like.Column(j)
		if col.Kind != dataset.KindInt {
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range minority {
			lo = math.Min(lo, col.Values[r])
			hi = math.Max(hi, col.Values[r])
		}
		for i := from; i < rows; i++ {
			raw := m.At(i, j)
			v := math.Round(raw)
			if raw > lo && raw < hi && hi-lo >= 2 {
				v = math.Max(lo+1, math.Min(hi-1, v))
			}
			m.Set(i, j, v)
		}
	}
}

// validate checks the request before any work starts and returns the
// categorical positions to use.
func (a *Assembler) validate(table *dataset.Table, labels []float64) ([]int, error) {
	const op = "Assembler.Synthesize"
	if a.cfg.KNeighbors < 1 {
		return nil, errors.NewConfigurationError(op, "k_neighbors", "must be at least 1", a.cfg.KNeighbors)
	}
	switch a.cfg.SamplingStrategy {
	case over_sampling.StrategyAuto, over_sampling.StrategyMinority:
	default:
		return nil, errors.NewConfigurationError(op, "sampling_strategy",
			"only binary balancing (\"auto\" or \"minority\") is supported", a.cfg.SamplingStrategy)
	}
	if table == nil || table.NRows() == 0 || table.NCols() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if labels != nil && len(labels) != table.NRows() {
		return nil, errors.NewDimensionError(op, table.NRows(), len(labels), 0)
	}
	if table.Position(FlagColumn) >= 0 {
		return nil, errors.NewDataShapeError(op, "column name "+strconv.Quote(FlagColumn)+" is reserved")
	}

	positions := a.cfg.CategoricalColumns
	if positions == nil {
		positions = table.CategoricalPositions()
	}
	selected := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= table.NCols() {
			return nil, errors.NewDataShapeError(op,
				"categorical position "+strconv.Itoa(p)+" is outside the table's "+strconv.Itoa(table.NCols())+" columns")
		}
		selected[p] = true
	}
	for _, p := range table.CategoricalPositions() {
		if !selected[p] {
			return nil, errors.NewDataShapeError(op,
				"category column "+strconv.Quote(table.Column(p).Name)+" is not listed as categorical")
		}
	}
	return positions, nil
}
