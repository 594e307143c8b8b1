// Package metrics はテーブルの記述統計と、元データと合成データの近さを測る指標を提供する
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// ColumnSummary は数値列1列分の記述統計
type ColumnSummary struct {
	Name  string
	Count int
	Mean  float64
	// Std は標本標準偏差（ddof=1）。1行しかない場合は NaN
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
	// Mode は最頻値。複数ある場合は最小のもの
	Mode float64
}

// Describe は数値列（int と float）ごとの記述統計を返す
//
// カテゴリ列は対象外。カテゴリをコード値として集計したい場合は
// table.CodesView() を渡す。
func Describe(table *dataset.Table) ([]ColumnSummary, error) {
	if table == nil || table.NRows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "metrics.Describe")
	}

	var out []ColumnSummary
	for j := 0; j < table.NCols(); j++ {
		col := table.Column(j)
		if col.Kind == dataset.KindCategory {
			continue
		}
		out = append(out, summarize(col.Name, col.Values))
	}
	return out, nil
}

func summarize(name string, values []float64) ColumnSummary {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := ColumnSummary{
		Name:   name,
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Mode:   mode(sorted),
	}
	if len(sorted) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	} else {
		s.Mean, s.Std = floats.Sum(values), math.NaN()
	}
	return s
}

// quantile は線形補間による分位点を返す。sorted は昇順であること
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// mode は昇順の sorted から最頻値（同数なら最小値）を返す
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return best
}
