package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthgen/core/dataset"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// FidelityReport は元データと合成データの統計的な近さ
type FidelityReport struct {
	// Columns は比較した数値列
	Columns []string
	// MeanMAE は列平均の差の平均絶対誤差
	MeanMAE float64
	// StdRMSE は列標準偏差の差の RMSE
	StdRMSE float64
	// CorrelationRMSE は相関係数（上三角）の差の RMSE。比較できる組がない場合は NaN
	CorrelationRMSE float64
}

// Compare は reference と synthetic の共通する数値列について統計量を比較する
//
// 使用例:
//
//	report, err := metrics.Compare(minority.CodesView(), synthetic.CodesView())
func Compare(reference, synthetic *dataset.Table) (*FidelityReport, error) {
	const op = "metrics.Compare"
	ref, err := Describe(reference)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	syn, err := Describe(synthetic)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	bySyn := make(map[string]ColumnSummary, len(syn))
	for _, s := range syn {
		bySyn[s.Name] = s
	}
	var (
		names                            []string
		refMean, synMean, refStd, synStd []float64
	)
	for _, r := range ref {
		s, ok := bySyn[r.Name]
		if !ok {
			continue
		}
		names = append(names, r.Name)
		refMean = append(refMean, r.Mean)
		synMean = append(synMean, s.Mean)
		refStd = append(refStd, zeroIfNaN(r.Std))
		synStd = append(synStd, zeroIfNaN(s.Std))
	}
	if len(names) == 0 {
		return nil, errors.NewDataShapeError(op, "tables share no numeric columns")
	}

	report := &FidelityReport{Columns: names, CorrelationRMSE: math.NaN()}
	if report.MeanMAE, err = MAE(mat.NewVecDense(len(names), refMean), mat.NewVecDense(len(names), synMean)); err != nil {
		return nil, err
	}
	if report.StdRMSE, err = RMSE(mat.NewVecDense(len(names), refStd), mat.NewVecDense(len(names), synStd)); err != nil {
		return nil, err
	}

	if reference.NRows() < 2 || synthetic.NRows() < 2 {
		return report, nil
	}
	refCorr, err := Correlation(reference)
	if err != nil {
		return nil, err
	}
	synCorr, err := Correlation(synthetic)
	if err != nil {
		return nil, err
	}
	var a, b []float64
	for i := 0; i < len(refCorr.Names); i++ {
		for j := i + 1; j < len(refCorr.Names); j++ {
			v, ok := synCorr.At(refCorr.Names[i], refCorr.Names[j])
			if !ok {
				continue
			}
			a = append(a, refCorr.Values.At(i, j))
			b = append(b, v)
		}
	}
	if len(a) > 0 {
		if report.CorrelationRMSE, err = RMSE(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b)); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
