package over_sampling

import (
	"context"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/synthgen/core/parallel"
	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// NearestNeighbors は総当たりで k 近傍を求める
//
// 各行について自分自身を除いた k 行を距離の昇順で返す。距離が等しい場合は
// 行番号の小さい方を優先するので、結果は入力順だけで決まる。
type NearestNeighbors struct {
	K int

	// Threshold 以下の行数では並列化しない
	Threshold int
}

// KNeighbors は rows の各行に対する近傍の行番号（len(rows) × K）を返す
func (nn NearestNeighbors) KNeighbors(ctx context.Context, rows [][]float64) ([][]int, error) {
	const op = "NearestNeighbors.KNeighbors"
	n := len(rows)
	if nn.K < 1 {
		return nil, errors.NewConfigurationError(op, "k_neighbors", "must be at least 1", nn.K)
	}
	if nn.K >= n {
		return nil, errors.NewConfigurationError(op, "k_neighbors",
			"must be smaller than the number of minority samples ("+strconv.Itoa(n)+")", nn.K)
	}

	result := make([][]int, n)
	err := parallel.Run(ctx, n, nn.Threshold, op, func(ctx context.Context, start, end int) error {
		dist := make([]float64, n)
		cand := make([]int, 0, n-1)
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			cand = cand[:0]
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				dist[j] = floats.Distance(rows[i], rows[j], 2)
				cand = append(cand, j)
			}
			sort.SliceStable(cand, func(a, b int) bool {
				return dist[cand[a]] < dist[cand[b]]
			})
			result[i] = append([]int(nil), cand[:nn.K]...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
