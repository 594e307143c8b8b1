package over_sampling

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

// ReconcileCategories は合成サンプル dst の各指示子ブロックを近傍の多数決で確定する
//
// offsets はブロック境界（先頭は連続値列の数、末尾は全列数）。ブロックごとに
// 近傍の指示子列を足し合わせ、最大値と許容誤差内で等しい列の中から rng で一様に
// 1列を選ぶ。選ばれた列を1、残りを0にする。
func ReconcileCategories(dst []float64, neighbors [][]float64, offsets []int, rng *rand.Rand) {
	if len(offsets) < 2 {
		return
	}
	sums := make([]float64, offsets[len(offsets)-1]-offsets[0])
	candidates := make([]int, 0, len(sums))
	for b := 0; b+1 < len(offsets); b++ {
		start, end := offsets[b], offsets[b+1]
		if start == end {
			continue
		}
		block := sums[start-offsets[0] : end-offsets[0]]
		for _, nb := range neighbors {
			floats.Add(block, nb[start:end])
		}

		top := floats.Max(block)
		candidates = candidates[:0]
		for c, v := range block {
			if errors.IsClose(v, top) {
				candidates = append(candidates, c)
			}
		}
		chosen := candidates[rng.IntN(len(candidates))]

		for j := start; j < end; j++ {
			dst[j] = 0
		}
		dst[start+chosen] = 1
	}
}
