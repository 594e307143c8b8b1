package over_sampling

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileCategoriesUnanimous(t *testing.T) {
	const h = 0.75
	// one continuous column, then blocks of size 3 and 2
	offsets := []int{1, 4, 6}
	neighbors := [][]float64{
		{10, 0, h, 0, h, 0},
		{11, 0, h, 0, 0, h},
		{12, 0, h, 0, h, 0},
	}
	dst := []float64{10.5, 0.2, 0.4, 0.1, 0.3, 0.3}

	ReconcileCategories(dst, neighbors, offsets, rand.New(rand.NewPCG(1, 1)))

	assert.Equal(t, []float64{10.5, 0, 1, 0, 1, 0}, dst)
}

func TestReconcileCategoriesAlwaysOneHot(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	offsets := []int{0, 4}
	for trial := 0; trial < 200; trial++ {
		neighbors := make([][]float64, 3)
		for k := range neighbors {
			row := make([]float64, 4)
			row[rng.IntN(4)] = 0.5
			neighbors[k] = row
		}
		dst := []float64{0.1, 0.2, 0.3, 0.4}
		ReconcileCategories(dst, neighbors, offsets, rng)

		ones := 0
		for _, v := range dst {
			switch v {
			case 1:
				ones++
			case 0:
			default:
				t.Fatalf("trial %d: unexpected value %v in %v", trial, v, dst)
			}
		}
		assert.Equal(t, 1, ones)
	}
}

func TestReconcileCategoriesTieBreakFairness(t *testing.T) {
	const trials = 4000
	offsets := []int{0, 2}
	neighbors := [][]float64{
		{0.5, 0},
		{0, 0.5},
	}
	rng := rand.New(rand.NewPCG(42, 42))

	counts := [2]int{}
	for i := 0; i < trials; i++ {
		dst := []float64{0, 0}
		ReconcileCategories(dst, neighbors, offsets, rng)
		if dst[0] == 1 {
			counts[0]++
		} else {
			counts[1]++
		}
	}

	for c, n := range counts {
		freq := float64(n) / trials
		assert.InDelta(t, 0.5, freq, 0.05, "category %d chosen with frequency %.3f", c, freq)
	}
}

func TestReconcileCategoriesNearTieWithinTolerance(t *testing.T) {
	offsets := []int{0, 2}
	neighbors := [][]float64{{1, 1 - 1e-12}}

	seen := map[int]bool{}
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 200; i++ {
		dst := []float64{0, 0}
		ReconcileCategories(dst, neighbors, offsets, rng)
		if dst[0] == 1 {
			seen[0] = true
		} else {
			seen[1] = true
		}
	}
	assert.True(t, seen[0] && seen[1], "values within tolerance of the maximum must both be eligible")
}

func TestReconcileCategoriesDeterministic(t *testing.T) {
	offsets := []int{0, 3}
	neighbors := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	run := func() []float64 {
		rng := rand.New(rand.NewPCG(5, 6))
		var picks []float64
		for i := 0; i < 20; i++ {
			dst := make([]float64, 3)
			ReconcileCategories(dst, neighbors, offsets, rng)
			for j, v := range dst {
				if v == 1 {
					picks = append(picks, float64(j))
				}
			}
		}
		return picks
	}
	assert.Equal(t, run(), run())
}
