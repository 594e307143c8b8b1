package preprocessing

import (
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFeatures(t *testing.T) {
	split, err := SplitFeatures(5, []int{4, 1, 4})
	require.NoError(t, err)

	assert.Equal(t, 5, split.NFeatures)
	assert.Equal(t, []int{1, 4}, split.Categorical)
	assert.Equal(t, []int{0, 2, 3}, split.Continuous)
	assert.Equal(t, []int{0, 2, 3, 1, 4}, split.Order())
	assert.True(t, split.IsCategorical(4))
	assert.False(t, split.IsCategorical(2))
}

func TestSplitFeaturesMask(t *testing.T) {
	split, err := SplitFeaturesMask([]bool{false, true, false})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, split.Categorical)
	assert.Equal(t, []int{0, 2}, split.Continuous)

	_, err = SplitFeaturesMaskN(4, []bool{false, true, false})
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSplitFeaturesErrors(t *testing.T) {
	tests := []struct {
		name        string
		n           int
		categorical []int
	}{
		{"negative index", 3, []int{-1}},
		{"index equal to n", 3, []int{3}},
		{"all categorical", 2, []int{0, 1}},
		{"no features", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitFeatures(tt.n, tt.categorical)
			var cfgErr *errors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "FeatureSplitter", cfgErr.Op)
		})
	}
}

// union is every index, intersection is empty
func TestSplitFeaturesPartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.IntN(40)
		var categorical []int
		for j := 0; j < n; j++ {
			if rng.IntN(2) == 0 {
				categorical = append(categorical, j)
			}
		}
		if len(categorical) == n {
			categorical = categorical[1:]
		}
		rng.Shuffle(len(categorical), func(a, b int) {
			categorical[a], categorical[b] = categorical[b], categorical[a]
		})

		split, err := SplitFeatures(n, categorical)
		require.NoError(t, err)

		seen := make([]int, n)
		for _, j := range split.Categorical {
			seen[j]++
		}
		for _, j := range split.Continuous {
			seen[j]++
		}
		for j, c := range seen {
			require.Equal(t, 1, c, "trial %d: index %d appears %d times", trial, j, c)
		}
		assert.IsIncreasing(t, split.Continuous)
		if len(split.Categorical) > 1 {
			assert.IsIncreasing(t, split.Categorical)
		}
	}
}
