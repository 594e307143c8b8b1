package over_sampling

import (
	"context"
	"testing"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKNeighbors(t *testing.T) {
	rows := [][]float64{{0}, {1}, {3}, {10}}

	got, err := NearestNeighbors{K: 2}.KNeighbors(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, [][]int{
		{1, 2},
		{0, 2},
		{1, 0},
		{2, 1},
	}, got)
}

func TestKNeighborsTieBreaksByIndex(t *testing.T) {
	rows := [][]float64{{0, 0}, {1, 0}, {-1, 0}, {0, 1}}

	got, err := NearestNeighbors{K: 3}.KNeighbors(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got[0])
}

func TestKNeighborsParallelMatchesSequential(t *testing.T) {
	rows := make([][]float64, 50)
	for i := range rows {
		rows[i] = []float64{float64((i * 37) % 23), float64((i * 11) % 7)}
	}

	seq, err := NearestNeighbors{K: 4, Threshold: 1000}.KNeighbors(context.Background(), rows)
	require.NoError(t, err)
	par, err := NearestNeighbors{K: 4, Threshold: 0}.KNeighbors(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestKNeighborsErrors(t *testing.T) {
	rows := [][]float64{{0}, {1}}

	_, err := NearestNeighbors{K: 2}.KNeighbors(context.Background(), rows)
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NearestNeighbors{K: 0}.KNeighbors(context.Background(), rows)
	assert.True(t, errors.As(err, &cfgErr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NearestNeighbors{K: 1}.KNeighbors(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
}
