package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs returns points in two well-separated groups of four.
func twoBlobs() [][]float64 {
	return [][]float64{
		{0, 0, 0}, {0.1, 0, 0}, {0, 0.1, 0}, {0.1, 0.1, 0},
		{10, 10, 10}, {10.1, 10, 10}, {10, 10.1, 10}, {10.1, 10.1, 10},
	}
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	km := KMeans{K: 2, MaxIterations: 100, Seed: 42}

	assign, centroids, err := km.Fit(twoBlobs())
	require.NoError(t, err)
	require.Len(t, assign, 8)
	require.Len(t, centroids, 2)

	// All points of one blob share a cluster, and the blobs differ.
	for i := 1; i < 4; i++ {
		assert.Equal(t, assign[0], assign[i])
	}
	for i := 5; i < 8; i++ {
		assert.Equal(t, assign[4], assign[i])
	}
	assert.NotEqual(t, assign[0], assign[4])
}

func TestKMeans_Deterministic(t *testing.T) {
	km := KMeans{K: 3, MaxIterations: 100, Seed: 42}
	points := twoBlobs()

	first, _, err := km.Fit(points)
	require.NoError(t, err)
	second, _, err := km.Fit(points)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestKMeans_AssignmentRange(t *testing.T) {
	km := KMeans{K: 3, MaxIterations: 100, Seed: 7}

	assign, _, err := km.Fit(twoBlobs())
	require.NoError(t, err)

	counts := make([]int, 3)
	for _, c := range assign {
		require.GreaterOrEqual(t, c, 0)
		require.Less(t, c, 3)
		counts[c]++
	}
	for c, n := range counts {
		assert.Positive(t, n, "cluster %d is empty", c)
	}
}

func TestKMeans_TooFewPoints(t *testing.T) {
	km := KMeans{K: 5, MaxIterations: 100, Seed: 1}

	_, _, err := km.Fit([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Error(t, err)
}

func TestKMeans_KEqualsN(t *testing.T) {
	km := KMeans{K: 4, MaxIterations: 100, Seed: 1}
	points := [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}

	assign, _, err := km.Fit(points)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, c := range assign {
		assert.False(t, seen[c], "cluster %d assigned twice", c)
		seen[c] = true
	}
}
