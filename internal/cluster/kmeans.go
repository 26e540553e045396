package cluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
)

// KMeans is a self-contained, seeded implementation of Lloyd's algorithm.
// The fixed seed makes repeated runs on identical input produce identical
// assignments, independent of any numeric library.
type KMeans struct {
	K             int
	MaxIterations int
	Seed          int64
}

// Fit partitions points into K clusters and returns the assignment of each
// point plus the final centroids. len(points) must be >= K; the caller
// validates that before getting here.
func (km KMeans) Fit(points [][]float64) ([]int, [][]float64, error) {
	n := len(points)
	if n < km.K {
		return nil, nil, eris.Errorf("kmeans: %d points for %d clusters", n, km.K)
	}

	// Initial centroids: K distinct points chosen by the seeded generator.
	rng := rand.New(rand.NewSource(km.Seed))
	perm := rng.Perm(n)
	centroids := make([][]float64, km.K)
	for c := 0; c < km.K; c++ {
		centroids[c] = append([]float64(nil), points[perm[c]]...)
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < km.MaxIterations; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		recompute(points, assign, centroids)
		repairEmpty(points, assign, centroids)
	}

	return assign, centroids, nil
}

// nearest returns the index of the closest centroid, ties broken toward
// the lowest index.
func nearest(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// recompute re-estimates each centroid as the mean of its members. Empty
// clusters keep their previous centroid until repairEmpty runs.
func recompute(points [][]float64, assign []int, centroids [][]float64) {
	dim := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := assign[i]
		counts[c]++
		for j, v := range p {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

// repairEmpty moves each empty cluster's centroid onto the point farthest
// from its current centroid, so every cluster ID stays populated.
func repairEmpty(points [][]float64, assign []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	for _, c := range assign {
		counts[c]++
	}
	for c, count := range counts {
		if count > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if counts[assign[i]] <= 1 {
				continue // don't empty another cluster
			}
			if d := sqDist(p, centroids[assign[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			continue
		}
		counts[assign[far]]--
		assign[far] = c
		counts[c]++
		centroids[c] = append([]float64(nil), points[far]...)
	}
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
