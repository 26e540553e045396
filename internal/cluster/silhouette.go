package cluster

import "math"

// Silhouette computes the mean silhouette coefficient of an assignment
// over the given feature space. The result is in [-1, 1]; higher means
// better-separated clusters.
//
// Per point: a = mean distance to the other members of its own cluster,
// b = the smallest mean distance to any other cluster, s = (b-a)/max(a,b).
// Points in singleton clusters score 0 by convention.
func Silhouette(points [][]float64, assign []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}

	sizes := make([]int, k)
	for _, c := range assign {
		sizes[c]++
	}

	var total float64
	for i, p := range points {
		own := assign[i]
		if sizes[own] <= 1 {
			continue // s(i) = 0
		}

		// Sum of distances from point i to each cluster.
		dist := make([]float64, k)
		for j, q := range points {
			if i == j {
				continue
			}
			dist[assign[j]] += math.Sqrt(sqDist(p, q))
		}

		a := dist[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if m := dist[c] / float64(sizes[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}

	return total / float64(n)
}
