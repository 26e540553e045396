// Package cluster partitions customers into behavioral groups by running
// seeded k-means over standardized RFV metrics and scoring the result with
// a mean silhouette.
package cluster

import (
	"math"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// Standardize transforms the three metric columns to zero mean and unit
// variance, computed over the given population only. Fit-and-apply-once:
// nothing is persisted between runs.
//
// A zero-variance column maps to all zeros rather than dividing by zero.
func Standardize(metrics []model.CustomerMetrics) [][]float64 {
	n := len(metrics)
	points := make([][]float64, n)
	for i, m := range metrics {
		points[i] = []float64{float64(m.Recency), float64(m.Frequency), m.Value}
	}
	if n == 0 {
		return points
	}

	for col := 0; col < 3; col++ {
		var sum float64
		for _, p := range points {
			sum += p[col]
		}
		mean := sum / float64(n)

		var sq float64
		for _, p := range points {
			d := p[col] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(n))
		if std == 0 {
			std = 1
		}

		for _, p := range points {
			p[col] = (p[col] - mean) / std
		}
	}

	return points
}
