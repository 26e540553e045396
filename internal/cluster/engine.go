package cluster

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// Engine runs the clustering variant of the pipeline: standardize the
// metric columns, partition with seeded k-means, and score the result.
type Engine struct {
	MaxIterations int
	Seed          int64
}

// Result is the full output of one clustering run.
type Result struct {
	K           int                       `json:"k"`
	Assignments []model.ClusterAssignment `json:"assignments"`
	Profiles    []model.ClusterProfile    `json:"profiles"`
	Silhouette  float64                   `json:"silhouette"`
}

// Run clusters the customer population into k groups. k must be at least 2
// and at most the number of distinct customers, and the iteration cap must
// be positive; anything else is a ConfigurationError raised before any
// computation.
func (e Engine) Run(metrics []model.CustomerMetrics, k int) (*Result, error) {
	if e.MaxIterations < 1 {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("max iterations must be positive, got %d", e.MaxIterations)}
	}
	if k < 2 {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("cluster count must be at least 2, got %d", k)}
	}
	if k > len(metrics) {
		return nil, &model.ConfigurationError{
			Reason: fmt.Sprintf("cluster count %d exceeds number of distinct customers (%d)", k, len(metrics)),
		}
	}

	points := Standardize(metrics)

	km := KMeans{K: k, MaxIterations: e.MaxIterations, Seed: e.Seed}
	assign, _, err := km.Fit(points)
	if err != nil {
		return nil, err
	}

	assignments := make([]model.ClusterAssignment, len(metrics))
	for i, m := range metrics {
		assignments[i] = model.ClusterAssignment{CustomerID: m.CustomerID, Cluster: assign[i]}
	}

	result := &Result{
		K:           k,
		Assignments: assignments,
		Profiles:    profiles(metrics, assign, k),
		Silhouette:  Silhouette(points, assign, k),
	}

	zap.L().Info("cluster: partition complete",
		zap.Int("customers", len(metrics)),
		zap.Int("k", k),
		zap.Float64("silhouette", result.Silhouette),
	)

	return result, nil
}

// profiles computes the per-cluster mean of each raw metric. Cluster IDs
// are arbitrary k-means indices, so profiles carry computed means rather
// than any fixed id-to-description mapping.
func profiles(metrics []model.CustomerMetrics, assign []int, k int) []model.ClusterProfile {
	out := make([]model.ClusterProfile, k)
	for c := range out {
		out[c].Cluster = c
	}
	for i, m := range metrics {
		p := &out[assign[i]]
		p.Size++
		p.MeanRecency += float64(m.Recency)
		p.MeanFrequency += float64(m.Frequency)
		p.MeanValue += m.Value
	}
	for c := range out {
		if out[c].Size == 0 {
			continue
		}
		n := float64(out[c].Size)
		out[c].MeanRecency /= n
		out[c].MeanFrequency /= n
		out[c].MeanValue /= n
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cluster < out[j].Cluster })
	return out
}
