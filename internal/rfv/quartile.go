package rfv

import (
	"math"
	"sort"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// Quartiles holds the 25th, 50th and 75th percentile boundaries of one
// metric over the full customer population. Boundaries are non-decreasing;
// duplicate values can collapse them to the same number.
type Quartiles struct {
	Q25 float64 `json:"q25"`
	Q50 float64 `json:"q50"`
	Q75 float64 `json:"q75"`
}

// QuartileTable holds the quartile boundaries for all three metrics.
type QuartileTable struct {
	Recency   Quartiles `json:"recency"`
	Frequency Quartiles `json:"frequency"`
	Value     Quartiles `json:"value"`
}

// ComputeQuartiles computes the per-metric quartile boundaries over the
// given population. Fewer than four customers is legal: boundaries simply
// degenerate toward duplicate values.
func ComputeQuartiles(metrics []model.CustomerMetrics) (QuartileTable, error) {
	if len(metrics) == 0 {
		return QuartileTable{}, &model.ValidationError{Reason: "empty dataset: no customer metrics"}
	}

	rec := make([]float64, len(metrics))
	freq := make([]float64, len(metrics))
	val := make([]float64, len(metrics))
	for i, m := range metrics {
		rec[i] = float64(m.Recency)
		freq[i] = float64(m.Frequency)
		val[i] = m.Value
	}

	return QuartileTable{
		Recency:   quartilesOf(rec),
		Frequency: quartilesOf(freq),
		Value:     quartilesOf(val),
	}, nil
}

func quartilesOf(values []float64) Quartiles {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Quartiles{
		Q25: quantile(sorted, 0.25),
		Q50: quantile(sorted, 0.50),
		Q75: quantile(sorted, 0.75),
	}
}

// quantile computes the linear-interpolated quantile of a sorted slice:
// for rank position r = q*(n-1), interpolate between floor(r) and ceil(r).
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	r := q * float64(n-1)
	lo := int(math.Floor(r))
	hi := int(math.Ceil(r))
	if lo == hi {
		return sorted[lo]
	}
	frac := r - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// GradeLowerBetter grades a metric where smaller values are better
// (recency): x ≤ Q25 is A, then B, C, and D above Q75. Boundaries are
// inclusive on the upper side, so a value equal to a quartile falls into
// the better bucket.
func GradeLowerBetter(x float64, q Quartiles) model.Grade {
	switch {
	case x <= q.Q25:
		return model.GradeA
	case x <= q.Q50:
		return model.GradeB
	case x <= q.Q75:
		return model.GradeC
	default:
		return model.GradeD
	}
}

// GradeHigherBetter grades a metric where larger values are better
// (frequency, value): x ≤ Q25 is D, then C, B, and A above Q75. The same
// inclusive upper bound applies, so a value equal to a quartile falls into
// the worse bucket.
func GradeHigherBetter(x float64, q Quartiles) model.Grade {
	switch {
	case x <= q.Q25:
		return model.GradeD
	case x <= q.Q50:
		return model.GradeC
	case x <= q.Q75:
		return model.GradeB
	default:
		return model.GradeA
	}
}

// Classify assigns the three per-metric grades and the composite score to
// every customer. It is a pure function of the metrics and the explicit
// quartile table; grading the same population twice yields identical rows.
// Actions are filled in separately by ApplyActions.
func Classify(metrics []model.CustomerMetrics, table QuartileTable) []model.SegmentRow {
	rows := make([]model.SegmentRow, len(metrics))
	for i, m := range metrics {
		r := GradeLowerBetter(float64(m.Recency), table.Recency)
		f := GradeHigherBetter(float64(m.Frequency), table.Frequency)
		v := GradeHigherBetter(m.Value, table.Value)
		rows[i] = model.SegmentRow{
			CustomerID:     m.CustomerID,
			Recency:        m.Recency,
			Frequency:      m.Frequency,
			Value:          m.Value,
			RecencyGrade:   r,
			FrequencyGrade: f,
			ValueGrade:     v,
			Score:          Compose(r, f, v),
		}
	}
	return rows
}

// Compose concatenates the three grades in fixed R, F, V order.
func Compose(r, f, v model.Grade) string {
	return string(r) + string(f) + string(v)
}
