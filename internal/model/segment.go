package model

// Grade is a quartile bucket for a single metric. A is best, D is worst,
// with direction depending on the metric: low recency is good, high
// frequency and value are good.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// SegmentRow is a CustomerMetrics row with its derived segmentation columns.
type SegmentRow struct {
	CustomerID     string  `json:"customer_id"`
	Recency        int     `json:"recency"`
	Frequency      int     `json:"frequency"`
	Value          float64 `json:"value"`
	RecencyGrade   Grade   `json:"recency_grade"`
	FrequencyGrade Grade   `json:"frequency_grade"`
	ValueGrade     Grade   `json:"value_grade"`
	Score          string  `json:"score"`
	Action         string  `json:"action"`
}

// SegmentCount aggregates customers by (score, action) pair for reporting.
type SegmentCount struct {
	Score  string `json:"score"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// ClusterAssignment maps one customer to a cluster ID in [0, k).
type ClusterAssignment struct {
	CustomerID string `json:"customer_id"`
	Cluster    int    `json:"cluster"`
}

// ClusterProfile describes one cluster by its size and the mean of each raw
// metric over its members. Cluster IDs are arbitrary k-means indices; any
// human-readable labeling is left to the caller.
type ClusterProfile struct {
	Cluster       int     `json:"cluster"`
	Size          int     `json:"size"`
	MeanRecency   float64 `json:"mean_recency"`
	MeanFrequency float64 `json:"mean_frequency"`
	MeanValue     float64 `json:"mean_value"`
}
