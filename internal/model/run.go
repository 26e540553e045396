package model

import "time"

// RunKind distinguishes segmentation runs from clustering runs.
type RunKind string

const (
	RunKindSegment RunKind = "segment"
	RunKindCluster RunKind = "cluster"
)

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded pipeline invocation. Only metadata and a summary are
// persisted; result tables exist until exported and are never stored.
type Run struct {
	ID        string      `json:"id"`
	Kind      RunKind     `json:"kind"`
	Input     string      `json:"input"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the headline numbers of a completed run.
type RunSummary struct {
	Customers     int       `json:"customers"`
	Transactions  int       `json:"transactions,omitempty"`
	ReferenceDate time.Time `json:"reference_date,omitempty"`
	Segments      int       `json:"segments,omitempty"` // distinct RFV scores
	K             int       `json:"k,omitempty"`
	Silhouette    float64   `json:"silhouette,omitempty"`
}
