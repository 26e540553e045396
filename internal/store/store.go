// Package store persists run history. Two backends implement the same
// interface: SQLite (default, zero-setup) and Postgres.
package store

import (
	"context"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   model.RunKind   `json:"kind,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history. Only run
// metadata and summaries are stored; result tables are export-only.
type Store interface {
	CreateRun(ctx context.Context, kind model.RunKind, input string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
