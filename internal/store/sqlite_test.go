package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmetrics/rfv-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.RunKindSegment, "compras.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunKindSegment, got.Kind)
	assert.Equal(t, "compras.csv", got.Input)
	assert.Nil(t, got.Summary)
}

func TestSQLite_CompleteRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.RunKindSegment, "compras.csv")
	require.NoError(t, err)

	summary := &model.RunSummary{
		Customers:     120,
		Transactions:  950,
		ReferenceDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Segments:      14,
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, summary))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 120, got.Summary.Customers)
	assert.Equal(t, 14, got.Summary.Segments)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.RunKindCluster, "metricas.csv")
	require.NoError(t, err)

	require.NoError(t, st.FailRun(ctx, run.ID, eris.New("configuration: cluster count must be at least 2, got 1")))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "cluster count")
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.CompleteRun(ctx, "nonexistent", &model.RunSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = st.FailRun(ctx, "nonexistent", eris.New("boom"))
	require.Error(t, err)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	seg, err := st.CreateRun(ctx, model.RunKindSegment, "a.csv")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.RunKindCluster, "b.csv")
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, seg.ID, &model.RunSummary{Customers: 5}))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	segs, err := st.ListRuns(ctx, RunFilter{Kind: model.RunKindSegment})
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, seg.ID, segs[0].ID)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	require.NotNil(t, complete[0].Summary)
	assert.Equal(t, 5, complete[0].Summary.Customers)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_GetRunNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
}
