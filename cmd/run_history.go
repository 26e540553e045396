package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/segmetrics/rfv-cli/internal/model"
	"github.com/segmetrics/rfv-cli/internal/store"
)

// beginRun records the start of a run unless disabled. Store failures are
// logged, not fatal: run history is bookkeeping, not part of the pipeline.
func beginRun(ctx context.Context, kind model.RunKind, input string, noStore bool) (*model.Run, store.Store) {
	if noStore {
		return nil, nil
	}

	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
		return nil, nil
	}

	run, err := st.CreateRun(ctx, kind, input)
	if err != nil {
		zap.L().Warn("run history: create run", zap.Error(err))
		_ = st.Close()
		return nil, nil
	}
	return run, st
}

func completeRun(ctx context.Context, st store.Store, run *model.Run, summary *model.RunSummary) {
	if st == nil || run == nil {
		return
	}
	if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
		zap.L().Warn("run history: complete run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func failRun(ctx context.Context, st store.Store, run *model.Run, runErr error) {
	if st == nil || run == nil {
		return
	}
	if err := st.FailRun(ctx, run.ID, runErr); err != nil {
		zap.L().Warn("run history: fail run", zap.String("run_id", run.ID), zap.Error(err))
	}
}
