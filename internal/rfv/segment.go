package rfv

import (
	"time"

	"go.uber.org/zap"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// SegmentResult is the full output of one segmentation run.
type SegmentResult struct {
	ReferenceDate time.Time            `json:"reference_date"`
	Quartiles     QuartileTable        `json:"quartiles"`
	Rows          []model.SegmentRow   `json:"rows"`
	Counts        []model.SegmentCount `json:"counts"`
}

// Segment runs the whole pipeline over a ledger: aggregate to per-customer
// metrics, compute quartiles, grade, compose scores, and resolve actions.
// Synchronous and batch; all state is recomputed fresh from the input.
func Segment(txs []model.Transaction, actions ActionMap) (*SegmentResult, error) {
	agg, err := Aggregate(txs)
	if err != nil {
		return nil, err
	}

	table, err := ComputeQuartiles(agg.Metrics)
	if err != nil {
		return nil, err
	}

	rows := Classify(agg.Metrics, table)
	ApplyActions(rows, actions)

	result := &SegmentResult{
		ReferenceDate: agg.ReferenceDate,
		Quartiles:     table,
		Rows:          rows,
		Counts:        CountSegments(rows),
	}

	zap.L().Info("rfv: segmentation complete",
		zap.Int("transactions", len(txs)),
		zap.Int("customers", len(rows)),
		zap.Int("segments", len(result.Counts)),
		zap.Time("reference_date", agg.ReferenceDate),
	)

	return result, nil
}
