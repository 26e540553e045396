// Package rfv computes Recency/Frequency/Value customer segmentation from a
// raw transaction ledger: per-customer metric aggregation, quartile-based
// grading, and marketing-action composition.
package rfv

import (
	"sort"
	"time"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// AggregateResult holds the per-customer metric table and the reference
// date it was computed against.
type AggregateResult struct {
	// ReferenceDate is the maximum purchase date across the whole ledger.
	// Recency is measured against it, not against wall-clock now, so the
	// same input always produces the same metrics.
	ReferenceDate time.Time
	Metrics       []model.CustomerMetrics
}

// Aggregate reduces a transaction ledger to one CustomerMetrics row per
// distinct customer. The input does not need to be sorted. Pure: the
// ledger is never mutated.
//
// Recency counts whole days between the customer's most recent purchase
// and the reference date, discarding fractional time. Frequency counts
// distinct purchase codes (repeated codes model line items of one order
// and count once). Value sums every transaction amount.
func Aggregate(txs []model.Transaction) (*AggregateResult, error) {
	if len(txs) == 0 {
		return nil, &model.ValidationError{Reason: "empty dataset: no transactions to aggregate"}
	}

	ref := txs[0].PurchaseDate
	for _, tx := range txs[1:] {
		if tx.PurchaseDate.After(ref) {
			ref = tx.PurchaseDate
		}
	}

	type acc struct {
		last  time.Time
		codes map[string]struct{}
		value float64
	}
	byCustomer := make(map[string]*acc)

	for _, tx := range txs {
		a, ok := byCustomer[tx.CustomerID]
		if !ok {
			a = &acc{codes: make(map[string]struct{})}
			byCustomer[tx.CustomerID] = a
		}
		if tx.PurchaseDate.After(a.last) {
			a.last = tx.PurchaseDate
		}
		a.codes[tx.PurchaseCode] = struct{}{}
		a.value += tx.Amount
	}

	metrics := make([]model.CustomerMetrics, 0, len(byCustomer))
	for id, a := range byCustomer {
		metrics = append(metrics, model.CustomerMetrics{
			CustomerID: id,
			Recency:    wholeDays(a.last, ref),
			Frequency:  len(a.codes),
			Value:      a.value,
		})
	}

	// Map iteration order is random; sort so repeated runs emit identical
	// tables.
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].CustomerID < metrics[j].CustomerID
	})

	return &AggregateResult{ReferenceDate: ref, Metrics: metrics}, nil
}

// wholeDays returns the floor of the day count between last and ref.
// last is never after ref since ref is the ledger maximum.
func wholeDays(last, ref time.Time) int {
	return int(ref.Sub(last) / (24 * time.Hour))
}
