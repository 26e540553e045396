// Package model holds the core data types shared across the RFV pipeline.
package model

import "time"

// Transaction is one row of the raw purchase ledger. Immutable input:
// nothing downstream mutates transactions.
type Transaction struct {
	CustomerID   string    `json:"customer_id"`
	PurchaseDate time.Time `json:"purchase_date"`
	PurchaseCode string    `json:"purchase_code"`
	Amount       float64   `json:"amount"`
}

// CustomerMetrics is the per-customer reduction of the ledger: one row per
// distinct customer ID.
//
// Recency is whole days between the customer's last purchase and the
// dataset reference date (the maximum purchase date in the ledger, not
// wall-clock now). Frequency counts distinct purchase codes. Value sums
// every transaction amount.
type CustomerMetrics struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Value      float64 `json:"value"`
}
