package rfv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmetrics/rfv-cli/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_ReferenceExample(t *testing.T) {
	txs := []model.Transaction{
		{CustomerID: "C1", PurchaseDate: day(1), PurchaseCode: "P1", Amount: 100},
		{CustomerID: "C1", PurchaseDate: day(5), PurchaseCode: "P2", Amount: 50},
		{CustomerID: "C2", PurchaseDate: day(10), PurchaseCode: "P3", Amount: 200},
	}

	res, err := Aggregate(txs)
	require.NoError(t, err)

	assert.Equal(t, day(10), res.ReferenceDate)
	require.Len(t, res.Metrics, 2)

	assert.Equal(t, model.CustomerMetrics{CustomerID: "C1", Recency: 5, Frequency: 2, Value: 150}, res.Metrics[0])
	assert.Equal(t, model.CustomerMetrics{CustomerID: "C2", Recency: 0, Frequency: 1, Value: 200}, res.Metrics[1])
}

func TestAggregate_Empty(t *testing.T) {
	_, err := Aggregate(nil)
	require.Error(t, err)

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "empty dataset")
}

func TestAggregate_DistinctPurchaseCodes(t *testing.T) {
	// Repeated purchase codes model line items of the same order and
	// count once for frequency, but every amount contributes to value.
	txs := []model.Transaction{
		{CustomerID: "C1", PurchaseDate: day(1), PurchaseCode: "P1", Amount: 10},
		{CustomerID: "C1", PurchaseDate: day(1), PurchaseCode: "P1", Amount: 20},
		{CustomerID: "C1", PurchaseDate: day(2), PurchaseCode: "P2", Amount: 30},
	}

	res, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, res.Metrics, 1)

	assert.Equal(t, 2, res.Metrics[0].Frequency)
	assert.Equal(t, 60.0, res.Metrics[0].Value)
}

func TestAggregate_FractionalDaysFloor(t *testing.T) {
	txs := []model.Transaction{
		{CustomerID: "C1", PurchaseDate: time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), PurchaseCode: "P1", Amount: 1},
		{CustomerID: "C2", PurchaseDate: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC), PurchaseCode: "P2", Amount: 1},
	}

	res, err := Aggregate(txs)
	require.NoError(t, err)

	// 2 days 18 hours floors to 2 whole days.
	assert.Equal(t, 2, res.Metrics[0].Recency)
	assert.Equal(t, 0, res.Metrics[1].Recency)
}

func TestAggregate_EveryCustomerOnce(t *testing.T) {
	var txs []model.Transaction
	ids := []string{"A", "B", "C", "D", "E"}
	for i, id := range ids {
		for j := 0; j < 3; j++ {
			txs = append(txs, model.Transaction{
				CustomerID:   id,
				PurchaseDate: day(i + j + 1),
				PurchaseCode: "P",
				Amount:       float64(j + 1),
			})
		}
	}

	res, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, res.Metrics, len(ids))

	seen := make(map[string]bool)
	for _, m := range res.Metrics {
		assert.False(t, seen[m.CustomerID], "customer %s appears twice", m.CustomerID)
		seen[m.CustomerID] = true
		assert.GreaterOrEqual(t, m.Recency, 0)
		assert.GreaterOrEqual(t, m.Frequency, 1)
		assert.Greater(t, m.Value, 0.0)
	}
}
