package rfv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmetrics/rfv-cli/internal/model"
)

func TestSegment_EndToEnd(t *testing.T) {
	var txs []model.Transaction
	// Eight customers with spread-out behavior so quartiles are meaningful.
	for i := 0; i < 8; i++ {
		id := string(rune('A' + i))
		for j := 0; j <= i; j++ {
			txs = append(txs, model.Transaction{
				CustomerID:   id,
				PurchaseDate: day(1 + i + j),
				PurchaseCode: id + "-" + string(rune('0'+j)),
				Amount:       float64(10 * (i + 1)),
			})
		}
	}

	res, err := Segment(txs, NewActionMap(nil))
	require.NoError(t, err)

	assert.Len(t, res.Rows, 8)
	assert.NotEmpty(t, res.Counts)

	// Quartile boundaries are monotonic per metric.
	for _, q := range []Quartiles{res.Quartiles.Recency, res.Quartiles.Frequency, res.Quartiles.Value} {
		assert.LessOrEqual(t, q.Q25, q.Q50)
		assert.LessOrEqual(t, q.Q50, q.Q75)
	}

	// Actions are total and counts add up to the population.
	total := 0
	for _, c := range res.Counts {
		assert.NotEmpty(t, c.Action)
		total += c.Count
	}
	assert.Equal(t, len(res.Rows), total)

	// Deterministic: same input, same output.
	res2, err := Segment(txs, NewActionMap(nil))
	require.NoError(t, err)
	assert.Equal(t, res.Rows, res2.Rows)
}

func TestSegment_Empty(t *testing.T) {
	_, err := Segment(nil, NewActionMap(nil))

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
}
