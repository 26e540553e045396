package dataset

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/segmetrics/rfv-cli/internal/model"
)

// Required column names, matching the upload format of the original tool.
const (
	ColCustomerID   = "ID_cliente"
	ColPurchaseDate = "DiaCompra"
	ColPurchaseCode = "CodigoCompra"
	ColAmount       = "ValorTotal"

	ColRecency   = "Recencia"
	ColFrequency = "Frequencia"
	ColValue     = "Valor"
)

var transactionColumns = []string{ColCustomerID, ColPurchaseDate, ColPurchaseCode, ColAmount}

var metricColumns = []string{ColCustomerID, ColRecency, ColFrequency, ColValue}

// dateLayouts are tried in order when parsing purchase dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01-02-06", // xlsx default date cell format
}

// LoadTransactions reads a transaction ledger from a CSV or XLSX file.
// Missing required columns, unparseable dates or amounts, and negative
// amounts are ValidationErrors; nothing is returned partially.
func LoadTransactions(ctx context.Context, path string) ([]model.Transaction, error) {
	header, rows, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, transactionColumns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("empty dataset: %s has no data rows", filepath.Base(path))}
	}

	txs := make([]model.Transaction, 0, len(rows))
	for i, row := range rows {
		// Row numbers in errors are 1-based and count the header.
		line := i + 2

		date, err := parseDate(cell(row, idx[ColPurchaseDate]))
		if err != nil {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: %v", line, err)}
		}
		amount, err := parseAmount(cell(row, idx[ColAmount]))
		if err != nil {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: %v", line, err)}
		}
		customerID := cell(row, idx[ColCustomerID])
		if customerID == "" {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: empty %s", line, ColCustomerID)}
		}

		txs = append(txs, model.Transaction{
			CustomerID:   customerID,
			PurchaseDate: date,
			PurchaseCode: cell(row, idx[ColPurchaseCode]),
			Amount:       amount,
		})
	}

	zap.L().Info("dataset: transactions loaded",
		zap.String("path", path),
		zap.Int("rows", len(txs)),
	)

	return txs, nil
}

// LoadMetrics reads a pre-aggregated per-customer metric table, for the
// pure-clustering variant that skips aggregation.
func LoadMetrics(ctx context.Context, path string) ([]model.CustomerMetrics, error) {
	header, rows, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, metricColumns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("empty dataset: %s has no data rows", filepath.Base(path))}
	}

	metrics := make([]model.CustomerMetrics, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		recency, err := strconv.Atoi(cell(row, idx[ColRecency]))
		if err != nil || recency < 0 {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: invalid %s %q", line, ColRecency, cell(row, idx[ColRecency]))}
		}
		frequency, err := strconv.Atoi(cell(row, idx[ColFrequency]))
		if err != nil || frequency < 0 {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: invalid %s %q", line, ColFrequency, cell(row, idx[ColFrequency]))}
		}
		value, err := parseAmount(cell(row, idx[ColValue]))
		if err != nil {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("row %d: %v", line, err)}
		}

		metrics = append(metrics, model.CustomerMetrics{
			CustomerID: cell(row, idx[ColCustomerID]),
			Recency:    recency,
			Frequency:  frequency,
			Value:      value,
		})
	}

	zap.L().Info("dataset: metrics loaded",
		zap.String("path", path),
		zap.Int("rows", len(metrics)),
	)

	return metrics, nil
}

// readTable reads all rows of a CSV or XLSX file, dispatching on the file
// extension, and splits off the header row.
func readTable(ctx context.Context, path string) ([]string, [][]string, error) {
	var rows [][]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		var err error
		rows, err = ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return nil, nil, err
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "dataset: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		rowCh, errCh := StreamCSV(ctx, f, CSVOptions{TrimSpace: true})
		for row := range rowCh {
			rows = append(rows, row)
		}
		if err := <-errCh; err != nil {
			return nil, nil, err
		}
	}

	if len(rows) == 0 {
		return nil, nil, &model.ValidationError{Reason: fmt.Sprintf("empty dataset: %s has no rows", filepath.Base(path))}
	}
	return rows[0], rows[1:], nil
}

// columnIndex maps each required column name to its position in the
// header. All missing columns are reported together.
func columnIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &model.ValidationError{Missing: missing}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable %s %q", ColPurchaseDate, s)
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("unparseable amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}
