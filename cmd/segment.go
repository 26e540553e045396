package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/segmetrics/rfv-cli/internal/dataset"
	"github.com/segmetrics/rfv-cli/internal/model"
	"github.com/segmetrics/rfv-cli/internal/report"
	"github.com/segmetrics/rfv-cli/internal/rfv"
)

var (
	segmentInput     string
	segmentOutput    string
	segmentXLSX      string
	segmentQuartiles string
	segmentCounts    string
	segmentActions   string
	segmentTop       int
	segmentNoStore   bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Segment customers by Recency, Frequency and Value",
	Long: `Reads a transaction ledger (CSV or XLSX) with columns ID_cliente,
DiaCompra, CodigoCompra and ValorTotal, aggregates it to one row per
customer, grades each metric against population quartiles, and maps the
resulting 3-letter RFV score to a recommended marketing action.

Examples:
  # Segment and export the full table as CSV
  rfv-cli segment --input compras.csv --output segmentos.csv

  # Also export the Excel download plus quartile and count tables
  rfv-cli segment --input compras.xlsx --output segmentos.csv \
    --xlsx segmentos.xlsx --quartiles quartis.csv --counts contagem.csv

  # Override or extend the action table
  rfv-cli segment --input compras.csv --actions acoes.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		overrides, err := loadActionOverrides(segmentActions)
		if err != nil {
			return err
		}

		txs, err := dataset.LoadTransactions(ctx, segmentInput)
		if err != nil {
			return eris.Wrap(err, "segment: load transactions")
		}

		run, st := beginRun(ctx, model.RunKindSegment, segmentInput, segmentNoStore)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		result, err := rfv.Segment(txs, rfv.NewActionMap(overrides))
		if err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "segment: run pipeline")
		}

		printQuartiles(os.Stdout, result.Quartiles)
		printCounts(os.Stdout, result.Counts)
		if segmentTop > 0 {
			printTopCustomers(os.Stdout, result.Rows, segmentTop)
		}

		// Export artifacts concurrently; each writer owns its own file.
		g, _ := errgroup.WithContext(ctx)
		if segmentOutput != "" {
			g.Go(func() error { return report.WriteSegmentsCSV(segmentOutput, result.Rows) })
		}
		if segmentXLSX != "" {
			g.Go(func() error { return report.WriteSegmentsXLSX(segmentXLSX, cfg.Export.SheetName, result.Rows) })
		}
		if segmentQuartiles != "" {
			g.Go(func() error { return report.WriteQuartilesCSV(segmentQuartiles, result.Quartiles) })
		}
		if segmentCounts != "" {
			g.Go(func() error { return report.WriteCountsCSV(segmentCounts, result.Counts) })
		}
		if err := g.Wait(); err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "segment: write exports")
		}

		completeRun(ctx, st, run, &model.RunSummary{
			Customers:     len(result.Rows),
			Transactions:  len(txs),
			ReferenceDate: result.ReferenceDate,
			Segments:      len(result.Counts),
		})

		return nil
	},
}

func init() {
	segmentCmd.Flags().StringVar(&segmentInput, "input", "", "path to transaction CSV or XLSX file (required)")
	segmentCmd.Flags().StringVar(&segmentOutput, "output", "", "write segmented table as CSV to this path")
	segmentCmd.Flags().StringVar(&segmentXLSX, "xlsx", "", "write segmented table as XLSX to this path")
	segmentCmd.Flags().StringVar(&segmentQuartiles, "quartiles", "", "write quartile boundary table as CSV to this path")
	segmentCmd.Flags().StringVar(&segmentCounts, "counts", "", "write per-segment customer counts as CSV to this path")
	segmentCmd.Flags().StringVar(&segmentActions, "actions", "", "yaml file with score->action overrides")
	segmentCmd.Flags().IntVar(&segmentTop, "top", 10, "print the N highest-value AAA customers (0 = none)")
	segmentCmd.Flags().BoolVar(&segmentNoStore, "no-store", false, "skip recording this run in the history store")
	_ = segmentCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(segmentCmd)
}

// loadActionOverrides reads the --actions yaml file when given.
func loadActionOverrides(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	overrides, err := rfv.LoadActionOverrides(path)
	if err != nil {
		return nil, eris.Wrap(err, "segment: load action overrides")
	}
	zap.L().Info("segment: action overrides loaded",
		zap.String("path", path),
		zap.Int("entries", len(overrides)),
	)
	return overrides, nil
}

func printQuartiles(w io.Writer, table rfv.QuartileTable) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTILE\tRECENCY\tFREQUENCY\tVALUE")
	for _, q := range []struct {
		level   string
		r, f, v float64
	}{
		{"0.25", table.Recency.Q25, table.Frequency.Q25, table.Value.Q25},
		{"0.50", table.Recency.Q50, table.Frequency.Q50, table.Value.Q50},
		{"0.75", table.Recency.Q75, table.Frequency.Q75, table.Value.Q75},
	} {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", q.level, q.r, q.f, q.v)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func printCounts(w io.Writer, counts []model.SegmentCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tCUSTOMERS\tACTION")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Score, c.Count, c.Action)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

// printTopCustomers lists the highest-value customers in the best (AAA)
// segment.
func printTopCustomers(w io.Writer, rows []model.SegmentRow, n int) {
	var top []model.SegmentRow
	for _, r := range rows {
		if r.Score == "AAA" {
			top = append(top, r)
		}
	}
	if len(top) == 0 {
		return
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Value > top[j].Value })
	if len(top) > n {
		top = top[:n]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOP AAA CUSTOMER\tRECENCY\tFREQUENCY\tVALUE")
	for _, r := range top {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\n", r.CustomerID, r.Recency, r.Frequency, r.Value)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
