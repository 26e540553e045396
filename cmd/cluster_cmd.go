package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/segmetrics/rfv-cli/internal/cluster"
	"github.com/segmetrics/rfv-cli/internal/dataset"
	"github.com/segmetrics/rfv-cli/internal/model"
	"github.com/segmetrics/rfv-cli/internal/report"
	"github.com/segmetrics/rfv-cli/internal/rfv"
)

var (
	clusterInput      string
	clusterK          int
	clusterPreMetrics bool
	clusterOutput     string
	clusterXLSX       string
	clusterProfiles   string
	clusterNoStore    bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Partition customers into behavioral groups",
	Long: `Standardizes the per-customer Recency/Frequency/Value metrics and
partitions customers into k groups with seeded k-means, reporting a mean
silhouette score for the chosen k.

The input is either a raw transaction ledger (aggregated first) or, with
--metrics, a pre-aggregated table with columns ID_cliente, Recencia,
Frequencia and Valor.

Examples:
  # Cluster a raw ledger into 4 groups
  rfv-cli cluster --input compras.csv --k 4 --output clusters.csv

  # Cluster a pre-aggregated metric table
  rfv-cli cluster --input metricas.csv --metrics --k 5 --profiles perfis.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		k := clusterK
		if k == 0 {
			k = cfg.Cluster.K
		}

		metrics, err := loadClusterMetrics(cmd, clusterInput, clusterPreMetrics)
		if err != nil {
			return err
		}

		run, st := beginRun(ctx, model.RunKindCluster, clusterInput, clusterNoStore)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		engine := cluster.Engine{
			MaxIterations: cfg.Cluster.MaxIterations,
			Seed:          cfg.Cluster.Seed,
		}
		result, err := engine.Run(metrics, k)
		if err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "cluster: run engine")
		}

		printProfiles(os.Stdout, result)

		// Exports carry the quartile grades and RFV score next to the
		// cluster column, like the segmented table.
		table, err := rfv.ComputeQuartiles(metrics)
		if err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "cluster: compute quartiles")
		}
		rows := rfv.Classify(metrics, table)

		g, _ := errgroup.WithContext(ctx)
		if clusterOutput != "" {
			g.Go(func() error { return report.WriteClustersCSV(clusterOutput, rows, result) })
		}
		if clusterXLSX != "" {
			g.Go(func() error { return report.WriteClustersXLSX(clusterXLSX, cfg.Export.SheetName, rows, result) })
		}
		if clusterProfiles != "" {
			g.Go(func() error { return report.WriteProfilesCSV(clusterProfiles, result.Profiles) })
		}
		if err := g.Wait(); err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "cluster: write exports")
		}

		completeRun(ctx, st, run, &model.RunSummary{
			Customers:  len(metrics),
			K:          result.K,
			Silhouette: result.Silhouette,
		})

		return nil
	},
}

func init() {
	clusterCmd.Flags().StringVar(&clusterInput, "input", "", "path to transaction or metric CSV/XLSX file (required)")
	clusterCmd.Flags().IntVar(&clusterK, "k", 0, "number of clusters (default from config)")
	clusterCmd.Flags().BoolVar(&clusterPreMetrics, "metrics", false, "input is a pre-aggregated metric table")
	clusterCmd.Flags().StringVar(&clusterOutput, "output", "", "write clustered table as CSV to this path")
	clusterCmd.Flags().StringVar(&clusterXLSX, "xlsx", "", "write clustered table as XLSX to this path")
	clusterCmd.Flags().StringVar(&clusterProfiles, "profiles", "", "write per-cluster metric means as CSV to this path")
	clusterCmd.Flags().BoolVar(&clusterNoStore, "no-store", false, "skip recording this run in the history store")
	_ = clusterCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(clusterCmd)
}

// loadClusterMetrics reads the metric table either directly or by
// aggregating a raw ledger first.
func loadClusterMetrics(cmd *cobra.Command, path string, preAggregated bool) ([]model.CustomerMetrics, error) {
	if preAggregated {
		metrics, err := dataset.LoadMetrics(cmd.Context(), path)
		if err != nil {
			return nil, eris.Wrap(err, "cluster: load metrics")
		}
		return metrics, nil
	}

	txs, err := dataset.LoadTransactions(cmd.Context(), path)
	if err != nil {
		return nil, eris.Wrap(err, "cluster: load transactions")
	}
	agg, err := rfv.Aggregate(txs)
	if err != nil {
		return nil, eris.Wrap(err, "cluster: aggregate")
	}
	return agg.Metrics, nil
}

func printProfiles(w io.Writer, result *cluster.Result) {
	fmt.Fprintf(w, "silhouette score: %.4f\n\n", result.Silhouette)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUSTER\tCUSTOMERS\tMEAN RECENCY\tMEAN FREQUENCY\tMEAN VALUE")
	for _, p := range result.Profiles {
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%.1f\t%.2f\n", p.Cluster, p.Size, p.MeanRecency, p.MeanFrequency, p.MeanValue)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
