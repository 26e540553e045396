// Package report serializes pipeline result tables to CSV and XLSX. It is
// a lossless export layer; no segmentation logic lives here.
package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/segmetrics/rfv-cli/internal/cluster"
	"github.com/segmetrics/rfv-cli/internal/dataset"
	"github.com/segmetrics/rfv-cli/internal/model"
	"github.com/segmetrics/rfv-cli/internal/rfv"
)

// segmentHeader matches the column layout of the original tool's export.
var segmentHeader = []string{
	dataset.ColCustomerID, dataset.ColRecency, dataset.ColFrequency, dataset.ColValue,
	"R_quartil", "F_quartil", "V_quartil", "RFV_Score", "Acao_Marketing",
}

// WriteSegmentsCSV writes the full segmented customer table.
func WriteSegmentsCSV(path string, rows []model.SegmentRow) error {
	records := [][]string{segmentHeader}
	for _, r := range rows {
		records = append(records, segmentRecord(r))
	}
	return writeCSV(path, records)
}

// WriteQuartilesCSV writes the quartile boundary table, one row per
// quantile level.
func WriteQuartilesCSV(path string, table rfv.QuartileTable) error {
	records := [][]string{
		{"quantile", dataset.ColRecency, dataset.ColFrequency, dataset.ColValue},
		{"0.25", formatFloat(table.Recency.Q25), formatFloat(table.Frequency.Q25), formatFloat(table.Value.Q25)},
		{"0.50", formatFloat(table.Recency.Q50), formatFloat(table.Frequency.Q50), formatFloat(table.Value.Q50)},
		{"0.75", formatFloat(table.Recency.Q75), formatFloat(table.Frequency.Q75), formatFloat(table.Value.Q75)},
	}
	return writeCSV(path, records)
}

// WriteCountsCSV writes the (score, action, count) aggregation.
func WriteCountsCSV(path string, counts []model.SegmentCount) error {
	records := [][]string{{"RFV_Score", "Acao_Marketing", "Contagem"}}
	for _, c := range counts {
		records = append(records, []string{c.Score, c.Action, strconv.Itoa(c.Count)})
	}
	return writeCSV(path, records)
}

// clusterHeader is the segmented table plus the Cluster column, minus the
// action column, matching the original tool's clustering export.
var clusterHeader = []string{
	dataset.ColCustomerID, dataset.ColRecency, dataset.ColFrequency, dataset.ColValue,
	"R_quartil", "F_quartil", "V_quartil", "RFV_Score", "Cluster",
}

// WriteClustersCSV writes the graded customer table with each customer's
// cluster assignment. Rows and assignments are index-aligned, as produced
// by Classify and the cluster engine over the same metric slice.
func WriteClustersCSV(path string, rows []model.SegmentRow, result *cluster.Result) error {
	records := [][]string{clusterHeader}
	for i, r := range rows {
		records = append(records, clusterRecord(r, result.Assignments[i].Cluster))
	}
	return writeCSV(path, records)
}

// WriteProfilesCSV writes the per-cluster size and raw-metric means.
func WriteProfilesCSV(path string, profiles []model.ClusterProfile) error {
	records := [][]string{{"Cluster", "Clientes", "Media_Recencia", "Media_Frequencia", "Media_Valor"}}
	for _, p := range profiles {
		records = append(records, []string{
			strconv.Itoa(p.Cluster),
			strconv.Itoa(p.Size),
			formatFloat(p.MeanRecency),
			formatFloat(p.MeanFrequency),
			formatFloat(p.MeanValue),
		})
	}
	return writeCSV(path, records)
}

func segmentRecord(r model.SegmentRow) []string {
	return []string{
		r.CustomerID,
		strconv.Itoa(r.Recency),
		strconv.Itoa(r.Frequency),
		formatFloat(r.Value),
		string(r.RecencyGrade),
		string(r.FrequencyGrade),
		string(r.ValueGrade),
		r.Score,
		r.Action,
	}
}

func clusterRecord(r model.SegmentRow, clusterID int) []string {
	return []string{
		r.CustomerID,
		strconv.Itoa(r.Recency),
		strconv.Itoa(r.Frequency),
		formatFloat(r.Value),
		string(r.RecencyGrade),
		string(r.FrequencyGrade),
		string(r.ValueGrade),
		r.Score,
		strconv.Itoa(clusterID),
	}
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// formatFloat renders a float with the fewest digits that round-trip, so
// exports stay lossless.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
