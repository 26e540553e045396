package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/segmetrics/rfv-cli/internal/cluster"
	"github.com/segmetrics/rfv-cli/internal/model"
)

// WriteSegmentsXLSX writes the segmented customer table as a spreadsheet,
// mirroring the original tool's Excel download.
func WriteSegmentsXLSX(path, sheetName string, rows []model.SegmentRow) error {
	records := [][]string{segmentHeader}
	for _, r := range rows {
		records = append(records, segmentRecord(r))
	}
	return writeXLSX(path, sheetName, records)
}

// WriteClustersXLSX writes the graded customer table with cluster
// assignments as a spreadsheet.
func WriteClustersXLSX(path, sheetName string, rows []model.SegmentRow, result *cluster.Result) error {
	records := [][]string{clusterHeader}
	for i, r := range rows {
		records = append(records, clusterRecord(r, result.Assignments[i].Cluster))
	}
	return writeXLSX(path, sheetName, records)
}

func writeXLSX(path, sheetName string, records [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", sheetName)
	}

	for _, record := range records {
		row := sheet.AddRow()
		for _, v := range record {
			row.AddCell().SetString(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
