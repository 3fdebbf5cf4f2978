package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// writeJSONResultsForDrilldown marshals the drill-down rows to JSON and writes them.
func writeJSONResultsForDrilldown(w io.Writer, rows []schema.DrilldownRow) error {
	return writeJSON(w, rows)
}

// writeCSVResultsForDrilldown writes the drill-down rows to a CSV writer.
func writeCSVResultsForDrilldown(w *csv.Writer, rows []schema.DrilldownRow) error {
	// 1. Write Header Row
	header := []string{
		"result_id",
		"asset_id",
		"asset_title",
		"source_id",
		"source_name",
		"status",
		"timestamp",
		"preview",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, r := range rows {
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Format(contract.DateTimeFormat)
		}
		row := []string{
			strconv.FormatInt(r.ResultID, 10),
			strconv.FormatInt(r.AssetID, 10),
			r.AssetTitle,
			strconv.FormatInt(r.SourceID, 10),
			r.SourceName,
			string(r.Status),
			ts,
			r.Preview,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
