package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// writeJSONResultsForSeries marshals the chart points to JSON and writes them.
func writeJSONResultsForSeries(w io.Writer, points []schema.ChartPoint) error {
	return writeJSON(w, points)
}

// writeCSVResultsForSeries writes the chart point data to a CSV writer, one
// row per bucket plus one row per (bucket, field) aggregate.
func writeCSVResultsForSeries(w *csv.Writer, points []schema.ChartPoint, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"bucket",
		"start",
		"count",
		"assets",
		"field",
		"field_count",
		"field_min",
		"field_max",
		"field_avg",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, p := range points {
		base := []string{
			p.Key,
			p.Start.Format(contract.DateTimeFormat),
			strconv.Itoa(p.Count),
			strconv.Itoa(len(p.AssetIDs)),
		}
		if len(p.Fields) == 0 {
			if err := w.Write(append(base, "", "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, field := range sortedFieldNames(p.Fields) {
			st := p.Fields[field]
			row := append(append([]string{}, base...),
				field,
				strconv.Itoa(st.Count),
				fmtFloat(st.Min),
				fmtFloat(st.Max),
				fmtFloat(st.Avg),
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
