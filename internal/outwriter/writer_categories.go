package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/annolab/pivot/schema"
)

// writeJSONResultsForCategories marshals the schema.CategoricalResult to JSON and writes it.
func writeJSONResultsForCategories(w io.Writer, result schema.CategoricalResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForCategories writes the schema.CategoricalResult data to a CSV writer.
func writeCSVResultsForCategories(w *csv.Writer, result schema.CategoricalResult, sourceName func(int64) string, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"axis_key",
		"rank",
		"category",
		"count",
		"share",
		"other",
		"source_counts",
		"asset_ids",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, axisKey := range result.AxisKeys {
		for _, p := range schema.EnrichGrouped(result.Buckets[axisKey]) {
			ids := p.AssetIDs()
			idStrs := make([]string, len(ids))
			for i, id := range ids {
				idStrs[i] = strconv.FormatInt(id, 10)
			}
			row := []string{
				axisKey,
				strconv.Itoa(p.Rank),
				p.Category,
				strconv.Itoa(p.Count),
				fmtFloat(p.Share),
				strconv.FormatBool(p.Other),
				formatSourceCounts(p.SourceCounts, sourceName),
				strings.Join(idStrs, "|"),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
