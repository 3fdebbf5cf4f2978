package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// writeJSONResultsForSketches marshals the field sketches to JSON and writes them.
func writeJSONResultsForSketches(w io.Writer, sketches []schema.FieldSketch) error {
	return writeJSON(w, sketches)
}

// writeCSVResultsForSketches writes the field sketch data to a CSV writer.
func writeCSVResultsForSketches(w *csv.Writer, sketches []schema.FieldSketch, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"field_path",
		"value_kind",
		"sketch_kind",
		"count",
		"nulls",
		"min",
		"max",
		"mean",
		"variance",
		"topk",
		"true_count",
		"false_count",
		"min_time",
		"max_time",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, s := range sketches {
		topk := make([]string, 0, len(s.TopK))
		for _, cc := range s.TopK {
			topk = append(topk, fmt.Sprintf("%s=%d", cc.Category, cc.Count))
		}
		minTime, maxTime := "", ""
		if !s.MinTime.IsZero() {
			minTime = s.MinTime.Format(contract.DateTimeFormat)
		}
		if !s.MaxTime.IsZero() {
			maxTime = s.MaxTime.Format(contract.DateTimeFormat)
		}
		row := []string{
			s.FieldPath,
			string(s.Kind),
			string(s.Sketch),
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Nulls),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
			fmtFloat(s.Mean),
			fmtFloat(s.Variance),
			strings.Join(topk, "|"),
			strconv.Itoa(s.TrueCount),
			strconv.Itoa(s.FalseCount),
			minTime,
			maxTime,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
