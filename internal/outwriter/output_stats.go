package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// PrintSketchResults outputs the per-field statistic sketches, dispatching
// based on the output format configured.
func PrintSketchResults(sketches []schema.FieldSketch, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForSketches(sketches, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForSketches(sketches, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printSketchTable(sketches, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing sketch table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSketches handles opening the file and calling the JSON writer.
func printJSONResultsForSketches(sketches []schema.FieldSketch, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSketches(w, sketches)
	}, "Wrote JSON field statistics")
}

// printCSVResultsForSketches handles opening the file and calling the CSV writer.
func printCSVResultsForSketches(sketches []schema.FieldSketch, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSketches(csvWriter, sketches, fmtFloat)
	}, "Wrote CSV field statistics")
}

// printSketchTable prints one row per field with a sketch-specific summary column.
func printSketchTable(sketches []schema.FieldSketch, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		maxLabel := GetMaxTableLabelWidth(cfg)

		table := tablewriter.NewWriter(w)

		// --- 1. Define Headers ---
		table.Header([]string{"Field", "Kind", "Sketch", "Count", "Nulls", "Summary"})

		// 2. Configure Alignment
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		// --- 3. Prepare Data Rows ---
		var data [][]string
		for _, s := range sketches {
			data = append(data, []string{
				contract.TruncateLabel(s.FieldPath, maxLabel),
				string(s.Kind),
				string(s.Sketch),
				strconv.Itoa(s.Count),
				strconv.Itoa(s.Nulls),
				sketchSummary(s, fmtFloat),
			})
		}

		// --- 4. Render the table ---
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Fprintf(w, "Field statistics completed in %v across %d fields\n", duration, len(sketches))
		return nil
	}, "Wrote field statistics table")
}

// sketchSummary renders the sketch-specific payload as one compact string.
func sketchSummary(s schema.FieldSketch, fmtFloat func(float64) string) string {
	switch s.Sketch {
	case schema.NumberSummarySketch:
		return fmt.Sprintf("min=%s max=%s mean=%s var=%s",
			fmtFloat(s.Min), fmtFloat(s.Max), fmtFloat(s.Mean), fmtFloat(s.Variance))
	case schema.TopKSketch:
		items := make([]string, 0, len(s.TopK))
		for _, cc := range s.TopK {
			items = append(items, fmt.Sprintf("%s=%d", cc.Category, cc.Count))
		}
		return strings.Join(items, ", ")
	case schema.BoolCountsSketch:
		return fmt.Sprintf("true=%d false=%d", s.TrueCount, s.FalseCount)
	case schema.DatetimeMinMaxSketch:
		return fmt.Sprintf("%s .. %s",
			s.MinTime.Format(contract.DateTimeFormat), s.MaxTime.Format(contract.DateTimeFormat))
	default:
		return ""
	}
}
