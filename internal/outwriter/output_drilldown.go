package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// PrintDrilldownResults outputs the drill-down rows, dispatching based on the
// output format configured.
func PrintDrilldownResults(rows []schema.DrilldownRow, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForDrilldown(rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForDrilldown(rows, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printDrilldownTable(rows, cfg, duration); err != nil {
			return fmt.Errorf("error writing drill-down table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForDrilldown handles opening the file and calling the JSON writer.
func printJSONResultsForDrilldown(rows []schema.DrilldownRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForDrilldown(w, rows)
	}, "Wrote JSON drill-down results")
}

// printCSVResultsForDrilldown handles opening the file and calling the CSV writer.
func printCSVResultsForDrilldown(rows []schema.DrilldownRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForDrilldown(csvWriter, rows)
	}, "Wrote CSV drill-down results")
}

// printDrilldownTable prints the matched result rows, capped at the result limit.
func printDrilldownTable(rows []schema.DrilldownRow, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		total := len(rows)
		if total > cfg.ResultLimit {
			rows = rows[:cfg.ResultLimit]
		}
		maxLabel := GetMaxTableLabelWidth(cfg)

		table := tablewriter.NewWriter(w)

		// --- 1. Define Headers ---
		table.Header([]string{"Result", "Asset", "Source", "Status", "Timestamp", "Preview"})

		// 2. Configure Alignment
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		// --- 3. Prepare Data Rows ---
		var data [][]string
		for _, r := range rows {
			title := r.AssetTitle
			if title == "" {
				title = strconv.FormatInt(r.AssetID, 10)
			}
			ts := ""
			if !r.Timestamp.IsZero() {
				ts = r.Timestamp.Format(contract.DateTimeFormat)
			}
			data = append(data, []string{
				strconv.FormatInt(r.ResultID, 10),
				contract.TruncateLabel(title, maxLabel),
				r.SourceName,
				contract.StatusLabel(r.Status, cfg.UseColors),
				ts,
				contract.TruncateLabel(r.Preview, maxLabel),
			})
		}

		// --- 4. Render the table ---
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		if total > len(rows) {
			fmt.Fprintf(w, "Showing %d of %d matching results\n", len(rows), total)
		}
		fmt.Fprintf(w, "Drill-down completed in %v with %d matching results\n", duration, total)
		return nil
	}, "Wrote drill-down table")
}
