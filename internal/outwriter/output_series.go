package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// PrintSeriesResults outputs the time-series aggregation, dispatching based
// on the output format configured.
func PrintSeriesResults(points []schema.ChartPoint, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForSeries(points, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForSeries(points, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printSeriesTable(points, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSeries handles opening the file and calling the JSON writer.
func printJSONResultsForSeries(points []schema.ChartPoint, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSeries(w, points)
	}, "Wrote JSON series results")
}

// printCSVResultsForSeries handles opening the file and calling the CSV writer.
func printCSVResultsForSeries(points []schema.ChartPoint, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSeries(csvWriter, points, fmtFloat)
	}, "Wrote CSV series results")
}

// printSeriesTable prints bucket counts, then per-field aggregates when any
// bucket carries them.
func printSeriesTable(points []schema.ChartPoint, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)

		// --- 1. Define Headers ---
		table.Header([]string{"Bucket", "Start", "Count", "Assets"})

		// 2. Configure Alignment
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		// --- 3. Prepare Data Rows ---
		var data [][]string
		for _, p := range points {
			data = append(data, []string{
				p.Key,
				p.Start.Format(contract.DateTimeFormat),
				strconv.Itoa(p.Count),
				strconv.Itoa(len(p.AssetIDs)),
			})
		}

		// --- 4. Render the table ---
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		if seriesHasFields(points) {
			if err := printSeriesFieldTable(w, points, cfg, fmtFloat); err != nil {
				return err
			}
		}

		fmt.Fprintf(w, "Series aggregation completed in %v across %d buckets\n", duration, len(points))
		return nil
	}, "Wrote series table")
}

// printSeriesFieldTable prints one row per (bucket, field) pair.
func printSeriesFieldTable(w io.Writer, points []schema.ChartPoint, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := "Field aggregates"
	if cfg.UseColors {
		title = contract.AccentColor.Sprint(title)
	}
	fmt.Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Bucket", "Field", "Count", "Min", "Max", "Avg"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range points {
		for _, field := range sortedFieldNames(p.Fields) {
			st := p.Fields[field]
			data = append(data, []string{
				p.Key,
				field,
				strconv.Itoa(st.Count),
				fmtFloat(st.Min),
				fmtFloat(st.Max),
				fmtFloat(st.Avg),
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func seriesHasFields(points []schema.ChartPoint) bool {
	for _, p := range points {
		if len(p.Fields) > 0 {
			return true
		}
	}
	return false
}

func sortedFieldNames(fields map[string]schema.FieldStat) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
