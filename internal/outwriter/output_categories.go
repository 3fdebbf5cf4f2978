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

// PrintCategoricalResults outputs the categorical aggregation, dispatching
// based on the output format configured.
func PrintCategoricalResults(result schema.CategoricalResult, sourceName func(int64) string, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForCategories(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForCategories(result, sourceName, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printCategoriesTable(result, sourceName, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing category table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForCategories handles opening the file and calling the JSON writer.
func printJSONResultsForCategories(result schema.CategoricalResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForCategories(w, result)
	}, "Wrote JSON category results")
}

// printCSVResultsForCategories handles opening the file and calling the CSV writer.
func printCSVResultsForCategories(result schema.CategoricalResult, sourceName func(int64) string, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForCategories(csvWriter, result, sourceName, fmtFloat)
	}, "Wrote CSV category results")
}

// printCategoriesTable prints one ranked table per axis bucket.
func printCategoriesTable(result schema.CategoricalResult, sourceName func(int64) string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		maxLabel := GetMaxTableLabelWidth(cfg)
		for _, axisKey := range result.AxisKeys {
			points := schema.EnrichGrouped(result.Buckets[axisKey])
			if len(points) > cfg.ResultLimit {
				points = points[:cfg.ResultLimit]
			}

			title := AxisLabel(axisKey, sourceName)
			if cfg.UseColors {
				title = contract.AccentColor.Sprint(title)
			}
			fmt.Fprintf(w, "%s (%d categories)\n", title, len(result.Buckets[axisKey]))

			table := tablewriter.NewWriter(w)

			// --- 1. Define Headers ---
			headers := []string{"Rank", "Category", "Count", "Share", "Assets"}
			showSources := axisHasSourceCounts(result.Buckets[axisKey])
			if showSources {
				headers = append(headers, "Sources")
			}
			table.Header(headers)

			// 2. Configure Alignment
			table.Configure(func(tcfg *tablewriter.Config) {
				tcfg.Row.Alignment.Global = tw.AlignRight
			})

			// --- 3. Prepare Data Rows ---
			var data [][]string
			for _, p := range points {
				row := []string{
					strconv.Itoa(p.Rank),
					contract.CategoryLabel(contract.TruncateLabel(p.Category, maxLabel), p.Other, cfg.UseColors),
					strconv.Itoa(p.Count),
					fmtFloat(p.Share) + "%",
					strconv.Itoa(len(p.AssetIDs())),
				}
				if showSources {
					row = append(row, formatSourceCounts(p.SourceCounts, sourceName))
				}
				data = append(data, row)
			}

			// --- 4. Render the table ---
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}

			if members := result.OtherMembers[axisKey]; len(members) > 0 {
				fmt.Fprintf(w, "Other collapses %d categories\n", len(members))
			}
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Category aggregation completed in %v across %d axis buckets\n", duration, len(result.AxisKeys))
		return nil
	}, "Wrote category table")
}

// axisHasSourceCounts reports whether any point carries a per-source
// breakdown worth a column.
func axisHasSourceCounts(points []schema.GroupedPoint) bool {
	for _, p := range points {
		if len(p.SourceCounts) > 1 {
			return true
		}
	}
	return false
}
