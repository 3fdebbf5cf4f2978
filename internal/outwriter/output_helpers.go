package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// AxisLabel renders an axis key for display, resolving source ids to names.
func AxisLabel(axisKey string, sourceName func(int64) string) string {
	if axisKey == schema.AggregatedKey {
		return "All results"
	}
	parts := strings.Split(axisKey, "|")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, "source:"):
			id, err := strconv.ParseInt(strings.TrimPrefix(part, "source:"), 10, 64)
			if err == nil && sourceName != nil {
				labels = append(labels, sourceName(id))
			} else {
				labels = append(labels, part)
			}
		case strings.HasPrefix(part, "split:"):
			labels = append(labels, strings.TrimPrefix(part, "split:"))
		default:
			labels = append(labels, part)
		}
	}
	return strings.Join(labels, " / ")
}

// formatSourceCounts renders per-source counts as "name=count" pairs in
// descending count order.
func formatSourceCounts(counts map[int64]int, sourceName func(int64) string) string {
	if len(counts) == 0 {
		return ""
	}
	type pair struct {
		id    int64
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for id, count := range counts {
		pairs = append(pairs, pair{id, count})
	}
	// Descending count, ascending id for ties.
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].id < pairs[j].id
	})
	items := make([]string, len(pairs))
	for i, p := range pairs {
		name := strconv.FormatInt(p.id, 10)
		if sourceName != nil {
			name = sourceName(p.id)
		}
		items[i] = fmt.Sprintf("%s=%d", name, p.count)
	}
	return strings.Join(items, ", ")
}
