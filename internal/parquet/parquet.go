// Package parquet provides data structures and functions for exporting
// aggregation results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/annolab/pivot/schema"
)

// GroupedRow is one categorical aggregation point flattened for columnar
// export. Axis keys repeat per category so the file stays a single table.
type GroupedRow struct {
	// AxisKey is the bucket the point belongs to ("all", "source:<id>", ...)
	AxisKey string `parquet:"axis_key,snappy"`

	// Rank is the 1-based position of the point within its axis bucket
	Rank int32 `parquet:"rank,snappy"`

	// Category is the normalized field value
	Category string `parquet:"category,snappy"`

	// Count is the number of contributing results
	Count int64 `parquet:"count,snappy"`

	// Share is the percentage of the axis bucket's total
	Share float64 `parquet:"share,snappy"`

	// Other marks the collapsed tail bucket
	Other bool `parquet:"other,snappy"`

	// AssetIDs lists contributing assets as a pipe-joined string (nullable)
	AssetIDs *string `parquet:"asset_ids,optional,snappy"`
}

// SeriesRow is one (bucket, field) pair of a time-series aggregation. Buckets
// without field aggregates emit a single row with a null field name.
type SeriesRow struct {
	// BucketKey is the granularity-formatted bucket label
	BucketKey string `parquet:"bucket_key,snappy"`

	// BucketStart is the inclusive start of the bucket (stored as TIMESTAMP with nanosecond precision)
	BucketStart time.Time `parquet:"bucket_start,snappy"`

	// Count is the number of results in the bucket
	Count int64 `parquet:"count,snappy"`

	// AssetCount is the number of distinct contributing assets
	AssetCount int32 `parquet:"asset_count,snappy"`

	// Field names the aggregated numeric field (nullable)
	Field *string `parquet:"field,optional,snappy"`

	// FieldCount is the number of numeric samples for the field (nullable)
	FieldCount *int32 `parquet:"field_count,optional,snappy"`

	// FieldMin is the minimum sample (nullable)
	FieldMin *float64 `parquet:"field_min,optional,snappy"`

	// FieldMax is the maximum sample (nullable)
	FieldMax *float64 `parquet:"field_max,optional,snappy"`

	// FieldAvg is the running mean of the samples (nullable)
	FieldAvg *float64 `parquet:"field_avg,optional,snappy"`
}

// GroupedRows flattens a categorical result into export rows, preserving the
// deterministic axis and point order.
func GroupedRows(result schema.CategoricalResult) []GroupedRow {
	var rows []GroupedRow
	for _, axisKey := range result.AxisKeys {
		for _, p := range schema.EnrichGrouped(result.Buckets[axisKey]) {
			row := GroupedRow{
				AxisKey:  axisKey,
				Rank:     int32(p.Rank),
				Category: p.Category,
				Count:    int64(p.Count),
				Share:    p.Share,
				Other:    p.Other,
			}
			if ids := p.AssetIDs(); len(ids) > 0 {
				joined := joinIDs(ids)
				row.AssetIDs = &joined
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// SeriesRows flattens chart points into export rows.
func SeriesRows(points []schema.ChartPoint) []SeriesRow {
	var rows []SeriesRow
	for _, p := range points {
		base := SeriesRow{
			BucketKey:   p.Key,
			BucketStart: p.Start,
			Count:       int64(p.Count),
			AssetCount:  int32(len(p.AssetIDs)),
		}
		if len(p.Fields) == 0 {
			rows = append(rows, base)
			continue
		}
		names := make([]string, 0, len(p.Fields))
		for field := range p.Fields {
			names = append(names, field)
		}
		sort.Strings(names)
		for _, field := range names {
			st := p.Fields[field]
			row := base
			name := field
			count := int32(st.Count)
			minV, maxV, avgV := st.Min, st.Max, st.Avg
			row.Field = &name
			row.FieldCount = &count
			row.FieldMin = &minV
			row.FieldMax = &maxV
			row.FieldAvg = &avgV
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteGroupedRowsParquet writes categorical aggregation rows to a Parquet file.
func WriteGroupedRowsParquet(data []GroupedRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesRowsParquet writes time-series aggregation rows to a Parquet file.
func WriteSeriesRowsParquet(data []SeriesRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes any row slice using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

func joinIDs(ids []int64) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	return sb.String()
}
