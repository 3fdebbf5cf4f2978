package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/internal/echart"
	"github.com/annolab/pivot/internal/outwriter"
	"github.com/annolab/pivot/internal/parquet"
	"github.com/annolab/pivot/schema"
)

// ExecutorFunc defines the function signature for executing different aggregation modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecutePivotCategories runs the categorical aggregation and prints results.
// It serves as the main entry point for the 'categories' mode.
func ExecutePivotCategories(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := AggregateCategorical(ds, categoricalRequest(cfg))
	duration := time.Since(start)

	switch cfg.Output {
	case schema.ChartOut:
		return writeChart(cfg, "Wrote category chart", func(w io.Writer) error {
			return echart.RenderCategoricalChart(w, *result, ds.SourceName, chartTitle(ds, cfg))
		})
	case schema.ParquetOut:
		return writeParquetFile(cfg, "category", func(path string) error {
			return parquet.WriteGroupedRowsParquet(parquet.GroupedRows(*result), path)
		})
	default:
		return outwriter.NewOutWriter().WriteCategories(*result, ds.SourceName, cfg, duration)
	}
}

// ExecutePivotTimeseries runs the time-series aggregation and prints results.
// It serves as the main entry point for the 'timeseries' mode.
func ExecutePivotTimeseries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	points := AggregateTimeSeries(ds, seriesRequest(cfg))
	duration := time.Since(start)

	switch cfg.Output {
	case schema.ChartOut:
		return writeChart(cfg, "Wrote series chart", func(w io.Writer) error {
			return echart.RenderSeriesChart(w, points, chartTitle(ds, cfg))
		})
	case schema.ParquetOut:
		return writeParquetFile(cfg, "series", func(path string) error {
			return parquet.WriteSeriesRowsParquet(parquet.SeriesRows(points), path)
		})
	default:
		return outwriter.NewOutWriter().WriteSeries(points, cfg, duration)
	}
}

// ExecutePivotDrilldown resolves the results behind a selected chart point
// and prints them. Selecting the collapsed "Other" bucket first reruns the
// aggregation to recover its recorded membership, so the subset always
// matches what the point displayed.
func ExecutePivotDrilldown(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.Output == schema.ChartOut || cfg.Output == schema.ParquetOut {
		return fmt.Errorf("output %s is not supported for drill-down", cfg.Output)
	}
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	req, err := drilldownRequest(ds, cfg)
	if err != nil {
		return err
	}
	matched := ResolveDrilldown(ds, req)
	rows := DrilldownRows(ds, matched)
	duration := time.Since(start)

	return outwriter.NewOutWriter().WriteDrilldown(rows, cfg, duration)
}

// ExecutePivotStats computes per-field statistic sketches and prints them.
// It serves as the main entry point for the 'stats' mode.
func ExecutePivotStats(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.Output == schema.ChartOut || cfg.Output == schema.ParquetOut {
		return fmt.Errorf("output %s is not supported for field statistics", cfg.Output)
	}
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	results := ds.Results
	if cfg.SchemaID != 0 {
		filtered := make([]schema.AnnotationResult, 0, len(results))
		for _, r := range results {
			if r.SchemaID == cfg.SchemaID {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	sketches := ComputeFieldSketches(results, cfg.IncludeFailed)
	duration := time.Since(start)

	return outwriter.NewOutWriter().WriteSketches(sketches, cfg, duration)
}

// LoadDataset loads results and their lookups from the store and applies the
// configured result filters.
func LoadDataset(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store := mgr.GetResultStore()
	if store == nil {
		return nil, errors.New("no result store is configured")
	}

	results, err := store.LoadResults(cfg.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	schemas, err := store.LoadSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	assets, err := store.LoadAssets()
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	sources, err := store.LoadSources()
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	if len(cfg.Filters) > 0 {
		fs, err := BuildFilterSet(cfg.Filters, cfg.FilterLogic)
		if err != nil {
			return nil, err
		}
		results = fs.Filter(results)
	}

	return NewDataset(results, schemas, assets, sources), nil
}

// BuildFilterSet parses raw field:op[:value] specs into a set combined with
// the given logic. An empty logic means every rule must match.
func BuildFilterSet(specs []string, logic schema.FilterLogic) (FilterSet, error) {
	if logic == "" {
		logic = schema.AndFilterLogic
	}
	if _, err := schema.ParseFilterLogic(string(logic)); err != nil {
		return FilterSet{}, err
	}
	fs := FilterSet{Logic: logic}
	for _, spec := range specs {
		rule, err := ParseFilterFlag(spec)
		if err != nil {
			return FilterSet{}, err
		}
		fs.Rules = append(fs.Rules, rule)
	}
	return fs, nil
}

// DrilldownRows joins matched results with their assets and sources for
// presentation, ordered by result id.
func DrilldownRows(ds *Dataset, results []schema.AnnotationResult) []schema.DrilldownRow {
	rows := make([]schema.DrilldownRow, 0, len(results))
	for _, r := range results {
		sourceID := ds.sourceOf(r)
		row := schema.DrilldownRow{
			ResultID:   r.ID,
			AssetID:    r.AssetID,
			SourceID:   sourceID,
			SourceName: ds.SourceName(sourceID),
			Status:     r.Status,
			Timestamp:  r.Timestamp,
			Preview:    valuePreview(r.Value),
		}
		if a, ok := ds.Assets[r.AssetID]; ok {
			row.AssetTitle = a.Title
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ResultID < rows[j].ResultID })
	return rows
}

func categoricalRequest(cfg *contract.Config) CategoricalRequest {
	return CategoricalRequest{
		SchemaID:      cfg.SchemaID,
		FieldPath:     cfg.FieldPath,
		Axis:          cfg.Axis,
		SplitField:    cfg.SplitField,
		SplitSchemaID: cfg.SplitSchemaID,
		MaxSlices:     cfg.MaxSlices,
		Aliases:       cfg.Aliases,
		IncludeFailed: cfg.IncludeFailed,
	}
}

func seriesRequest(cfg *contract.Config) SeriesRequest {
	return SeriesRequest{
		SchemaID:      cfg.SchemaID,
		TimeAxis:      cfg.TimeAxis,
		TimeField:     cfg.TimeField,
		TimeSchemaID:  cfg.TimeSchemaID,
		Granularity:   cfg.Granularity,
		IncludeFailed: cfg.IncludeFailed,
	}
}

// drilldownRequest builds the selection from config, recovering "Other"
// membership by rerunning the categorical aggregation.
func drilldownRequest(ds *Dataset, cfg *contract.Config) (DrilldownRequest, error) {
	if cfg.SelectBucket != "" {
		req := seriesRequest(cfg)
		return DrilldownRequest{
			Selection: Selection{Kind: BucketSelection, BucketKey: cfg.SelectBucket},
			Series:    &req,
		}, nil
	}
	if cfg.SelectCategory == "" {
		return DrilldownRequest{}, errors.New("drill-down requires --select-category or --select-bucket")
	}

	req := categoricalRequest(cfg)
	sel := Selection{
		Kind:     CategorySelection,
		AxisKey:  cfg.SelectAxis,
		Category: cfg.SelectCategory,
	}
	if cfg.SelectCategory == schema.OtherCategory {
		result := AggregateCategorical(ds, req)
		if members := result.OtherMembers[sel.AxisKey]; len(members) > 0 {
			sel.Other = true
			sel.OtherMembers = members
		}
	}
	return DrilldownRequest{Selection: sel, Categorical: &req}, nil
}

// chartTitle names a chart after the classified field, falling back to the
// schema name.
func chartTitle(ds *Dataset, cfg *contract.Config) string {
	name := cfg.FieldPath
	if s, ok := ds.Contracts.Schema(cfg.SchemaID); ok {
		if name == "" {
			name = s.Name
		} else {
			name = s.Name + "." + name
		}
	}
	if name == "" {
		name = "results"
	}
	return name
}

// writeChart renders chart HTML through the shared output-file selection.
func writeChart(cfg *contract.Config, successMsg string, render func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if cfg.OutputFile != "" {
		defer func() { _ = file.Close() }()
	}
	if err := render(file); err != nil {
		return err
	}
	if cfg.OutputFile != "" {
		contract.LogWarn(fmt.Sprintf("%s to %s", successMsg, cfg.OutputFile), nil)
	}
	return nil
}

// writeParquetFile enforces a target path for binary output.
func writeParquetFile(cfg *contract.Config, kind string, write func(path string) error) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	if err := write(cfg.OutputFile); err != nil {
		return err
	}
	contract.LogWarn(fmt.Sprintf("Wrote %s parquet results to %s", kind, cfg.OutputFile), nil)
	return nil
}

// valuePreview renders a short single-line summary of a result value.
func valuePreview(value map[string]any) string {
	if len(value) == 0 {
		return ""
	}
	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preview := ""
	for _, k := range keys {
		labels := NormalizeValue(value[k])
		if len(labels) == 0 {
			continue
		}
		part := k + "=" + labels[0]
		if preview == "" {
			preview = part
		} else {
			preview += " " + part
		}
		if len(preview) > 60 {
			break
		}
	}
	return preview
}
