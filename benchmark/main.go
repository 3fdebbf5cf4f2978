// Package main provides a performance benchmarking tool for the pivot engine.
// It measures aggregation times across different synthetic dataset sizes,
// running each operation multiple times, treating the first run as cold and
// averaging the rest as warm, generating CSV output for performance analysis.
//
// Usage: go run benchmark/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset   string
	Operation string
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Runs         int
	DatasetSizes map[string]int
	Sources      int
	Assets       int
	Seed         int64
}

// sentiments is the category pool for synthetic results; skewed on purpose
// so the Other collapse has a tail to work with.
var sentiments = []string{
	"Positive", "Positive", "Positive", "Negative", "Negative",
	"Neutral", "Mixed", "Sarcastic", "Unclear", "Off-topic",
}

func main() {
	config := BenchmarkConfig{
		Runs: 4,
		DatasetSizes: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
		},
		Sources: 20,
		Assets:  10_000,
		Seed:    42,
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// generateDataset builds a deterministic synthetic dataset of n results.
func generateDataset(config BenchmarkConfig, n int) *core.Dataset {
	rng := rand.New(rand.NewSource(config.Seed))

	contract := map[string]any{
		"properties": map[string]any{
			"sentiment": map[string]any{"type": "string"},
			"score":     map[string]any{"type": "number"},
			"tags":      map[string]any{"type": "array"},
		},
	}
	schemas := []schema.AnnotationSchema{{ID: 1, Name: "sentiment", OutputContract: contract}}

	sources := make([]schema.Source, config.Sources)
	for i := range sources {
		sources[i] = schema.Source{ID: int64(i + 1), Name: fmt.Sprintf("source-%d", i+1)}
	}

	assets := make([]schema.Asset, config.Assets)
	for i := range assets {
		assets[i] = schema.Asset{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("asset-%d", i+1),
			SourceID: int64(rng.Intn(config.Sources) + 1),
		}
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	results := make([]schema.AnnotationResult, n)
	for i := range results {
		results[i] = schema.AnnotationResult{
			ID:       int64(i + 1),
			AssetID:  int64(rng.Intn(config.Assets) + 1),
			SchemaID: 1,
			Value: map[string]any{
				"sentiment": sentiments[rng.Intn(len(sentiments))],
				"score":     rng.Float64() * 100,
				"tags":      []any{"a", "b"},
			},
			Status:    schema.StatusSuccess,
			Timestamp: base.Add(time.Duration(rng.Intn(365*24)) * time.Hour),
		}
	}

	return core.NewDataset(results, schemas, assets, sources)
}

// runBenchmarks executes all benchmark operations across configured dataset sizes.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	for _, name := range []string{"small", "medium", "large"} {
		n := config.DatasetSizes[name]
		fmt.Printf("Generating %s dataset (%d results)...\n", name, n)
		ds := generateDataset(config, n)

		catReq := core.CategoricalRequest{SchemaID: 1, FieldPath: "sentiment", Axis: schema.SourceAxis, MaxSlices: 5}
		seriesReq := core.SeriesRequest{SchemaID: 1, Granularity: schema.WeekGranularity}

		operations := map[string]func(){
			"categories": func() { core.AggregateCategorical(ds, catReq) },
			"timeseries": func() { core.AggregateTimeSeries(ds, seriesReq) },
			"stats":      func() { core.ComputeFieldSketches(ds.Results, false) },
			"drilldown": func() {
				core.ResolveDrilldown(ds, core.DrilldownRequest{
					Selection:   core.Selection{Kind: core.CategorySelection, AxisKey: "source:1", Category: "Positive"},
					Categorical: &catReq,
				})
			},
		}

		for _, op := range []string{"categories", "timeseries", "stats", "drilldown"} {
			cold, warm := runBenchmark(operations[op], config.Runs)
			results = append(results, BenchmarkResult{
				Dataset:   name,
				Operation: op,
				ColdTime:  fmt.Sprintf("%.4f", cold),
				WarmTime:  fmt.Sprintf("%.4f", average(warm)),
			})
			fmt.Printf("  %-10s cold=%.4fs warm=%.4fs\n", op, cold, average(warm))
		}
	}

	return results
}

// runBenchmark times one operation numRuns times.
func runBenchmark(op func(), numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		op()
		times = append(times, time.Since(start).Seconds())
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/pivot_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "operation", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Operation, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printOperationSummary(results, "categories", "Category Aggregation:")
	printOperationSummary(results, "timeseries", "Time-Series Aggregation:")
	printOperationSummary(results, "stats", "Field Statistics:")
	printOperationSummary(results, "drilldown", "Drill-Down:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printOperationSummary displays results for a specific operation type
func printOperationSummary(results []BenchmarkResult, operation, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Operation == operation {
			fmt.Printf("  %-8s: Cold: %ss, Warm: %ss\n", result.Dataset, result.ColdTime, result.WarmTime)
		}
	}
}
