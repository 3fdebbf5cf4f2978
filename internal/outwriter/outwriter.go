// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCategories prints categorical aggregation results using the configured output format.
func (ow *OutWriter) WriteCategories(result schema.CategoricalResult, sourceName func(int64) string, cfg *contract.Config, duration time.Duration) error {
	return PrintCategoricalResults(result, sourceName, cfg, duration)
}

// WriteSeries prints time-series aggregation results using the configured output format.
func (ow *OutWriter) WriteSeries(points []schema.ChartPoint, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(points, cfg, duration)
}

// WriteDrilldown prints the result rows behind a selected point using the configured output format.
func (ow *OutWriter) WriteDrilldown(rows []schema.DrilldownRow, cfg *contract.Config, duration time.Duration) error {
	return PrintDrilldownResults(rows, cfg, duration)
}

// WriteSketches prints per-field statistic sketches using the configured output format.
func (ow *OutWriter) WriteSketches(sketches []schema.FieldSketch, cfg *contract.Config, duration time.Duration) error {
	return PrintSketchResults(sketches, cfg, duration)
}
