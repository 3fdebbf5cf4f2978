// Package echart renders aggregation results as standalone HTML charts using
// github.com/go-echarts/go-echarts.
package echart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/annolab/pivot/schema"
)

// RenderCategoricalChart writes one pie chart per axis bucket as a single
// HTML document. Multi-axis results stack their charts vertically.
func RenderCategoricalChart(w io.Writer, result schema.CategoricalResult, sourceName func(int64) string, title string) error {
	for _, axisKey := range result.AxisKeys {
		points := result.Buckets[axisKey]
		data := make([]opts.PieData, 0, len(points))
		for _, p := range points {
			data = append(data, opts.PieData{Name: p.Category, Value: p.Count})
		}

		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
			charts.WithTitleOpts(opts.Title{Title: title, Subtitle: axisSubtitle(axisKey, sourceName, len(points))},
			),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		pie.AddSeries(axisKey, data, charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"30%", "70%"},
		}))

		if err := pie.Render(w); err != nil {
			return fmt.Errorf("failed to render chart for %s: %w", axisKey, err)
		}
	}
	return nil
}

// RenderSeriesChart writes a bar chart of bucket counts as an HTML document.
func RenderSeriesChart(w io.Writer, points []schema.ChartPoint, title string) error {
	keys := make([]string, 0, len(points))
	data := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		keys = append(keys, p.Key)
		data = append(data, opts.BarData{Value: p.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("buckets=%d", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "bucket"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "results"}),
	)
	bar.SetXAxis(keys)
	bar.AddSeries("results", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render series chart: %w", err)
	}
	return nil
}

func axisSubtitle(axisKey string, sourceName func(int64) string, categories int) string {
	label := axisKey
	if axisKey == schema.AggregatedKey {
		label = "all results"
	} else if id, ok := parseSourceKey(axisKey); ok && sourceName != nil {
		label = sourceName(id)
	}
	return fmt.Sprintf("%s, categories=%d", label, categories)
}

func parseSourceKey(axisKey string) (int64, bool) {
	rest, ok := strings.CutPrefix(axisKey, "source:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
