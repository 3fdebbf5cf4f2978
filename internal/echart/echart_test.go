package echart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func TestRenderCategoricalChart(t *testing.T) {
	result := schema.CategoricalResult{
		AxisKeys: []string{schema.AggregatedKey, "source:1"},
		Buckets: map[string][]schema.GroupedPoint{
			schema.AggregatedKey: {
				{Category: "Positive", Count: 3},
				{Category: "Negative", Count: 1},
			},
			"source:1": {
				{Category: "Positive", Count: 3},
			},
		},
	}

	var buf bytes.Buffer
	err := RenderCategoricalChart(&buf, result, func(int64) string { return "Newswire" }, "sentiment")
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Positive")
	assert.Contains(t, html, "Negative")
	assert.Contains(t, html, "Newswire")
	assert.Contains(t, html, "echarts")
}

func TestRenderSeriesChart(t *testing.T) {
	points := []schema.ChartPoint{
		{Key: "2024-01", Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		{Key: "2024-02", Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Count: 1},
	}

	var buf bytes.Buffer
	err := RenderSeriesChart(&buf, points, "results per month")
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "2024-01")
	assert.Contains(t, html, "2024-02")
	assert.Contains(t, html, "results per month")
}

func TestAxisSubtitle(t *testing.T) {
	name := func(int64) string { return "Forum" }
	assert.Equal(t, "all results, categories=2", axisSubtitle(schema.AggregatedKey, name, 2))
	assert.Equal(t, "Forum, categories=1", axisSubtitle("source:2", name, 1))
	assert.Equal(t, "split:Positive, categories=1", axisSubtitle("split:Positive", name, 1))
}
