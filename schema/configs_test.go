package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseGranularity tests granularity validation.
func TestParseGranularity(t *testing.T) {
	for _, valid := range []string{"day", "week", "month", "quarter", "year"} {
		g, err := ParseGranularity(valid)
		assert.NoError(t, err)
		assert.Equal(t, Granularity(valid), g)
	}
	_, err := ParseGranularity("fortnight")
	assert.Error(t, err)
}

// TestParseGroupAxis tests grouping axis validation.
func TestParseGroupAxis(t *testing.T) {
	for _, valid := range []string{"aggregated", "source", "split", "split-source"} {
		a, err := ParseGroupAxis(valid)
		assert.NoError(t, err)
		assert.Equal(t, GroupAxis(valid), a)
	}
	_, err := ParseGroupAxis("by-author")
	assert.Error(t, err)
}

// TestParseTimeAxisMode tests time axis validation.
func TestParseTimeAxisMode(t *testing.T) {
	for _, valid := range []string{"result", "asset", "field"} {
		m, err := ParseTimeAxisMode(valid)
		assert.NoError(t, err)
		assert.Equal(t, TimeAxisMode(valid), m)
	}
	_, err := ParseTimeAxisMode("wallclock")
	assert.Error(t, err)
}

// TestParseOutputMode tests output mode validation.
func TestParseOutputMode(t *testing.T) {
	for _, valid := range []string{"text", "csv", "json", "parquet", "chart"} {
		m, err := ParseOutputMode(valid)
		assert.NoError(t, err)
		assert.Equal(t, OutputMode(valid), m)
	}
	_, err := ParseOutputMode("xml")
	assert.Error(t, err)
}

// TestParseDatabaseBackend tests backend validation.
func TestParseFilterLogic(t *testing.T) {
	for _, valid := range []string{"and", "or"} {
		l, err := ParseFilterLogic(valid)
		assert.NoError(t, err)
		assert.Equal(t, FilterLogic(valid), l)
	}
	_, err := ParseFilterLogic("nand")
	assert.Error(t, err)
}

func TestParseDatabaseBackend(t *testing.T) {
	for _, valid := range []string{"sqlite", "mysql", "postgresql", "none"} {
		b, err := ParseDatabaseBackend(valid)
		assert.NoError(t, err)
		assert.Equal(t, DatabaseBackend(valid), b)
	}
	_, err := ParseDatabaseBackend("oracle")
	assert.Error(t, err)
}

// TestEnrichGrouped tests rank and share enrichment.
func TestEnrichGrouped(t *testing.T) {
	points := []GroupedPoint{
		{Category: "politics", Count: 6},
		{Category: "economy", Count: 3},
		{Category: "sports", Count: 1},
	}
	enriched := EnrichGrouped(points)
	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.InDelta(t, 60.0, enriched[0].Share, 0.001)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.InDelta(t, 10.0, enriched[2].Share, 0.001)

	assert.Empty(t, EnrichGrouped(nil))
}

// TestGroupedPointAssetIDs tests deduplication across sources.
func TestGroupedPointAssetIDs(t *testing.T) {
	p := GroupedPoint{
		AssetsBySource: map[int64][]int64{
			1: {30, 10},
			2: {20, 10},
		},
	}
	assert.Equal(t, []int64{10, 20, 30}, p.AssetIDs())
}
