package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func timedResult(id, assetID int64, ts time.Time, value map[string]any) schema.AnnotationResult {
	return schema.AnnotationResult{
		ID:        id,
		AssetID:   assetID,
		SchemaID:  7,
		Value:     value,
		Status:    schema.StatusSuccess,
		Timestamp: ts,
	}
}

func TestBucketKey(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		granularity schema.Granularity
		wantKey     string
		wantStart   time.Time
	}{
		{schema.DayGranularity, "2024-05-15", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{schema.WeekGranularity, "2024-W20", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)},
		{schema.MonthGranularity, "2024-05", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{schema.QuarterGranularity, "2024-Q2", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{schema.YearGranularity, "2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			key, start := BucketKey(ts, tt.granularity)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantStart, start)
		})
	}
}

func TestBucketKeyISOWeekYearBoundary(t *testing.T) {
	// 2024-12-30 is a Monday belonging to ISO week 1 of 2025.
	key, start := BucketKey(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC), schema.WeekGranularity)
	assert.Equal(t, "2025-W01", key)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), start)
}

func TestBucketKeyUTCNormalization(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2024-06-01 02:00 +10:00 is still 2024-05-31 in UTC.
	key, _ := BucketKey(time.Date(2024, 6, 1, 2, 0, 0, 0, loc), schema.DayGranularity)
	assert.Equal(t, "2024-05-31", key)
}

func TestAggregateTimeSeriesMonthBuckets(t *testing.T) {
	ds := newTestDataset([]schema.AnnotationResult{
		timedResult(1, 10, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), map[string]any{"sentiment": "Positive"}),
		timedResult(2, 11, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), map[string]any{"sentiment": "Negative"}),
		timedResult(3, 12, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), map[string]any{"sentiment": "Positive"}),
	})

	points := AggregateTimeSeries(ds, SeriesRequest{SchemaID: 7, Granularity: schema.MonthGranularity})

	require.Len(t, points, 2)
	assert.Equal(t, "2024-01", points[0].Key)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, []int64{10, 11}, points[0].AssetIDs)
	assert.Equal(t, "2024-02", points[1].Key)
	assert.Equal(t, 1, points[1].Count)
}

func TestAggregateTimeSeriesRunningStats(t *testing.T) {
	ts := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	ds := newTestDataset([]schema.AnnotationResult{
		timedResult(1, 10, ts, map[string]any{"score": 10.0}),
		timedResult(2, 11, ts, map[string]any{"score": 20.0}),
		timedResult(3, 12, ts, map[string]any{"score": 30.0}),
	})

	points := AggregateTimeSeries(ds, SeriesRequest{SchemaID: 7, Granularity: schema.MonthGranularity})

	require.Len(t, points, 1)
	st, ok := points[0].Fields["sentiment.score"]
	require.True(t, ok)
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 10.0, st.Min, 1e-9)
	assert.InDelta(t, 30.0, st.Max, 1e-9)
	assert.InDelta(t, 20.0, st.Avg, 1e-9)
}

func TestAggregateTimeSeriesStatsOrderIndependent(t *testing.T) {
	ts := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	forward := []schema.AnnotationResult{
		timedResult(1, 10, ts, map[string]any{"score": 10.0}),
		timedResult(2, 11, ts, map[string]any{"score": 20.0}),
		timedResult(3, 12, ts, map[string]any{"score": 30.0}),
	}
	reversed := []schema.AnnotationResult{forward[2], forward[1], forward[0]}

	req := SeriesRequest{SchemaID: 7, Granularity: schema.MonthGranularity}
	a := AggregateTimeSeries(newTestDataset(forward), req)
	b := AggregateTimeSeries(newTestDataset(reversed), req)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	sa, sb := a[0].Fields["sentiment.score"], b[0].Fields["sentiment.score"]
	assert.InDelta(t, sa.Avg, sb.Avg, 1e-9)
	assert.Equal(t, sa.Min, sb.Min)
	assert.Equal(t, sa.Max, sb.Max)
}

func TestAggregateTimeSeriesAssetAxis(t *testing.T) {
	// Result timestamps in March, asset event timestamps in January/February.
	ds := newTestDataset([]schema.AnnotationResult{
		timedResult(1, 10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), map[string]any{"sentiment": "Positive"}),
		timedResult(2, 12, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), map[string]any{"sentiment": "Negative"}),
	})

	points := AggregateTimeSeries(ds, SeriesRequest{
		SchemaID:    7,
		TimeAxis:    schema.AssetTimeAxis,
		Granularity: schema.MonthGranularity,
	})

	require.Len(t, points, 2)
	assert.Equal(t, "2024-01", points[0].Key)
	assert.Equal(t, "2024-02", points[1].Key)
}

func TestAggregateTimeSeriesFieldAxis(t *testing.T) {
	ds := newTestDataset([]schema.AnnotationResult{
		timedResult(1, 10, time.Time{}, map[string]any{"published_at": "2023-11-05T12:00:00Z"}),
		timedResult(2, 11, time.Time{}, map[string]any{"published_at": "2023-12-01"}),
		// No parsable timestamp: dropped, not an error.
		timedResult(3, 12, time.Time{}, map[string]any{"published_at": "not a date"}),
	})

	points := AggregateTimeSeries(ds, SeriesRequest{
		SchemaID:    7,
		TimeAxis:    schema.FieldTimeAxis,
		TimeField:   "published_at",
		Granularity: schema.MonthGranularity,
	})

	require.Len(t, points, 2)
	assert.Equal(t, "2023-11", points[0].Key)
	assert.Equal(t, "2023-12", points[1].Key)
	assert.Equal(t, 1, points[0].Count)
}

func TestAggregateTimeSeriesDropsZeroTimestamps(t *testing.T) {
	ds := newTestDataset([]schema.AnnotationResult{
		timedResult(1, 10, time.Time{}, map[string]any{"sentiment": "Positive"}),
	})

	points := AggregateTimeSeries(ds, SeriesRequest{SchemaID: 7, Granularity: schema.MonthGranularity})
	assert.Empty(t, points)
}

func TestNumericValueCoercions(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		ft     schema.FieldType
		want   float64
		wantOK bool
	}{
		{"float", 2.5, schema.NumberField, 2.5, true},
		{"int", 3, schema.IntegerField, 3, true},
		{"bool true", true, schema.BooleanField, 1, true},
		{"bool false", false, schema.BooleanField, 0, true},
		{"array length", []any{"a", "b", "c"}, schema.StringArrayField, 3, true},
		{"numeric string", "4.5", schema.TextField, 4.5, true},
		{"plain string length", "abc", schema.TextField, 3, true},
		{"nil", nil, schema.NumberField, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericValue(tt.in, tt.ft)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
