package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func statsResult(id int64, value map[string]any) schema.AnnotationResult {
	return schema.AnnotationResult{ID: id, AssetID: 10, SchemaID: 7, Value: value, Status: schema.StatusSuccess}
}

func TestComputeFieldSketchesNumberSummary(t *testing.T) {
	sketches := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{"score": 1.0}),
		statsResult(2, map[string]any{"score": 2.0}),
		statsResult(3, map[string]any{"score": 3.0}),
	}, false)

	require.Len(t, sketches, 1)
	s := sketches[0]
	assert.Equal(t, "score", s.FieldPath)
	assert.Equal(t, schema.NumberKind, s.Kind)
	assert.Equal(t, schema.NumberSummarySketch, s.Sketch)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 3.0, s.Max, 1e-9)
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0/3.0, s.Variance, 1e-9)
}

func TestComputeFieldSketchesTopK(t *testing.T) {
	results := []schema.AnnotationResult{
		statsResult(1, map[string]any{"label": "alpha"}),
		statsResult(2, map[string]any{"label": "alpha"}),
		statsResult(3, map[string]any{"label": "beta"}),
	}

	sketches := ComputeFieldSketches(results, false)

	require.Len(t, sketches, 1)
	s := sketches[0]
	assert.Equal(t, schema.TopKSketch, s.Sketch)
	require.Len(t, s.TopK, 2)
	assert.Equal(t, schema.CategoryCount{Category: "alpha", Count: 2}, s.TopK[0])
	assert.Equal(t, schema.CategoryCount{Category: "beta", Count: 1}, s.TopK[1])
}

func TestComputeFieldSketchesTopKLimit(t *testing.T) {
	var results []schema.AnnotationResult
	for i := range 15 {
		results = append(results, statsResult(int64(i), map[string]any{"label": string(rune('a' + i))}))
	}

	sketches := ComputeFieldSketches(results, false)

	require.Len(t, sketches, 1)
	assert.Len(t, sketches[0].TopK, topKLimit)
}

func TestComputeFieldSketchesBoolCounts(t *testing.T) {
	sketches := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{"verified": true}),
		statsResult(2, map[string]any{"verified": true}),
		statsResult(3, map[string]any{"verified": false}),
	}, false)

	require.Len(t, sketches, 1)
	s := sketches[0]
	assert.Equal(t, schema.BoolCountsSketch, s.Sketch)
	assert.Equal(t, 2, s.TrueCount)
	assert.Equal(t, 1, s.FalseCount)
}

func TestComputeFieldSketchesDatetimeMinMax(t *testing.T) {
	sketches := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{"published_at": "2024-03-01T10:00:00Z"}),
		statsResult(2, map[string]any{"published_at": "2024-01-15"}),
	}, false)

	require.Len(t, sketches, 1)
	s := sketches[0]
	assert.Equal(t, schema.DatetimeKind, s.Kind)
	assert.Equal(t, schema.DatetimeMinMaxSketch, s.Sketch)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), s.MinTime)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), s.MaxTime)
}

func TestComputeFieldSketchesNestedPaths(t *testing.T) {
	sketches := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{
			"document": map[string]any{"confidence": 0.8},
			"label":    "alpha",
		}),
	}, false)

	require.Len(t, sketches, 2)
	// Sorted by field path.
	assert.Equal(t, "document.confidence", sketches[0].FieldPath)
	assert.Equal(t, "label", sketches[1].FieldPath)
}

func TestComputeFieldSketchesNullsAndStatus(t *testing.T) {
	failed := statsResult(2, map[string]any{"label": "beta"})
	failed.Status = schema.StatusFailure

	sketches := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{"label": nil}),
		failed,
	}, false)

	require.Len(t, sketches, 1)
	assert.Equal(t, 1, sketches[0].Count)
	assert.Equal(t, 1, sketches[0].Nulls)

	withFailed := ComputeFieldSketches([]schema.AnnotationResult{
		statsResult(1, map[string]any{"label": nil}),
		failed,
	}, true)
	require.Len(t, withFailed, 1)
	assert.Equal(t, 2, withFailed[0].Count)
}

func TestValueKindOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want schema.ValueKind
	}{
		{"nil", nil, schema.NullKind},
		{"bool", true, schema.BoolKind},
		{"float", 1.5, schema.NumberKind},
		{"plain string", "hello", schema.StringKind},
		{"datetime string", "2024-01-01", schema.DatetimeKind},
		{"array", []any{1}, schema.ArrayKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valueKindOf(tt.in))
		})
	}
}
