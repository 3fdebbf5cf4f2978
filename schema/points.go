package schema

import (
	"sort"
	"time"
)

// AggregatedKey is the axis key used when no source or split breakdown is
// requested.
const AggregatedKey = "all"

// OtherCategory is the label of the collapsed bucket produced when distinct
// categories exceed the slice limit.
const OtherCategory = "Other"

// CategoryCount is an ordered (category, count) pair.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// GroupedPoint is one row of a categorical aggregation: a distinct field
// value with its total count, per-source counts, and the contributing asset
// ids partitioned by source for drill-down.
type GroupedPoint struct {
	Category       string            `json:"category"`
	Count          int               `json:"count"`
	SourceCounts   map[int64]int     `json:"source_counts,omitempty"`
	AssetsBySource map[int64][]int64 `json:"assets_by_source,omitempty"`
	// Other marks the collapsed bucket holding all categories beyond the
	// slice limit.
	Other bool `json:"other,omitempty"`
}

// AssetIDs returns the deduplicated contributing asset ids across all
// sources, in ascending order.
func (p GroupedPoint) AssetIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, assets := range p.AssetsBySource {
		for _, id := range assets {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CategoricalResult is the output of a categorical aggregation: one ordered
// point list per axis bucket, plus the membership of each collapsed "Other"
// bucket so a later drill-down can reconstruct it.
type CategoricalResult struct {
	// AxisKeys holds the bucket keys in deterministic render order.
	AxisKeys []string `json:"axis_keys"`
	// Buckets maps an axis key to its points, sorted by descending count.
	Buckets map[string][]GroupedPoint `json:"buckets"`
	// OtherMembers maps an axis key to the category names collapsed into
	// its "Other" bucket.
	OtherMembers map[string][]string `json:"other_members,omitempty"`
}

// FieldStat holds per-bucket numeric aggregates for one field.
type FieldStat struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// ChartPoint is one time bucket of a series aggregation, keyed by its bucket
// label. Fields maps "schemaName.fieldPath" to the bucket's aggregates.
type ChartPoint struct {
	Key      string               `json:"key"`
	Start    time.Time            `json:"start"`
	Count    int                  `json:"count"`
	AssetIDs []int64              `json:"asset_ids"`
	Fields   map[string]FieldStat `json:"fields,omitempty"`
}

// ValueKind classifies a flattened field value for statistic sketches.
type ValueKind string

// Value kinds.
const (
	NumberKind   ValueKind = "number"
	StringKind   ValueKind = "string"
	BoolKind     ValueKind = "bool"
	DatetimeKind ValueKind = "datetime"
	ArrayKind    ValueKind = "array"
	ObjectKind   ValueKind = "object"
	NullKind     ValueKind = "null"
)

// SketchKind names the statistic shape carried by a FieldSketch.
type SketchKind string

// Sketch kinds.
const (
	CountSketch          SketchKind = "count"
	NumberSummarySketch  SketchKind = "number_summary"
	TopKSketch           SketchKind = "topk"
	BoolCountsSketch     SketchKind = "bool_counts"
	DatetimeMinMaxSketch SketchKind = "datetime_minmax"
)

// FieldSketch is a per-field statistic summary over a result set. Which of
// the optional fields are meaningful depends on Sketch.
type FieldSketch struct {
	FieldPath string     `json:"field_path"`
	Kind      ValueKind  `json:"value_kind"`
	Sketch    SketchKind `json:"sketch_kind"`
	Count     int        `json:"count"`
	Nulls     int        `json:"nulls"`

	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Mean     float64 `json:"mean,omitempty"`
	Variance float64 `json:"variance,omitempty"`

	TopK []CategoryCount `json:"topk,omitempty"`

	TrueCount  int `json:"true_count,omitempty"`
	FalseCount int `json:"false_count,omitempty"`

	MinTime time.Time `json:"min_time,omitzero"`
	MaxTime time.Time `json:"max_time,omitzero"`
}

// DrilldownRow is one display row of a drill-down subset, joining a result
// with its asset and source for presentation.
type DrilldownRow struct {
	ResultID   int64        `json:"result_id"`
	AssetID    int64        `json:"asset_id"`
	AssetTitle string       `json:"asset_title,omitempty"`
	SourceID   int64        `json:"source_id"`
	SourceName string       `json:"source_name,omitempty"`
	Status     ResultStatus `json:"status"`
	Timestamp  time.Time    `json:"timestamp,omitzero"`
	// Preview is a short rendering of the result value.
	Preview string `json:"preview,omitempty"`
}

// EnrichedGroupedPoint adds presentation data to a GroupedPoint.
type EnrichedGroupedPoint struct {
	Rank  int     `json:"rank"`
	Share float64 `json:"share"`
	GroupedPoint
}

// EnrichGrouped adds rank and share-of-total to an ordered point list.
func EnrichGrouped(points []GroupedPoint) []EnrichedGroupedPoint {
	total := 0
	for _, p := range points {
		total += p.Count
	}
	output := make([]EnrichedGroupedPoint, len(points))
	for i, p := range points {
		share := 0.0
		if total > 0 {
			share = float64(p.Count) / float64(total) * 100
		}
		output[i] = EnrichedGroupedPoint{
			Rank:         i + 1,
			Share:        share,
			GroupedPoint: p,
		}
	}
	return output
}
