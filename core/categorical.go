package core

import (
	"sort"
	"strconv"

	"github.com/annolab/pivot/schema"
)

// CategoricalRequest is the immutable value object describing one
// categorical aggregation.
type CategoricalRequest struct {
	// SchemaID selects which results participate.
	SchemaID int64
	// FieldPath is the dot-separated path of the grouped field.
	FieldPath string
	// Axis selects the bucket partitioning.
	Axis schema.GroupAxis
	// SplitField is the field path of the split dimension when Axis is
	// split or split-source. SplitSchemaID defaults to SchemaID when zero.
	SplitField    string
	SplitSchemaID int64
	// MaxSlices bounds the number of categories per bucket; zero or
	// negative disables the "Other" collapse.
	MaxSlices int
	// Aliases rewrites normalized category labels to canonical ones.
	Aliases map[string]string
	// IncludeFailed admits results whose status is not success.
	IncludeFailed bool
}

// categoryAcc accumulates one category within one axis bucket.
type categoryAcc struct {
	count          int
	sourceCounts   map[int64]int
	assetsBySource map[int64]map[int64]bool
}

// AggregateCategorical groups results by the normalized values of a field,
// producing one ordered (category, count) list per axis bucket. Categories
// are sorted by descending count with ties broken by ascending category
// name, which keeps repeated runs on identical inputs byte-identical. When
// distinct categories exceed MaxSlices the tail is collapsed into a single
// "Other" bucket whose membership is recorded for later drill-down. The
// function never fails; malformed values degrade to placeholder categories.
func AggregateCategorical(ds *Dataset, req CategoricalRequest) *schema.CategoricalResult {
	buckets := make(map[string]map[string]*categoryAcc)

	for _, r := range ds.Results {
		if !resultEligible(r, req.SchemaID, req.IncludeFailed) {
			continue
		}
		labels := resultCategories(r, req)
		sourceID := ds.sourceOf(r)
		for _, axisKey := range resultAxisKeys(ds, r, req) {
			bucket := buckets[axisKey]
			if bucket == nil {
				bucket = make(map[string]*categoryAcc)
				buckets[axisKey] = bucket
			}
			for _, label := range labels {
				acc := bucket[label]
				if acc == nil {
					acc = &categoryAcc{
						sourceCounts:   make(map[int64]int),
						assetsBySource: make(map[int64]map[int64]bool),
					}
					bucket[label] = acc
				}
				acc.count++
				acc.sourceCounts[sourceID]++
				assets := acc.assetsBySource[sourceID]
				if assets == nil {
					assets = make(map[int64]bool)
					acc.assetsBySource[sourceID] = assets
				}
				assets[r.AssetID] = true
			}
		}
	}

	out := &schema.CategoricalResult{
		Buckets:      make(map[string][]schema.GroupedPoint, len(buckets)),
		OtherMembers: make(map[string][]string),
	}
	for axisKey, bucket := range buckets {
		points := orderedPoints(bucket)
		points, members := collapseTail(points, req.MaxSlices)
		out.Buckets[axisKey] = points
		if len(members) > 0 {
			out.OtherMembers[axisKey] = members
		}
		out.AxisKeys = append(out.AxisKeys, axisKey)
	}
	sort.Strings(out.AxisKeys)
	return out
}

// resultEligible applies the schema and status filters shared by all engine
// entry points.
func resultEligible(r schema.AnnotationResult, schemaID int64, includeFailed bool) bool {
	if schemaID != 0 && r.SchemaID != schemaID {
		return false
	}
	if !includeFailed && r.Status != schema.StatusSuccess {
		return false
	}
	return true
}

// resultCategories returns the deduplicated normalized category labels a
// result contributes to. Deduplication keeps the reported count of a
// category equal to the size of its drill-down subset even when an array
// value repeats an element.
func resultCategories(r schema.AnnotationResult, req CategoricalRequest) []string {
	labels := NormalizeWithAliases(ExtractField(r.Value, req.FieldPath), req.Aliases)
	if len(labels) == 1 {
		return labels
	}
	seen := make(map[string]bool, len(labels))
	deduped := labels[:0]
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			deduped = append(deduped, label)
		}
	}
	return deduped
}

// resultAxisKeys returns the axis bucket keys a result lands in. Split axes
// fan out just like array categories do.
func resultAxisKeys(ds *Dataset, r schema.AnnotationResult, req CategoricalRequest) []string {
	switch req.Axis {
	case schema.SourceAxis:
		return []string{sourceAxisKey(ds.sourceOf(r))}
	case schema.SplitAxis:
		return splitLabels(r, req)
	case schema.SplitSourceAxis:
		sourceKey := sourceAxisKey(ds.sourceOf(r))
		splits := splitLabels(r, req)
		keys := make([]string, len(splits))
		for i, s := range splits {
			keys[i] = s + "|" + sourceKey
		}
		return keys
	default:
		return []string{schema.AggregatedKey}
	}
}

func sourceAxisKey(id int64) string {
	return "source:" + strconv.FormatInt(id, 10)
}

func splitLabels(r schema.AnnotationResult, req CategoricalRequest) []string {
	splitSchema := req.SplitSchemaID
	if splitSchema == 0 {
		splitSchema = req.SchemaID
	}
	if splitSchema != 0 && r.SchemaID != splitSchema {
		return []string{"split:" + CategoryNA}
	}
	labels := NormalizeWithAliases(ExtractField(r.Value, req.SplitField), req.Aliases)
	keys := make([]string, len(labels))
	for i, label := range labels {
		keys[i] = "split:" + label
	}
	return keys
}

// orderedPoints converts an accumulator map into a sorted point list.
func orderedPoints(bucket map[string]*categoryAcc) []schema.GroupedPoint {
	points := make([]schema.GroupedPoint, 0, len(bucket))
	for category, acc := range bucket {
		points = append(points, schema.GroupedPoint{
			Category:       category,
			Count:          acc.count,
			SourceCounts:   acc.sourceCounts,
			AssetsBySource: assetSetsToSlices(acc.assetsBySource),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Category < points[j].Category
	})
	return points
}

// collapseTail applies the top-N reduction: keep the top maxSlices-1 points
// and fold the rest into a terminal "Other" point whose count is the exact
// sum of the collapsed entries. Returns the collapsed category names so the
// caller can later reconstruct what "Other" stands for.
func collapseTail(points []schema.GroupedPoint, maxSlices int) ([]schema.GroupedPoint, []string) {
	if maxSlices <= 0 || len(points) <= maxSlices {
		return points, nil
	}

	kept := points[:maxSlices-1]
	tail := points[maxSlices-1:]

	other := schema.GroupedPoint{
		Category:       schema.OtherCategory,
		Other:          true,
		SourceCounts:   make(map[int64]int),
		AssetsBySource: make(map[int64][]int64),
	}
	members := make([]string, 0, len(tail))
	assetSets := make(map[int64]map[int64]bool)
	for _, p := range tail {
		members = append(members, p.Category)
		other.Count += p.Count
		for src, n := range p.SourceCounts {
			other.SourceCounts[src] += n
		}
		for src, assets := range p.AssetsBySource {
			set := assetSets[src]
			if set == nil {
				set = make(map[int64]bool)
				assetSets[src] = set
			}
			for _, id := range assets {
				set[id] = true
			}
		}
	}
	other.AssetsBySource = assetSetsToSlices(assetSets)

	out := make([]schema.GroupedPoint, 0, maxSlices)
	out = append(out, kept...)
	out = append(out, other)
	return out, members
}

func assetSetsToSlices(sets map[int64]map[int64]bool) map[int64][]int64 {
	out := make(map[int64][]int64, len(sets))
	for src, set := range sets {
		ids := make([]int64, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out[src] = ids
	}
	return out
}
