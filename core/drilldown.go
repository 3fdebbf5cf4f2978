package core

import (
	"github.com/annolab/pivot/schema"
)

// SelectionKind distinguishes clicks on categorical points from clicks on
// time buckets.
type SelectionKind string

// Selection kinds.
const (
	CategorySelection SelectionKind = "category"
	BucketSelection   SelectionKind = "bucket"
)

// Selection identifies the chart point a user clicked. For an "Other" point
// the caller passes the collapsed membership recorded by the aggregation so
// the drill-down matches exactly what the point displays.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	// AxisKey is the categorical bucket the point belongs to.
	AxisKey  string `json:"axis_key,omitempty"`
	Category string `json:"category,omitempty"`
	// Other marks the collapsed top-N tail point, distinguishing it from a
	// genuine category that happens to be labeled "Other".
	Other bool `json:"other,omitempty"`
	// OtherMembers lists the collapsed category names behind that point.
	OtherMembers []string `json:"other_members,omitempty"`
	// BucketKey is the time bucket label for bucket selections.
	BucketKey string `json:"bucket_key,omitempty"`
}

// DrilldownRequest pairs a selection with the aggregation request that
// produced the clicked point.
type DrilldownRequest struct {
	Selection   Selection           `json:"selection"`
	Categorical *CategoricalRequest `json:"categorical,omitempty"`
	Series      *SeriesRequest      `json:"series,omitempty"`
}

// ResolveDrilldown recomputes the exact subset of results behind a clicked
// point, using the same normalization and bucketing rules as aggregation so
// displayed counts and drill-down subsets never disagree. A stateless
// request/response computation; rerunning it is idempotent and cheap.
func ResolveDrilldown(ds *Dataset, req DrilldownRequest) []schema.AnnotationResult {
	switch req.Selection.Kind {
	case BucketSelection:
		if req.Series == nil {
			return nil
		}
		return drilldownBucket(ds, *req.Series, req.Selection.BucketKey)
	default:
		if req.Categorical == nil {
			return nil
		}
		return drilldownCategory(ds, *req.Categorical, req.Selection)
	}
}

func drilldownCategory(ds *Dataset, req CategoricalRequest, sel Selection) []schema.AnnotationResult {
	var wanted map[string]bool
	if sel.Category == schema.OtherCategory && (sel.Other || len(sel.OtherMembers) > 0) {
		// The collapsed point stands for its recorded members only; a
		// collapsed selection without membership matches nothing rather than
		// falling back to the literal "Other" label.
		if len(sel.OtherMembers) == 0 {
			return nil
		}
		wanted = make(map[string]bool, len(sel.OtherMembers))
		for _, member := range sel.OtherMembers {
			wanted[member] = true
		}
	} else {
		wanted = map[string]bool{sel.Category: true}
	}

	var matched []schema.AnnotationResult
	for _, r := range ds.Results {
		if !resultEligible(r, req.SchemaID, req.IncludeFailed) {
			continue
		}
		if sel.AxisKey != "" && !containsKey(resultAxisKeys(ds, r, req), sel.AxisKey) {
			continue
		}
		for _, label := range resultCategories(r, req) {
			if wanted[label] {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

func drilldownBucket(ds *Dataset, req SeriesRequest, bucketKey string) []schema.AnnotationResult {
	var matched []schema.AnnotationResult
	for _, r := range ds.Results {
		if !resultEligible(r, req.SchemaID, req.IncludeFailed) {
			continue
		}
		ts, ok := resolveTimestamp(ds, r, req)
		if !ok {
			continue
		}
		key, _ := BucketKey(ts, req.Granularity)
		if key == bucketKey {
			matched = append(matched, r)
		}
	}
	return matched
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
