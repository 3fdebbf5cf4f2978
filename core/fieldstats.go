package core

import (
	"sort"
	"time"

	"github.com/annolab/pivot/internal"
	"github.com/annolab/pivot/schema"
)

// topKLimit bounds the most-common list kept per string field.
const topKLimit = 10

// fieldAcc accumulates one flattened field path across a result set.
type fieldAcc struct {
	kind  schema.ValueKind
	count int
	nulls int

	sum   float64
	sumSq float64
	min   float64
	max   float64
	nums  int

	topk map[string]int

	trueCount  int
	falseCount int

	minTime time.Time
	maxTime time.Time
}

// ComputeFieldSketches summarizes every flattened field path across a result
// set into a statistic sketch: numeric summaries, top-k string counts, bool
// counts, or datetime ranges depending on the observed value kind. Sketches
// are returned sorted by field path.
func ComputeFieldSketches(results []schema.AnnotationResult, includeFailed bool) []schema.FieldSketch {
	accs := make(map[string]*fieldAcc)

	for _, r := range results {
		if !includeFailed && r.Status != schema.StatusSuccess {
			continue
		}
		for _, kv := range flattenValue("", r.Value) {
			kind := valueKindOf(kv.value)
			acc := accs[kv.path]
			if acc == nil {
				acc = &fieldAcc{kind: kind}
				accs[kv.path] = acc
			}
			acc.count++
			switch kind {
			case schema.NullKind:
				acc.nulls++
			case schema.NumberKind:
				x, _ := numericValue(kv.value, schema.NumberField)
				if acc.nums == 0 || x < acc.min {
					acc.min = x
				}
				if acc.nums == 0 || x > acc.max {
					acc.max = x
				}
				acc.sum += x
				acc.sumSq += x * x
				acc.nums++
			case schema.StringKind:
				if acc.topk == nil {
					acc.topk = make(map[string]int)
				}
				acc.topk[kv.value.(string)]++
			case schema.BoolKind:
				if kv.value.(bool) {
					acc.trueCount++
				} else {
					acc.falseCount++
				}
			case schema.DatetimeKind:
				t, _ := internal.ParseFlexibleTime(kv.value)
				if acc.minTime.IsZero() || t.Before(acc.minTime) {
					acc.minTime = t
				}
				if acc.maxTime.IsZero() || t.After(acc.maxTime) {
					acc.maxTime = t
				}
			}
		}
	}

	sketches := make([]schema.FieldSketch, 0, len(accs))
	for path, acc := range accs {
		sketches = append(sketches, acc.sketch(path))
	}
	sort.Slice(sketches, func(i, j int) bool { return sketches[i].FieldPath < sketches[j].FieldPath })
	return sketches
}

// sketch finalizes an accumulator into its output form.
func (acc *fieldAcc) sketch(path string) schema.FieldSketch {
	out := schema.FieldSketch{
		FieldPath: path,
		Kind:      acc.kind,
		Sketch:    schema.CountSketch,
		Count:     acc.count,
		Nulls:     acc.nulls,
	}
	switch {
	case acc.kind == schema.NumberKind && acc.nums > 0:
		n := float64(acc.nums)
		mean := acc.sum / n
		variance := acc.sumSq/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		out.Sketch = schema.NumberSummarySketch
		out.Min = acc.min
		out.Max = acc.max
		out.Mean = mean
		out.Variance = variance
	case acc.kind == schema.StringKind && len(acc.topk) > 0:
		out.Sketch = schema.TopKSketch
		out.TopK = topCounts(acc.topk, topKLimit)
	case acc.kind == schema.BoolKind:
		out.Sketch = schema.BoolCountsSketch
		out.TrueCount = acc.trueCount
		out.FalseCount = acc.falseCount
	case acc.kind == schema.DatetimeKind && !acc.minTime.IsZero():
		out.Sketch = schema.DatetimeMinMaxSketch
		out.MinTime = acc.minTime
		out.MaxTime = acc.maxTime
	}
	return out
}

type flatKV struct {
	path  string
	value any
}

// flattenValue walks a result value depth-first, emitting one entry per
// leaf; arrays and scalars are leaves, nested objects recurse with a dotted
// prefix.
func flattenValue(prefix string, obj map[string]any) []flatKV {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []flatKV
	for _, name := range names {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if nested, ok := obj[name].(map[string]any); ok {
			out = append(out, flattenValue(path, nested)...)
			continue
		}
		out = append(out, flatKV{path: path, value: obj[name]})
	}
	return out
}

// valueKindOf classifies a leaf value. Strings that parse as timestamps
// count as datetimes.
func valueKindOf(v any) schema.ValueKind {
	switch val := v.(type) {
	case nil:
		return schema.NullKind
	case bool:
		return schema.BoolKind
	case float64, float32, int, int64:
		return schema.NumberKind
	case string:
		if _, ok := internal.ParseFlexibleTime(val); ok {
			return schema.DatetimeKind
		}
		return schema.StringKind
	case []any, []string:
		return schema.ArrayKind
	default:
		return schema.ObjectKind
	}
}

// topCounts returns the k most common entries, ties broken by ascending
// name for determinism.
func topCounts(counts map[string]int, k int) []schema.CategoryCount {
	out := make([]schema.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, schema.CategoryCount{Category: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
