package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/annolab/pivot/internal"
	"github.com/annolab/pivot/schema"
)

// SeriesRequest is the immutable value object describing one time-series
// aggregation.
type SeriesRequest struct {
	// SchemaID restricts participating results; zero admits all schemas.
	SchemaID int64
	// TimeAxis selects which timestamp buckets a result: its own, the
	// asset event timestamp, or a value extracted from a schema field.
	TimeAxis schema.TimeAxisMode
	// TimeField and TimeSchemaID locate the timestamp field when TimeAxis
	// is field. TimeSchemaID defaults to SchemaID when zero.
	TimeField    string
	TimeSchemaID int64
	Granularity  schema.Granularity
	IncludeFailed bool
}

// seriesAcc accumulates one time bucket during aggregation.
type seriesAcc struct {
	start  time.Time
	count  int
	assets map[int64]bool
	fields map[string]*schema.FieldStat
}

// AggregateTimeSeries buckets results by their resolved timestamp and
// computes per-field numeric aggregates within each bucket. Results without
// a resolvable timestamp are dropped silently, which is acceptable lossy
// behavior rather than an error. Displayed raw values are running averages
// of all contributing values, updated incrementally so repeated additions to
// a hot bucket stay O(1). Buckets are emitted sorted ascending by start.
func AggregateTimeSeries(ds *Dataset, req SeriesRequest) []schema.ChartPoint {
	buckets := make(map[string]*seriesAcc)

	for _, r := range ds.Results {
		if !resultEligible(r, req.SchemaID, req.IncludeFailed) {
			continue
		}
		ts, ok := resolveTimestamp(ds, r, req)
		if !ok {
			continue
		}
		key, start := BucketKey(ts, req.Granularity)
		acc := buckets[key]
		if acc == nil {
			acc = &seriesAcc{
				start:  start,
				assets: make(map[int64]bool),
				fields: make(map[string]*schema.FieldStat),
			}
			buckets[key] = acc
		}
		acc.count++
		acc.assets[r.AssetID] = true
		accumulateFields(ds, r, acc)
	}

	points := make([]schema.ChartPoint, 0, len(buckets))
	for key, acc := range buckets {
		ids := make([]int64, 0, len(acc.assets))
		for id := range acc.assets {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		fields := make(map[string]schema.FieldStat, len(acc.fields))
		for label, st := range acc.fields {
			fields[label] = *st
		}
		points = append(points, schema.ChartPoint{
			Key:      key,
			Start:    acc.start,
			Count:    acc.count,
			AssetIDs: ids,
			Fields:   fields,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Start.Before(points[j].Start) })
	return points
}

// resolveTimestamp applies the configured time axis to one result. The same
// resolution backs aggregation and drill-down.
func resolveTimestamp(ds *Dataset, r schema.AnnotationResult, req SeriesRequest) (time.Time, bool) {
	switch req.TimeAxis {
	case schema.AssetTimeAxis:
		a, ok := ds.Assets[r.AssetID]
		if !ok || a.EventTimestamp.IsZero() {
			return time.Time{}, false
		}
		return a.EventTimestamp, true
	case schema.FieldTimeAxis:
		timeSchema := req.TimeSchemaID
		if timeSchema == 0 {
			timeSchema = req.SchemaID
		}
		if timeSchema != 0 && r.SchemaID != timeSchema {
			return time.Time{}, false
		}
		return internal.ParseFlexibleTime(ExtractField(r.Value, req.TimeField))
	default:
		if r.Timestamp.IsZero() {
			return time.Time{}, false
		}
		return r.Timestamp, true
	}
}

// accumulateFields folds a result's contract fields into the bucket's
// numeric aggregates.
func accumulateFields(ds *Dataset, r schema.AnnotationResult, acc *seriesAcc) {
	s, ok := ds.Contracts.Schema(r.SchemaID)
	if !ok {
		return
	}
	prefix := s.Name
	if prefix == "" {
		prefix = "schema " + strconv.FormatInt(s.ID, 10)
	}
	for _, def := range ds.Contracts.Fields(r.SchemaID) {
		if def.Type == schema.ObjectField {
			continue
		}
		x, ok := numericValue(ExtractField(r.Value, def.Path), def.Type)
		if !ok {
			continue
		}
		label := prefix + "." + def.Path
		st := acc.fields[label]
		if st == nil {
			st = &schema.FieldStat{Min: x, Max: x}
			acc.fields[label] = st
		}
		st.Count++
		if x < st.Min {
			st.Min = x
		}
		if x > st.Max {
			st.Max = x
		}
		// Incremental mean update; a full recompute would be quadratic as
		// results accumulate into a bucket.
		st.Avg += (x - st.Avg) / float64(st.Count)
	}
}

// numericValue coerces a field value to a number for series aggregation.
// Arrays use their element count, strings parse as numbers or fall back to
// their length, booleans map to 1/0.
func numericValue(v any, ft schema.FieldType) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case []any:
		return float64(len(val)), true
	case []string:
		return float64(len(val)), true
	case string:
		if ft == schema.TextField || ft == schema.IntegerField || ft == schema.NumberField {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f, true
			}
			return float64(len(val)), true
		}
		return float64(len(val)), true
	default:
		return 0, false
	}
}

// BucketKey derives the bucket label and inclusive start for a timestamp at
// the given granularity. Keys sort lexicographically in chronological order
// within one granularity. All bucketing is done in UTC.
func BucketKey(t time.Time, g schema.Granularity) (string, time.Time) {
	t = t.UTC()
	switch g {
	case schema.DayGranularity:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01-02"), start
	case schema.WeekGranularity:
		// ISO week, keyed by its Monday.
		year, week := t.ISOWeek()
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		for start.Weekday() != time.Monday {
			start = start.AddDate(0, 0, -1)
		}
		return fmt.Sprintf("%04d-W%02d", year, week), start
	case schema.QuarterGranularity:
		q := (int(t.Month())-1)/3 + 1
		start := time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d-Q%d", t.Year(), q), start
	case schema.YearGranularity:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006"), start
	default: // month
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start
	}
}
