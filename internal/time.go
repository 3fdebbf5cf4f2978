// Package internal holds shared helpers that sit below the engine and the
// command layer.
package internal

import "time"

// timestampLayouts are tried in order when parsing string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFlexibleTime coerces a JSON-shaped value into a timestamp. Strings
// are tried against common layouts; numbers are treated as Unix epochs,
// with values above 1e12 read as milliseconds. A false return means the
// value carries no resolvable timestamp, which callers treat as a drop.
func ParseFlexibleTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		return epochTime(val)
	case int64:
		return epochTime(float64(val))
	case int:
		return epochTime(float64(val))
	default:
		return time.Time{}, false
	}
}

// epochTime interprets a numeric value as seconds or milliseconds since the
// Unix epoch.
func epochTime(v float64) (time.Time, bool) {
	if v <= 0 {
		return time.Time{}, false
	}
	if v > 1e12 {
		return time.UnixMilli(int64(v)).UTC(), true
	}
	return time.Unix(int64(v), 0).UTC(), true
}
