// Package core implements the pivot engine: pure aggregation of annotation
// results into categorical groupings, time-bucketed series, drill-down
// subsets, and per-field statistic sketches.
package core

import "strings"

// ExtractField returns the value at a dot-separated field path inside a
// result value, or nil if absent. It attempts a hierarchical lookup first,
// then falls back to a flat lookup using only the last path segment, since
// schemas may store data either nested under a wrapper key or flat at top
// level. Pure function, no side effects.
func ExtractField(value map[string]any, path string) any {
	if value == nil || path == "" {
		return nil
	}

	// Hierarchical: walk each segment through nested objects.
	segments := strings.Split(path, ".")
	current := any(value)
	found := true
	for _, seg := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			found = false
			break
		}
		current, ok = obj[seg]
		if !ok {
			found = false
			break
		}
	}
	if found && current != nil {
		return current
	}

	// Flat fallback: last segment at top level.
	last := segments[len(segments)-1]
	if v, ok := value[last]; ok {
		return v
	}
	return nil
}
