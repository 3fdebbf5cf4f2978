package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Placeholder categories produced by normalization. Missing fields and empty
// lists are distinct so charts can tell them apart.
const (
	CategoryNA        = "N/A"
	CategoryEmptyList = "N/A (from empty list)"
	CategoryComplex   = "[Complex Object]"
)

// NormalizeValue converts an extracted field value into display-safe
// category labels. A non-empty array fans out into one category per element,
// so a single result may contribute to several categories. Never returns an
// empty slice.
func NormalizeValue(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{CategoryNA}
	case bool:
		if val {
			return []string{"True"}
		}
		return []string{"False"}
	case []any:
		if len(val) == 0 {
			return []string{CategoryEmptyList}
		}
		labels := make([]string, 0, len(val))
		for _, elem := range val {
			labels = append(labels, scalarLabel(elem))
		}
		return labels
	case []string:
		if len(val) == 0 {
			return []string{CategoryEmptyList}
		}
		return append([]string(nil), val...)
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return []string{CategoryComplex}
		}
		return []string{string(data)}
	default:
		return []string{scalarLabel(v)}
	}
}

// NormalizeWithAliases normalizes a value and then rewrites each label
// through the alias map. The same function backs aggregation and drill-down
// so counts and click-through selections never disagree.
func NormalizeWithAliases(v any, aliases map[string]string) []string {
	labels := NormalizeValue(v)
	if len(aliases) == 0 {
		return labels
	}
	for i, label := range labels {
		if canonical, ok := aliases[label]; ok {
			labels[i] = canonical
		}
	}
	return labels
}

// scalarLabel renders a single scalar as a category label. Whole floats drop
// their fractional part so JSON-decoded integers read naturally.
func scalarLabel(v any) string {
	switch val := v.(type) {
	case nil:
		return CategoryNA
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return CategoryComplex
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
