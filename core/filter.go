package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/annolab/pivot/schema"
)

// FilterOp is a comparison operator applied to an extracted field value.
type FilterOp string

// Filter operators.
const (
	OpEq          FilterOp = "eq"
	OpNeq         FilterOp = "neq"
	OpGt          FilterOp = "gt"
	OpGte         FilterOp = "gte"
	OpLt          FilterOp = "lt"
	OpLte         FilterOp = "lte"
	OpContains    FilterOp = "contains"
	OpNotContains FilterOp = "not_contains"
	OpStartsWith  FilterOp = "starts_with"
	OpEndsWith    FilterOp = "ends_with"
	OpRegex       FilterOp = "regex"
	OpIn          FilterOp = "in"
	OpNotIn       FilterOp = "not_in"
	OpExists      FilterOp = "exists"
	OpNotExists   FilterOp = "not_exists"
)

// FilterRule is one field/operator/value predicate evaluated against a
// result value with the same dot-path extraction as aggregation.
type FilterRule struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value string   `json:"value,omitempty"`
}

// FilterSet combines rules with a logical operator. An empty set matches
// everything; an empty Logic means AndFilterLogic.
type FilterSet struct {
	Logic schema.FilterLogic `json:"logic,omitempty"`
	Rules []FilterRule       `json:"rules,omitempty"`
}

// ParseFilterFlag parses a command-line filter of the form
// "field:op" (existence operators) or "field:op:value".
func ParseFilterFlag(s string) (FilterRule, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return FilterRule{}, fmt.Errorf("invalid filter %q: expected field:op[:value]", s)
	}
	rule := FilterRule{Field: parts[0], Op: FilterOp(parts[1])}
	if len(parts) == 3 {
		rule.Value = parts[2]
	}
	switch rule.Op {
	case OpExists, OpNotExists:
		if rule.Value != "" {
			return FilterRule{}, fmt.Errorf("filter %q: operator %s takes no value", s, rule.Op)
		}
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpContains, OpNotContains,
		OpStartsWith, OpEndsWith, OpRegex, OpIn, OpNotIn:
		if rule.Value == "" {
			return FilterRule{}, fmt.Errorf("filter %q: operator %s requires a value", s, rule.Op)
		}
	default:
		return FilterRule{}, fmt.Errorf("filter %q: unknown operator %q", s, parts[1])
	}
	return rule, nil
}

// Filter returns the results matching the set. Results are never mutated.
func (fs FilterSet) Filter(results []schema.AnnotationResult) []schema.AnnotationResult {
	if len(fs.Rules) == 0 {
		return results
	}
	var out []schema.AnnotationResult
	for _, r := range results {
		if fs.Match(r.Value) {
			out = append(out, r)
		}
	}
	return out
}

// Match evaluates the set against one result value.
func (fs FilterSet) Match(value map[string]any) bool {
	if len(fs.Rules) == 0 {
		return true
	}
	anyLogic := strings.EqualFold(string(fs.Logic), string(schema.OrFilterLogic))
	for _, rule := range fs.Rules {
		matched := rule.Match(value)
		if anyLogic && matched {
			return true
		}
		if !anyLogic && !matched {
			return false
		}
	}
	return !anyLogic
}

// Match evaluates a single rule. Malformed comparisons degrade to false
// rather than erroring, consistent with the engine's no-throw policy.
func (rule FilterRule) Match(value map[string]any) bool {
	v := ExtractField(value, rule.Field)

	switch rule.Op {
	case OpExists:
		return v != nil
	case OpNotExists:
		return v == nil
	}
	if v == nil {
		return false
	}

	switch rule.Op {
	case OpGt, OpGte, OpLt, OpLte:
		x, ok := numericValue(v, schema.NumberField)
		if !ok {
			return false
		}
		want, err := strconv.ParseFloat(rule.Value, 64)
		if err != nil {
			return false
		}
		switch rule.Op {
		case OpGt:
			return x > want
		case OpGte:
			return x >= want
		case OpLt:
			return x < want
		default:
			return x <= want
		}
	}

	// String-shaped comparisons operate on normalized labels so arrays
	// match when any element matches.
	labels := NormalizeValue(v)
	switch rule.Op {
	case OpEq:
		return anyLabel(labels, func(s string) bool { return s == rule.Value })
	case OpNeq:
		return !anyLabel(labels, func(s string) bool { return s == rule.Value })
	case OpContains:
		return anyLabel(labels, func(s string) bool { return strings.Contains(s, rule.Value) })
	case OpNotContains:
		return !anyLabel(labels, func(s string) bool { return strings.Contains(s, rule.Value) })
	case OpStartsWith:
		return anyLabel(labels, func(s string) bool { return strings.HasPrefix(s, rule.Value) })
	case OpEndsWith:
		return anyLabel(labels, func(s string) bool { return strings.HasSuffix(s, rule.Value) })
	case OpRegex:
		re, err := regexp.Compile(rule.Value)
		if err != nil {
			return false
		}
		return anyLabel(labels, re.MatchString)
	case OpIn, OpNotIn:
		wanted := make(map[string]bool)
		for _, item := range strings.Split(rule.Value, ",") {
			wanted[strings.TrimSpace(item)] = true
		}
		matched := anyLabel(labels, func(s string) bool { return wanted[s] })
		if rule.Op == OpIn {
			return matched
		}
		return !matched
	default:
		return false
	}
}

func anyLabel(labels []string, pred func(string) bool) bool {
	for _, label := range labels {
		if pred(label) {
			return true
		}
	}
	return false
}
