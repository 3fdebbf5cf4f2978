package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func TestParseFilterFlag(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FilterRule
		wantErr bool
	}{
		{"equality", "sentiment:eq:Positive", FilterRule{Field: "sentiment", Op: OpEq, Value: "Positive"}, false},
		{"exists", "sentiment:exists", FilterRule{Field: "sentiment", Op: OpExists}, false},
		{"value with colon", "published_at:gte:2024-01-01", FilterRule{Field: "published_at", Op: OpGte, Value: "2024-01-01"}, false},
		{"nested field", "document.sentiment:neq:Negative", FilterRule{Field: "document.sentiment", Op: OpNeq, Value: "Negative"}, false},
		{"missing op", "sentiment", FilterRule{}, true},
		{"unknown op", "sentiment:like:x", FilterRule{}, true},
		{"exists with value", "sentiment:exists:x", FilterRule{}, true},
		{"eq without value", "sentiment:eq", FilterRule{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterFlag(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterRuleMatch(t *testing.T) {
	value := map[string]any{
		"sentiment": "Positive",
		"score":     7.5,
		"tags":      []any{"economy", "politics"},
		"verified":  true,
	}

	tests := []struct {
		name string
		rule FilterRule
		want bool
	}{
		{"eq match", FilterRule{Field: "sentiment", Op: OpEq, Value: "Positive"}, true},
		{"eq miss", FilterRule{Field: "sentiment", Op: OpNeq, Value: "Positive"}, false},
		{"gt", FilterRule{Field: "score", Op: OpGt, Value: "7"}, true},
		{"lte", FilterRule{Field: "score", Op: OpLte, Value: "7"}, false},
		{"contains", FilterRule{Field: "sentiment", Op: OpContains, Value: "osit"}, true},
		{"starts_with", FilterRule{Field: "sentiment", Op: OpStartsWith, Value: "Pos"}, true},
		{"ends_with", FilterRule{Field: "sentiment", Op: OpEndsWith, Value: "ive"}, true},
		{"regex", FilterRule{Field: "sentiment", Op: OpRegex, Value: "^Pos"}, true},
		{"bad regex degrades to false", FilterRule{Field: "sentiment", Op: OpRegex, Value: "["}, false},
		{"array any element", FilterRule{Field: "tags", Op: OpEq, Value: "politics"}, true},
		{"in", FilterRule{Field: "sentiment", Op: OpIn, Value: "Positive, Negative"}, true},
		{"not_in", FilterRule{Field: "sentiment", Op: OpNotIn, Value: "Negative"}, true},
		{"bool label", FilterRule{Field: "verified", Op: OpEq, Value: "True"}, true},
		{"exists", FilterRule{Field: "score", Op: OpExists}, true},
		{"not_exists", FilterRule{Field: "missing", Op: OpNotExists}, true},
		{"missing field fails comparison", FilterRule{Field: "missing", Op: OpEq, Value: "x"}, false},
		{"non-numeric gt degrades to false", FilterRule{Field: "sentiment", Op: OpGt, Value: "abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Match(value))
		})
	}
}

func TestFilterSetLogic(t *testing.T) {
	value := map[string]any{"sentiment": "Positive", "score": 2.0}
	rules := []FilterRule{
		{Field: "sentiment", Op: OpEq, Value: "Positive"},
		{Field: "score", Op: OpGt, Value: "5"},
	}

	andSet := FilterSet{Logic: "and", Rules: rules}
	orSet := FilterSet{Logic: "or", Rules: rules}

	assert.False(t, andSet.Match(value))
	assert.True(t, orSet.Match(value))
	assert.True(t, FilterSet{}.Match(value))
}

func TestFilterSetFilter(t *testing.T) {
	results := []schema.AnnotationResult{
		sentimentResult(1, 10, "Positive"),
		sentimentResult(2, 11, "Negative"),
		sentimentResult(3, 12, "Positive"),
	}
	fs := FilterSet{Rules: []FilterRule{{Field: "sentiment", Op: OpEq, Value: "Positive"}}}

	out := fs.Filter(results)

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestBuildFilterSet(t *testing.T) {
	fs, err := BuildFilterSet([]string{"sentiment:eq:Positive", "score:gte:5"}, "")
	require.NoError(t, err)
	assert.Equal(t, schema.AndFilterLogic, fs.Logic)
	assert.Len(t, fs.Rules, 2)

	fs, err = BuildFilterSet([]string{"sentiment:eq:Positive"}, schema.OrFilterLogic)
	require.NoError(t, err)
	assert.Equal(t, schema.OrFilterLogic, fs.Logic)

	_, err = BuildFilterSet([]string{"bogus"}, "")
	assert.Error(t, err)

	_, err = BuildFilterSet([]string{"sentiment:eq:Positive"}, "nand")
	assert.ErrorContains(t, err, "invalid filter logic")
}
