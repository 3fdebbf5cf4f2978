package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{CategoryNA}},
		{"bool true", true, []string{"True"}},
		{"bool false", false, []string{"False"}},
		{"string", "Positive", []string{"Positive"}},
		{"whole float", 3.0, []string{"3"}},
		{"fractional float", 3.25, []string{"3.25"}},
		{"int", 7, []string{"7"}},
		{"empty array", []any{}, []string{CategoryEmptyList}},
		{"array fan-out", []any{"a", "b"}, []string{"a", "b"}},
		{"array with mixed scalars", []any{true, 2.0, "c"}, []string{"True", "2", "c"}},
		{"empty string array", []string{}, []string{CategoryEmptyList}},
		{"string array", []string{"x", "y"}, []string{"x", "y"}},
		{"object", map[string]any{"k": "v"}, []string{`{"k":"v"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.in))
		})
	}
}

func TestNormalizeValueNeverEmpty(t *testing.T) {
	inputs := []any{nil, "", []any{}, []string{}, map[string]any{}, 0, false}
	for _, in := range inputs {
		assert.NotEmpty(t, NormalizeValue(in))
	}
}

func TestNormalizeWithAliases(t *testing.T) {
	aliases := map[string]string{"pos": "Positive", "True": "Yes"}

	assert.Equal(t, []string{"Positive"}, NormalizeWithAliases("pos", aliases))
	assert.Equal(t, []string{"Yes"}, NormalizeWithAliases(true, aliases))
	assert.Equal(t, []string{"Negative"}, NormalizeWithAliases("Negative", aliases))
	// Aliases apply after array fan-out.
	assert.Equal(t, []string{"Positive", "neg"}, NormalizeWithAliases([]any{"pos", "neg"}, aliases))
}

func TestNormalizeWithAliasesNilMap(t *testing.T) {
	assert.Equal(t, []string{"Positive"}, NormalizeWithAliases("Positive", nil))
}
