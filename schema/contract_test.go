package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContractResolution tests flattening of nested output contracts.
func TestContractResolution(t *testing.T) {
	contract := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topics":    map[string]any{"type": "array"},
					"sentiment": map[string]any{"type": "number"},
				},
			},
			"relevant": map[string]any{"type": "boolean"},
			"summary":  map[string]any{"type": "string"},
			"mentions": map[string]any{"type": "integer"},
		},
	}
	idx := NewContractIndex([]AnnotationSchema{{ID: 7, Name: "news", OutputContract: contract}})

	defs := idx.Fields(7)
	byPath := make(map[string]FieldType, len(defs))
	for _, d := range defs {
		byPath[d.Path] = d.Type
	}

	assert.Equal(t, ObjectField, byPath["document"])
	assert.Equal(t, StringArrayField, byPath["document.topics"])
	assert.Equal(t, NumberField, byPath["document.sentiment"])
	assert.Equal(t, BooleanField, byPath["relevant"])
	assert.Equal(t, TextField, byPath["summary"])
	assert.Equal(t, IntegerField, byPath["mentions"])
}

// TestContractFieldLookup tests full-path and last-segment lookups.
func TestContractFieldLookup(t *testing.T) {
	contract := map[string]any{
		"properties": map[string]any{
			"document": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topics": map[string]any{"type": "array"},
				},
			},
		},
	}
	idx := NewContractIndex([]AnnotationSchema{{ID: 1, OutputContract: contract}})

	def, ok := idx.Field(1, "document.topics")
	assert.True(t, ok)
	assert.Equal(t, StringArrayField, def.Type)

	// Flat fallback: a bare "topics" path still resolves by last segment.
	def, ok = idx.Field(1, "topics")
	assert.True(t, ok)
	assert.Equal(t, "document.topics", def.Path)

	_, ok = idx.Field(1, "missing")
	assert.False(t, ok)

	assert.Nil(t, idx.Fields(99))
}

// TestContractCaching tests that field resolution is computed once.
func TestContractCaching(t *testing.T) {
	contract := map[string]any{
		"properties": map[string]any{
			"label": map[string]any{"type": "string"},
		},
	}
	idx := NewContractIndex([]AnnotationSchema{{ID: 3, OutputContract: contract}})

	first := idx.Fields(3)
	second := idx.Fields(3)
	assert.Equal(t, first, second)
	if len(first) > 0 && len(second) > 0 {
		assert.Same(t, &first[0], &second[0], "cached slice should be reused")
	}
}
