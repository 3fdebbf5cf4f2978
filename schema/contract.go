package schema

import (
	"sort"
	"strings"
	"sync"
)

// FieldType is the resolved primitive type of a contract field.
type FieldType string

// Contract field types. Anything that does not match a known JSON schema
// type resolves to ObjectField.
const (
	IntegerField     FieldType = "integer"
	NumberField      FieldType = "number"
	TextField        FieldType = "string"
	BooleanField     FieldType = "boolean"
	StringArrayField FieldType = "array"
	ObjectField      FieldType = "object"
)

// FieldDef is a single extractable field of an output contract.
type FieldDef struct {
	// Path is the dot-separated path of the field, e.g. "document.topics".
	Path string
	// Name is the last path segment, used for flat fallback lookups.
	Name string
	Type FieldType
}

// ContractIndex resolves output contracts into typed field definitions once
// per schema and caches the result. Safe for concurrent use.
type ContractIndex struct {
	mu      sync.RWMutex
	schemas map[int64]AnnotationSchema
	fields  map[int64][]FieldDef
}

// NewContractIndex builds an index over the given schemas.
func NewContractIndex(schemas []AnnotationSchema) *ContractIndex {
	idx := &ContractIndex{
		schemas: make(map[int64]AnnotationSchema, len(schemas)),
		fields:  make(map[int64][]FieldDef, len(schemas)),
	}
	for _, s := range schemas {
		idx.schemas[s.ID] = s
	}
	return idx
}

// Schema returns the schema with the given id, if present.
func (idx *ContractIndex) Schema(id int64) (AnnotationSchema, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.schemas[id]
	return s, ok
}

// SchemaIDs returns all indexed schema ids in ascending order.
func (idx *ContractIndex) SchemaIDs() []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]int64, 0, len(idx.schemas))
	for id := range idx.schemas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Fields returns the resolved field definitions for a schema, resolving and
// caching on first use. Unknown schema ids yield nil.
func (idx *ContractIndex) Fields(schemaID int64) []FieldDef {
	idx.mu.RLock()
	if defs, ok := idx.fields[schemaID]; ok {
		idx.mu.RUnlock()
		return defs
	}
	s, ok := idx.schemas[schemaID]
	idx.mu.RUnlock()
	if !ok {
		return nil
	}

	defs := resolveContract("", s.OutputContract)
	idx.mu.Lock()
	idx.fields[schemaID] = defs
	idx.mu.Unlock()
	return defs
}

// Field looks up a single field definition by path, trying the full path
// first and falling back to a last-segment match.
func (idx *ContractIndex) Field(schemaID int64, path string) (FieldDef, bool) {
	name := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		name = path[i+1:]
	}
	var fallback FieldDef
	var haveFallback bool
	for _, def := range idx.Fields(schemaID) {
		if def.Path == path {
			return def, true
		}
		if !haveFallback && def.Name == name {
			fallback = def
			haveFallback = true
		}
	}
	return fallback, haveFallback
}

// resolveContract walks a JSON-schema-like contract and flattens its
// properties into typed field definitions. Nested objects contribute both a
// field for the object itself and fields for each nested property.
func resolveContract(prefix string, contract map[string]any) []FieldDef {
	props, ok := contract["properties"].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var defs []FieldDef
	for _, name := range names {
		spec, _ := props[name].(map[string]any)
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		ft := fieldTypeOf(spec)
		defs = append(defs, FieldDef{Path: path, Name: name, Type: ft})
		if ft == ObjectField && spec != nil {
			defs = append(defs, resolveContract(path, spec)...)
		}
	}
	return defs
}

// fieldTypeOf maps a JSON schema property spec to a FieldType.
func fieldTypeOf(spec map[string]any) FieldType {
	t, _ := spec["type"].(string)
	switch t {
	case "integer":
		return IntegerField
	case "number":
		return NumberField
	case "string":
		return TextField
	case "boolean":
		return BooleanField
	case "array":
		return StringArrayField
	default:
		return ObjectField
	}
}
