// Package schema defines the domain types shared across the pivot engine,
// stores, and output layers.
package schema

import "time"

// ResultStatus marks whether a classification job produced a usable value.
type ResultStatus string

// Result statuses.
const (
	StatusSuccess ResultStatus = "success"
	StatusFailure ResultStatus = "failure"
)

// AnnotationResult is the structured output of running a schema against an
// asset. Immutable once loaded; the engine never mutates result values.
type AnnotationResult struct {
	ID        int64          `json:"id"`
	AssetID   int64          `json:"asset_id"`
	SchemaID  int64          `json:"schema_id"`
	RunID     int64          `json:"run_id,omitempty"`
	Value     map[string]any `json:"value"`
	Status    ResultStatus   `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
}

// AnnotationSchema describes the named, typed fields a result value may
// contain. OutputContract is a JSON-schema-like document; use
// NewContractIndex to resolve it into typed field definitions.
type AnnotationSchema struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	OutputContract map[string]any `json:"output_contract"`
}

// Asset is an ingested document that annotations refer back to. It supplies
// the source dimension and the alternate time axis for aggregation.
type Asset struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	SourceID       int64     `json:"source_id"`
	EventTimestamp time.Time `json:"event_timestamp"`
}

// Source is a data source that assets were ingested from.
type Source struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
