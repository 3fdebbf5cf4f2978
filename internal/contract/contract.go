// Package contract provides interfaces and shared utilities for the pivot
// CLI's internal architecture.
package contract

import (
	"time"

	"github.com/annolab/pivot/schema"
)

// StoreManager defines the interface for managing result stores. This
// allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetResultStore() ResultStore
}

// ResultStore defines the interface for persisted annotation data. Results,
// schemas, assets, and sources are written by import and read back by every
// aggregation command.
type ResultStore interface {
	SaveResults(results []schema.AnnotationResult) error
	SaveSchemas(schemas []schema.AnnotationSchema) error
	SaveAssets(assets []schema.Asset) error
	SaveSources(sources []schema.Source) error

	// LoadResults returns stored results; a non-zero runID restricts to
	// one classification run.
	LoadResults(runID int64) ([]schema.AnnotationResult, error)
	LoadSchemas() ([]schema.AnnotationSchema, error)
	LoadAssets() ([]schema.Asset, error)
	LoadSources() ([]schema.Source, error)

	GetStatus() (StoreStatus, error)
	Clear() error
	Close() error
}

// StoreStatus describes the state of a result store for diagnostics.
type StoreStatus struct {
	Backend   schema.DatabaseBackend
	Connected bool
	Location  string
	Results   int64
	Schemas   int64
	Assets    int64
	Sources   int64
	// Oldest and Newest are the bounds of stored result timestamps.
	Oldest time.Time
	Newest time.Time
}
