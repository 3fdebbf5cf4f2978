package iostore

import (
	"sort"
	"sync"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// MemoryStore is the process-scoped store used by the none backend and by
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[int64]schema.AnnotationResult
	schemas map[int64]schema.AnnotationSchema
	assets  map[int64]schema.Asset
	sources map[int64]schema.Source
}

var _ contract.ResultStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[int64]schema.AnnotationResult),
		schemas: make(map[int64]schema.AnnotationSchema),
		assets:  make(map[int64]schema.Asset),
		sources: make(map[int64]schema.Source),
	}
}

// SaveResults stores results by id.
func (m *MemoryStore) SaveResults(results []schema.AnnotationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		m.results[r.ID] = r
	}
	return nil
}

// SaveSchemas stores schemas by id.
func (m *MemoryStore) SaveSchemas(schemas []schema.AnnotationSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range schemas {
		m.schemas[s.ID] = s
	}
	return nil
}

// SaveAssets stores assets by id.
func (m *MemoryStore) SaveAssets(assets []schema.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range assets {
		m.assets[a.ID] = a
	}
	return nil
}

// SaveSources stores sources by id.
func (m *MemoryStore) SaveSources(sources []schema.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range sources {
		m.sources[s.ID] = s
	}
	return nil
}

// LoadResults returns stored results ordered by id.
func (m *MemoryStore) LoadResults(runID int64) ([]schema.AnnotationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schema.AnnotationResult
	for _, r := range m.results {
		if runID != 0 && r.RunID != runID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadSchemas returns stored schemas ordered by id.
func (m *MemoryStore) LoadSchemas() ([]schema.AnnotationSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schema.AnnotationSchema
	for _, s := range m.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadAssets returns stored assets ordered by id.
func (m *MemoryStore) LoadAssets() ([]schema.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schema.Asset
	for _, a := range m.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadSources returns stored sources ordered by id.
func (m *MemoryStore) LoadSources() ([]schema.Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schema.Source
	for _, s := range m.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetStatus reports in-memory row counts.
func (m *MemoryStore) GetStatus() (contract.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := contract.StoreStatus{
		Backend:   schema.NoneBackend,
		Connected: true,
		Location:  "memory",
		Results:   int64(len(m.results)),
		Schemas:   int64(len(m.schemas)),
		Assets:    int64(len(m.assets)),
		Sources:   int64(len(m.sources)),
	}
	for _, r := range m.results {
		if r.Timestamp.IsZero() {
			continue
		}
		if status.Oldest.IsZero() || r.Timestamp.Before(status.Oldest) {
			status.Oldest = r.Timestamp
		}
		if status.Newest.IsZero() || r.Timestamp.After(status.Newest) {
			status.Newest = r.Timestamp
		}
	}
	return status, nil
}

// Clear drops all stored entries.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[int64]schema.AnnotationResult)
	m.schemas = make(map[int64]schema.AnnotationSchema)
	m.assets = make(map[int64]schema.Asset)
	m.sources = make(map[int64]schema.Source)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
