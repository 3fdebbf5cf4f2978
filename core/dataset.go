package core

import (
	"strconv"

	"github.com/annolab/pivot/schema"
)

// Dataset bundles the in-memory inputs of one aggregation invocation:
// results plus the schema contracts and asset/source lookups they refer to.
// The engine never mutates a dataset, so one may be shared across calls.
type Dataset struct {
	Results   []schema.AnnotationResult
	Contracts *schema.ContractIndex
	Assets    map[int64]schema.Asset
	Sources   map[int64]schema.Source
}

// NewDataset builds a dataset from flat slices as loaded from a store or a
// collaborator API.
func NewDataset(results []schema.AnnotationResult, schemas []schema.AnnotationSchema, assets []schema.Asset, sources []schema.Source) *Dataset {
	ds := &Dataset{
		Results:   results,
		Contracts: schema.NewContractIndex(schemas),
		Assets:    make(map[int64]schema.Asset, len(assets)),
		Sources:   make(map[int64]schema.Source, len(sources)),
	}
	for _, a := range assets {
		ds.Assets[a.ID] = a
	}
	for _, s := range sources {
		ds.Sources[s.ID] = s
	}
	return ds
}

// sourceOf resolves the source id of a result through its asset. Results
// with unknown assets report source 0.
func (ds *Dataset) sourceOf(r schema.AnnotationResult) int64 {
	if a, ok := ds.Assets[r.AssetID]; ok {
		return a.SourceID
	}
	return 0
}

// SourceName returns a display name for a source id.
func (ds *Dataset) SourceName(id int64) string {
	if s, ok := ds.Sources[id]; ok && s.Name != "" {
		return s.Name
	}
	if id == 0 {
		return "unknown"
	}
	return "source " + strconv.FormatInt(id, 10)
}
