package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/annolab/pivot/internal/apiclient"
	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// importSnapshot is the JSON document shape of a file import: the same
// collections the annotation API serves, bundled into one object.
type importSnapshot struct {
	Results []schema.AnnotationResult `json:"results"`
	Schemas []schema.AnnotationSchema `json:"schemas"`
	Assets  []schema.Asset            `json:"assets"`
	Sources []schema.Source           `json:"sources"`
}

// ExecutePivotImport loads annotation data into the configured store, either
// from a JSON snapshot file or from the annotation API. Each invocation is
// tagged with a batch id so overlapping imports can be told apart in logs.
func ExecutePivotImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetResultStore()
	if store == nil {
		return errors.New("no result store is configured")
	}

	batchID := uuid.NewString()
	var snap importSnapshot
	var err error
	switch {
	case cfg.ImportFile != "":
		snap, err = readSnapshot(cfg.ImportFile, cfg.RunID)
	case cfg.APIBaseURL != "":
		snap, err = fetchSnapshot(ctx, cfg)
	default:
		return errors.New("import requires --from-file or --api-base-url")
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", batchID, err)
	}

	if err := saveSnapshot(store, snap); err != nil {
		return fmt.Errorf("import %s: %w", batchID, err)
	}

	fmt.Printf("Import %s complete: %d results, %d schemas, %d assets, %d sources\n",
		batchID, len(snap.Results), len(snap.Schemas), len(snap.Assets), len(snap.Sources))
	return nil
}

// readSnapshot decodes a snapshot file, optionally restricted to one run,
// mirroring the run scoping of the API path.
func readSnapshot(path string, runID int64) (importSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return importSnapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	var snap importSnapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return importSnapshot{}, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	if runID != 0 {
		scoped := snap.Results[:0]
		for _, r := range snap.Results {
			if r.RunID == runID {
				scoped = append(scoped, r)
			}
		}
		snap.Results = scoped
	}
	return snap, nil
}

func fetchSnapshot(ctx context.Context, cfg *contract.Config) (importSnapshot, error) {
	client := apiclient.New(cfg.APIBaseURL, cfg.APIToken, cfg.PageSize)
	var snap importSnapshot
	var err error

	if snap.Schemas, err = client.FetchSchemas(ctx); err != nil {
		return importSnapshot{}, err
	}
	if snap.Sources, err = client.FetchSources(ctx); err != nil {
		return importSnapshot{}, err
	}
	if snap.Assets, err = client.FetchAssets(ctx); err != nil {
		return importSnapshot{}, err
	}
	if snap.Results, err = client.FetchResults(ctx, cfg.RunID); err != nil {
		return importSnapshot{}, err
	}
	return snap, nil
}

// saveSnapshot persists lookups before results so every result can be
// resolved against its schema and source.
func saveSnapshot(store contract.ResultStore, snap importSnapshot) error {
	if err := store.SaveSchemas(snap.Schemas); err != nil {
		return fmt.Errorf("failed to save schemas: %w", err)
	}
	if err := store.SaveSources(snap.Sources); err != nil {
		return fmt.Errorf("failed to save sources: %w", err)
	}
	if err := store.SaveAssets(snap.Assets); err != nil {
		return fmt.Errorf("failed to save assets: %w", err)
	}
	if err := store.SaveResults(snap.Results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}
