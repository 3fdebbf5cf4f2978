// Package iostore persists annotation results, schemas, assets, and sources
// across pivot invocations.
package iostore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// ResultStoreManager manages the result store instance.
type ResultStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	results      contract.ResultStore
}

var _ contract.StoreManager = &ResultStoreManager{} // Compile-time check

// GetResultStore returns the configured ResultStore.
func (mgr *ResultStoreManager) GetResultStore() contract.ResultStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}

// Manager is the global persistence manager instance.
var Manager = &ResultStoreManager{}

// InitStores initializes the global store manager from validated config.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	store, err := NewResultStore(backend, connStr)
	if err != nil {
		return err
	}
	Manager.Lock()
	defer Manager.Unlock()
	if Manager.results != nil {
		_ = Manager.results.Close()
	}
	Manager.results = store
	return nil
}

// GetDBFilePath returns the default SQLite database location, creating the
// parent directory if needed.
func GetDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pivot.db"
	}
	dir := filepath.Join(home, ".pivot")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ".pivot.db"
	}
	return filepath.Join(dir, "results.db")
}
