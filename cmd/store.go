package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/internal/iostore"
	"github.com/annolab/pivot/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize persistence with the loaded config
	if err := iostore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This specialized setup does NOT initialize stores or create tables, allowing
// migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on result store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by aggregation commands. This avoids aggregation
// flag validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local result store",
	Long: `Manage the store holding imported annotation results.

Pivot persists imported results, schemas, assets and sources locally so
aggregations run without touching the annotation API.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  pivot store status

  # Clear the store before a fresh import
  pivot store clear`,
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored annotation data",
	Long: `Delete all results, schemas, assets and sources from the configured backend.

Use this when:
- The source infospace changed shape and old results are stale
- You want a clean slate before importing a different run
- Testing aggregation behavior against an empty store

Examples:
  # Clear the SQLite store (default)
  pivot store clear

  # Clear a MySQL store (set connection string via env variable)
  PIVOT_STORE_BACKEND=mysql PIVOT_STORE_DB_CONNECT="..." pivot store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.Manager.GetResultStore().Clear(); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the result store.

Displays:
- Backend type and connection status
- Counts of results, schemas, assets and sources
- Timestamp range of stored results

Examples:
  # Check store status
  pivot store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetResultStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations on the result store",
	Long: `Apply or roll back result store schema migrations.

Target versions:
  -1  migrate to the latest version (default)
   0  roll back all migrations
   N  migrate to version N

Examples:
  # Migrate to the latest schema
  pivot store migrate

  # Roll everything back
  pivot store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, target); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Migrations completed successfully.")
	},
}
