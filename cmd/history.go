package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/internal/iocache"
	"github.com/huangsam/hormetric/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history store maintenance.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := backendConfig("store-backend", "store-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}

	// Initialize the history store only (no snapshot tracking for maintenance commands)
	if err := iocache.InitStores(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := backendConfig("store-backend", "store-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// historyCmd focused on test history management.
//
// Note: status, clear and migrate use minimal initialization (historySetup)
// instead of the full sharedSetup used by the scoring commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored hormone tests",
	Long: `Manage the hormone test history every score is computed from.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  list    - Show the most recent tests with their range status
  import  - Load tests from a JSON or CSV file
  export  - Export tests and snapshots to Parquet
  status  - Show store statistics and connection info
  clear   - Remove all tests and profiles
  migrate - Run database schema migrations

Examples:
  # Show the last 10 cortisol tests
  hormetric history list --hormone cortisol --limit 10

  # Move history between backends
  hormetric history list --output csv --limit 1000 --output-file tests.csv
  HORMETRIC_STORE_BACKEND=postgresql hormetric history import tests.csv`,
}

// historyListCmd lists tests.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent tests with their range status",
	Long: `List the most recent tests of the current user, oldest first, with the
unit and range status of each.

The CSV output can be re-imported with 'hormetric history import'.

Examples:
  hormetric history list
  hormetric history list --output parquet --output-file tests.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list history", err)
		}
	},
}

// historyImportCmd imports tests from a file.
var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load tests from a JSON or CSV file",
	Long: `Import tests for the current user from a JSON array or a CSV file.

CSV files need the columns hormone_type, value and timestamp. The columns
id, sleep_quality, exercised, stress_level and supplements are optional.
Every record is validated first; a file with one bad record imports nothing.

Examples:
  hormetric history import tests.json
  hormetric history import --user alice tests.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		format, err := iocache.DetectImportFormat(args[0])
		if err != nil {
			contract.LogFatal("Cannot import history", err)
		}
		file, err := os.Open(args[0])
		if err != nil {
			contract.LogFatal("Cannot open import file", err)
		}
		defer func() { _ = file.Close() }()

		count, err := iocache.ImportTests(storeManager.GetHistoryStore(), file, format, cfg.UserID, cfg.AsOf)
		if err != nil {
			contract.LogFatal("Cannot import history", err)
		}
		fmt.Printf("Imported %d tests for %s.\n", count, cfg.UserID)
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tests and snapshots to Parquet for analytics",
	Long: `Export the current user's tests, and snapshots when tracking is enabled,
to Parquet files for use with DuckDB, pandas or Spark.

Requires: --output-file parameter

Examples:
  hormetric history export --output-file backup
  duckdb -c "SELECT hormone_type, avg(value) FROM read_parquet('backup.tests.parquet') GROUP BY 1"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(storeManager.GetHistoryStore(), storeManager.GetSnapshotStore(), cfg.UserID, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyStatusCmd shows store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history store statistics and connection details",
	Long: `Show the backend, connection state, test and user counts and the
oldest and newest test times.

Examples:
  hormetric history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyClearCmd removes all history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored tests and profiles",
	Long: `Delete every test and profile from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  hormetric history export --output-file backup
  hormetric history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := sqliteFile(cfg.StoreDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.StoreBackend, dbFile, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  hormetric history migrate

  # Migrate to specific version
  hormetric history migrate --target-version 2

  # Roll back every migration
  hormetric history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
