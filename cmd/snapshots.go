package cmd

import (
	"fmt"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/internal/iocache"
	"github.com/huangsam/hormetric/schema"
	"github.com/spf13/cobra"
)

// snapshotSetup loads minimal configuration needed for snapshot operations.
func snapshotSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := backendConfig("snapshot-backend", "snapshot-db-connect", schema.NoneBackend)
	if err != nil {
		return err
	}

	// The in-memory history store keeps the default history database untouched
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshot tracking: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	return nil
}

// snapshotsCmd focused on score snapshot management.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage tracked score snapshots",
	Long: `Manage the ReadyScore, BioAge and Impact results recorded over time.

Tracking is off unless --snapshot-backend is set. Every scoring command then
records its result; the ReadyScore also stores the change from the previous
one.

Subcommands:
  status - Show tracking statistics
  clear  - Remove all snapshots

Examples:
  HORMETRIC_SNAPSHOT_BACKEND=sqlite hormetric ready
  HORMETRIC_SNAPSHOT_BACKEND=sqlite hormetric snapshots status`,
}

// snapshotsStatusCmd shows snapshot tracking status.
var snapshotsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display snapshot tracking statistics and connection details",
	PreRunE: snapshotSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(status)
	},
}

// snapshotsClearCmd removes all snapshots.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tracked score snapshots",
	Long: `Delete every recorded snapshot. Tests and profiles are kept.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: snapshotSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := sqliteFile(cfg.SnapshotDBConnect, contract.GetSnapshotDBFilePath())
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, dbFile, cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}
