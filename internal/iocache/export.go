package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/internal/parquet"
)

// ExportHistory writes one user's tests and snapshots to Parquet files next to outputFile.
// The snapshots file is only written when the user has snapshots.
func ExportHistory(history contract.HistoryStore, snapshots contract.SnapshotStore, userID, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	tests, err := history.ListTests(userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve tests: %w", err)
	}
	if len(tests) == 0 {
		return fmt.Errorf("no tests found to export for user %q", userID)
	}

	status, err := history.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	fmt.Printf("Exporting data from %s backend...\n", status.Backend)

	testsFile := outputFile + ".tests.parquet"
	if err := parquet.WriteTestsFile(parquet.ConvertTests(tests), testsFile); err != nil {
		return fmt.Errorf("failed to write tests: %w", err)
	}
	fmt.Printf("Exported %d tests to: %s\n", len(tests), testsFile)

	records, err := snapshots.ListSnapshots(userID, "", 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}
	if len(records) > 0 {
		snapshotsFile := outputFile + ".snapshots.parquet"
		if err := parquet.WriteSnapshotsFile(parquet.ConvertSnapshots(records), snapshotsFile); err != nil {
			return fmt.Errorf("failed to write snapshots: %w", err)
		}
		fmt.Printf("Exported %d snapshots to: %s\n", len(records), snapshotsFile)
	}

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")
	return nil
}
