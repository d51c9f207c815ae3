package iocache

import (
	"fmt"
	"sort"

	"github.com/huangsam/hormetric/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Tests: %d\n", status.TotalTests)
	fmt.Printf("Total Users: %d\n", status.TotalUsers)
	if status.TotalTests > 0 {
		fmt.Printf("First Test: %s\n", status.FirstTestTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Last Test: %s\n", status.LastTestTime.Format("2006-01-02 15:04:05"))
	}
}

// PrintSnapshotStatus prints snapshot store status information.
func PrintSnapshotStatus(status schema.SnapshotStatus) {
	fmt.Printf("Snapshot Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last Snapshot ID: %d\n", status.LastSnapshotID)
		fmt.Printf("Last Snapshot: %s\n", status.LastSnapshotTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Snapshot: %s\n", status.OldestSnapshot.Format("2006-01-02 15:04:05"))
	}
	if len(status.TableSizes) == 0 {
		return
	}
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Println("Table Sizes:")
	for _, table := range tables {
		fmt.Printf("  %s: %d bytes\n", table, status.TableSizes[table])
	}
}
