package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetHistoryDBFilePath returns the path to the SQLite DB file for test history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for score snapshots.
func GetSnapshotDBFilePath() string {
	return contract.GetSnapshotDBFilePath()
}

// InitStores initializes the global manager with the history and snapshot stores.
// An empty snapshot backend disables snapshot recording.
func InitStores(historyBackend schema.DatabaseBackend, historyConnStr string, snapshotBackend schema.DatabaseBackend, snapshotConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		history, err := NewHistoryStore(historyBackend, historyConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}

		if snapshotBackend == "" {
			snapshotBackend = schema.NoneBackend
		}
		snapshots, err := NewSnapshotStore(snapshotBackend, snapshotConnStr)
		if err != nil {
			_ = history.Close()
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.history = history
		Manager.snapshots = snapshots
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
	})
}

// ClearHistory removes all stored tests and profiles.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the history tables and the
// migration version so a later migrate starts from scratch.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, testsTable, profilesTable, migrationsTable)
}

// ClearSnapshots removes all stored snapshots.
func ClearSnapshots(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, snapshotsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		dsn, err := normalizeMySQLDSN(connStr)
		if err != nil {
			return err
		}
		return clearSQLTables("mysql", dsn, backend, tables)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr, backend, tables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(driverName, connStr string, backend schema.DatabaseBackend, tables []string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
