package iocache

import (
	"database/sql"
	"fmt"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// snapshotsTable holds every computed score.
const snapshotsTable = "score_snapshots"

// SnapshotStoreImpl implements the SnapshotStore interface.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateSnapshotsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", snapshotsTable, err)
	}
	return &SnapshotStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for score_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				user_id VARCHAR(128) NOT NULL,
				kind VARCHAR(32) NOT NULL,
				computed_at DATETIME(6) NOT NULL,
				score DOUBLE NOT NULL,
				delta DOUBLE,
				confidence VARCHAR(16) NOT NULL,
				test_count INT NOT NULL,
				payload TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGSERIAL PRIMARY KEY,
				user_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				computed_at TIMESTAMPTZ NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				delta DOUBLE PRECISION,
				confidence TEXT NOT NULL,
				test_count INT NOT NULL,
				payload TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				computed_at TEXT NOT NULL,
				score REAL NOT NULL,
				delta REAL,
				confidence TEXT NOT NULL,
				test_count INTEGER NOT NULL,
				payload TEXT
			);
		`, quotedTableName)
	}
}

// RecordSnapshot stores a computed result and returns its unique ID.
func (ss *SnapshotStoreImpl) RecordSnapshot(snapshot schema.ScoreSnapshot) (int64, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)
	args := []any{
		snapshot.UserID, string(snapshot.Kind), formatTime(snapshot.ComputedAt, ss.backend), snapshot.Score,
		nullableFloat(snapshot.Delta), string(snapshot.Confidence), snapshot.TestCount, snapshot.Payload,
	}

	var snapshotID int64
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (user_id, kind, computed_at, score, delta, confidence, test_count, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING snapshot_id`, quotedTableName)
		if err := ss.db.QueryRow(query, args...).Scan(&snapshotID); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (user_id, kind, computed_at, score, delta, confidence, test_count, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
		result, err := ss.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot: %w", err)
		}
		if snapshotID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read snapshot id: %w", err)
		}
	}
	return snapshotID, nil
}

// ListSnapshots returns the newest snapshots first. A limit of zero or less returns all.
func (ss *SnapshotStoreImpl) ListSnapshots(userID string, kind schema.SnapshotKind, limit int) ([]schema.ScoreSnapshot, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT snapshot_id, user_id, kind, computed_at, score, delta, confidence, test_count, payload
		FROM %s WHERE user_id = ?`, quoteTableName(snapshotsTable, ss.backend))
	args := []any{userID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY computed_at DESC, snapshot_id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ss.db.Query(rebind(ss.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoreSnapshot
	for rows.Next() {
		var (
			snapshot   schema.ScoreSnapshot
			kindStr    string
			confidence string
			computedAt = newTimeScanner(ss.backend)
			delta      sql.NullFloat64
			payload    sql.NullString
		)
		if err := rows.Scan(&snapshot.SnapshotID, &snapshot.UserID, &kindStr, computedAt.dest(), &snapshot.Score,
			&delta, &confidence, &snapshot.TestCount, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if snapshot.ComputedAt, err = computedAt.value(); err != nil {
			return nil, err
		}
		snapshot.Kind = schema.SnapshotKind(kindStr)
		snapshot.Confidence = schema.Confidence(confidence)
		snapshot.Delta = floatPtr(delta)
		snapshot.Payload = payload.String
		results = append(results, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)).Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}
	status.TableSizes[snapshotsTable] = tableSizeBytes(ss.db, ss.backend, ss.connStr, snapshotsTable)
	if status.TotalSnapshots == 0 {
		return status, nil
	}

	last := newTimeScanner(ss.backend)
	row := ss.db.QueryRow(fmt.Sprintf("SELECT snapshot_id, computed_at FROM %s ORDER BY snapshot_id DESC LIMIT 1", quotedTableName))
	if err := row.Scan(&status.LastSnapshotID, last.dest()); err != nil {
		return status, fmt.Errorf("failed to get last snapshot info: %w", err)
	}
	oldest := newTimeScanner(ss.backend)
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MIN(computed_at) FROM %s", quotedTableName))
	if err := row.Scan(oldest.dest()); err != nil {
		return status, fmt.Errorf("failed to get oldest snapshot time: %w", err)
	}

	var err error
	if status.LastSnapshotTime, err = last.value(); err != nil {
		return status, err
	}
	if status.OldestSnapshot, err = oldest.value(); err != nil {
		return status, err
	}
	return status, nil
}

// Close closes the underlying connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
