package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/hormetric/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreManager(t *testing.T) {
	history := NewMemoryHistoryStore()
	snapshots, err := NewSnapshotStore(schema.NoneBackend, "")
	require.NoError(t, err)

	mgr := NewStoreManager(history, snapshots)
	assert.Same(t, history, mgr.GetHistoryStore())
	assert.Equal(t, snapshots, mgr.GetSnapshotStore())
}

func TestClearHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.AddTest(newTest("a", "alice", schema.Cortisol, 10, baseTime)))
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is fine
	assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
}

func TestClearBackendEdgeCases(t *testing.T) {
	assert.Error(t, ClearSnapshots(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearSnapshots(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory("oracle", "", ""))
}

func TestExportHistory(t *testing.T) {
	history := NewMemoryHistoryStore()
	require.NoError(t, history.AddTest(newTest("a", "alice", schema.Cortisol, 10, baseTime)))
	require.NoError(t, history.AddTest(newTest("b", "alice", schema.DHEA, 200, baseTime)))

	snapshots, err := NewSnapshotStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = snapshots.Close() }()
	_, err = snapshots.RecordSnapshot(schema.ScoreSnapshot{UserID: "alice", Kind: schema.ReadySnapshot, ComputedAt: baseTime, Score: 70, Confidence: schema.LowConfidence, TestCount: 2})
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "export")
	require.NoError(t, ExportHistory(history, snapshots, "alice", output))

	data, err := os.ReadFile(output + ".tests.parquet")
	require.NoError(t, err)
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), file.NumRows())

	info, err := os.Stat(output + ".snapshots.parquet")
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportHistoryErrors(t *testing.T) {
	history := NewMemoryHistoryStore()
	snapshots, err := NewSnapshotStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.Error(t, ExportHistory(history, snapshots, "alice", ""))
	assert.Error(t, ExportHistory(history, snapshots, "alice", filepath.Join(t.TempDir(), "out")))

	require.NoError(t, history.AddTest(newTest("a", "alice", schema.Cortisol, 10, baseTime)))
	err = ExportHistory(history, snapshots, "alice", "/nonexistent/dir/out")
	assert.Error(t, err)
}
