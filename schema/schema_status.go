package schema

import "time"

// HistoryStatus represents the status of the test history store.
type HistoryStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalTests    int       `json:"total_tests"`
	TotalUsers    int       `json:"total_users"`
	LastTestTime  time.Time `json:"last_test_time"`
	FirstTestTime time.Time `json:"first_test_time"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSnapshots   int              `json:"total_snapshots"`
	LastSnapshotID   int64            `json:"last_snapshot_id"`
	LastSnapshotTime time.Time        `json:"last_snapshot_time"`
	OldestSnapshot   time.Time        `json:"oldest_snapshot_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// SnapshotKind names the engine that produced a snapshot.
type SnapshotKind string

// All snapshot kinds.
const (
	ReadySnapshot  SnapshotKind = "ready_score"
	BioAgeSnapshot SnapshotKind = "bio_age"
	ImpactSnapshot SnapshotKind = "impact"
)

// ScoreSnapshot is a row from the score_snapshots table.
type ScoreSnapshot struct {
	SnapshotID int64        `json:"snapshot_id"`
	UserID     string       `json:"user_id"`
	Kind       SnapshotKind `json:"kind"`
	ComputedAt time.Time    `json:"computed_at"`
	Score      float64      `json:"score"` // ReadyScore, biological age or trend score
	Delta      *float64     `json:"delta,omitempty"`
	Confidence Confidence   `json:"confidence"`
	TestCount  int          `json:"test_count"`
	Payload    string       `json:"payload"` // JSON encoded result
}
