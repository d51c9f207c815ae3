// Package contract provides interfaces and shared utilities for hormetric's internal architecture.
package contract

import (
	"github.com/huangsam/hormetric/schema"
)

// StoreManager defines the interface for managing the history and snapshot stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
	GetSnapshotStore() SnapshotStore
}

// HistoryStore defines the interface for persisting hormone tests and user profiles.
type HistoryStore interface {
	// AddTest stores a validated test. Tests are immutable once added.
	AddTest(test schema.HormoneTest) error

	// AddTests stores a batch of tests. Either every test is stored or none is.
	AddTests(tests []schema.HormoneTest) error

	// ListTests returns every test of a user ordered by sample time, oldest first.
	ListTests(userID string) ([]schema.HormoneTest, error)

	// GetProfile returns the stored profile and whether one exists.
	GetProfile(userID string) (schema.Profile, bool, error)

	// UpsertProfile creates or replaces a user's profile.
	UpsertProfile(profile schema.Profile) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}

// SnapshotStore defines the interface for recording computed scores over time.
type SnapshotStore interface {
	// RecordSnapshot stores a computed result and returns its unique ID
	RecordSnapshot(snapshot schema.ScoreSnapshot) (int64, error)

	// ListSnapshots returns the newest snapshots of a kind first. An empty kind matches all kinds.
	ListSnapshots(userID string, kind schema.SnapshotKind, limit int) ([]schema.ScoreSnapshot, error)

	// GetStatus returns status information about the snapshot store
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection
	Close() error
}
