package iocache

import (
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// AddTest implements the HistoryStore interface.
func (m *MockHistoryStore) AddTest(test schema.HormoneTest) error {
	args := m.Called(test)
	return args.Error(0)
}

// AddTests implements the HistoryStore interface.
func (m *MockHistoryStore) AddTests(tests []schema.HormoneTest) error {
	args := m.Called(tests)
	return args.Error(0)
}

// ListTests implements the HistoryStore interface.
func (m *MockHistoryStore) ListTests(userID string) ([]schema.HormoneTest, error) {
	args := m.Called(userID)
	tests, _ := args.Get(0).([]schema.HormoneTest)
	return tests, args.Error(1)
}

// GetProfile implements the HistoryStore interface.
func (m *MockHistoryStore) GetProfile(userID string) (schema.Profile, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(schema.Profile), args.Bool(1), args.Error(2)
}

// UpsertProfile implements the HistoryStore interface.
func (m *MockHistoryStore) UpsertProfile(profile schema.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// RecordSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) RecordSnapshot(snapshot schema.ScoreSnapshot) (int64, error) {
	args := m.Called(snapshot)
	return args.Get(0).(int64), args.Error(1)
}

// ListSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListSnapshots(userID string, kind schema.SnapshotKind, limit int) ([]schema.ScoreSnapshot, error) {
	args := m.Called(userID, kind, limit)
	snapshots, _ := args.Get(0).([]schema.ScoreSnapshot)
	return snapshots, args.Error(1)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
