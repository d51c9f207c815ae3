// Package iocache persists test history and score snapshots.
package iocache

import (
	"sync"

	"github.com/huangsam/hormetric/internal/contract"
)

// StoreManager manages the history and snapshot stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.HistoryStore
	snapshots    contract.SnapshotStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores.
func NewStoreManager(history contract.HistoryStore, snapshots contract.SnapshotStore) *StoreManager {
	return &StoreManager{history: history, snapshots: snapshots}
}

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetSnapshotStore returns the SnapshotStore.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
