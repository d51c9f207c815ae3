package iocache

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// MemoryHistoryStore keeps history in process memory. It backs the none backend and tests.
type MemoryHistoryStore struct {
	mu       sync.RWMutex
	tests    map[string][]schema.HormoneTest
	profiles map[string]schema.Profile
	ids      map[string]struct{}
}

var _ contract.HistoryStore = &MemoryHistoryStore{} // Compile-time check

// NewMemoryHistoryStore returns an empty in-memory store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		tests:    make(map[string][]schema.HormoneTest),
		profiles: make(map[string]schema.Profile),
		ids:      make(map[string]struct{}),
	}
}

// AddTest validates and stores a test. A missing ID is minted.
func (ms *MemoryHistoryStore) AddTest(test schema.HormoneTest) error {
	return ms.AddTests([]schema.HormoneTest{test})
}

// AddTests stores every test, or none of them when any is invalid or a duplicate.
func (ms *MemoryHistoryStore) AddTests(tests []schema.HormoneTest) error {
	if err := schema.ValidateTests(tests); err != nil {
		return err
	}
	batch := make([]schema.HormoneTest, len(tests))
	for i, test := range tests {
		if test.ID == "" {
			test.ID = uuid.NewString()
		}
		if test.CreatedAt.IsZero() {
			test.CreatedAt = test.Timestamp
		}
		batch[i] = test
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	seen := make(map[string]struct{}, len(batch))
	for _, test := range batch {
		_, stored := ms.ids[test.ID]
		_, repeated := seen[test.ID]
		if stored || repeated {
			return fmt.Errorf("failed to insert test %s: duplicate id", test.ID)
		}
		seen[test.ID] = struct{}{}
	}
	for _, test := range batch {
		ms.ids[test.ID] = struct{}{}
		ms.tests[test.UserID] = append(ms.tests[test.UserID], test)
	}
	return nil
}

// ListTests returns a copy of the user's tests in sample time order.
func (ms *MemoryHistoryStore) ListTests(userID string) ([]schema.HormoneTest, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	stored := ms.tests[userID]
	if len(stored) == 0 {
		return nil, nil
	}
	results := make([]schema.HormoneTest, len(stored))
	copy(results, stored)
	sortTests(results)
	return results, nil
}

// GetProfile returns the stored profile of a user.
func (ms *MemoryHistoryStore) GetProfile(userID string) (schema.Profile, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	profile, ok := ms.profiles[userID]
	return profile, ok, nil
}

// UpsertProfile validates and stores a profile.
func (ms *MemoryHistoryStore) UpsertProfile(profile schema.Profile) error {
	if err := schema.ValidateProfile(profile); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.profiles[profile.UserID] = profile
	return nil
}

// GetStatus summarizes the stored tests.
func (ms *MemoryHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status := schema.HistoryStatus{Backend: string(schema.NoneBackend), Connected: true}
	for _, tests := range ms.tests {
		if len(tests) == 0 {
			continue
		}
		status.TotalUsers++
		for _, t := range tests {
			status.TotalTests++
			at := t.EffectiveTime()
			if status.FirstTestTime.IsZero() || at.Before(status.FirstTestTime) {
				status.FirstTestTime = at
			}
			if at.After(status.LastTestTime) {
				status.LastTestTime = at
			}
		}
	}
	return status, nil
}

// Close is a no-op.
func (ms *MemoryHistoryStore) Close() error {
	return nil
}
