package iocache

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)

func newTest(id, user string, hormone schema.HormoneType, value float64, at time.Time) schema.HormoneTest {
	return schema.HormoneTest{ID: id, UserID: user, HormoneType: hormone, Value: value, Timestamp: at, CreatedAt: at}
}

// historyStores returns every in-process implementation so the same
// behavior is asserted against SQLite and memory.
func historyStores(t *testing.T) map[string]contract.HistoryStore {
	t.Helper()
	sqliteStore, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	memoryStore, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	return map[string]contract.HistoryStore{
		"sqlite": sqliteStore,
		"memory": memoryStore,
	}
}

func TestHistoryStore_AddAndListTests(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			late := newTest("b", "alice", schema.Cortisol, 12.5, baseTime.Add(48*time.Hour))
			late.SleepQuality = schema.Int(4)
			late.Exercised = schema.Bool(false)
			late.Supplements = "ashwagandha"
			early := newTest("a", "alice", schema.DHEA, 180, baseTime)
			other := newTest("c", "bob", schema.Testosterone, 550, baseTime)

			require.NoError(t, store.AddTest(late))
			require.NoError(t, store.AddTest(early))
			require.NoError(t, store.AddTest(other))

			tests, err := store.ListTests("alice")
			require.NoError(t, err)
			require.Len(t, tests, 2)
			assert.Equal(t, "a", tests[0].ID, "tests come back in sample time order")
			assert.Equal(t, "b", tests[1].ID)
			assert.True(t, baseTime.Equal(tests[0].Timestamp))

			got := tests[1]
			assert.Equal(t, schema.Cortisol, got.HormoneType)
			assert.InDelta(t, 12.5, got.Value, 1e-9)
			require.NotNil(t, got.SleepQuality)
			assert.Equal(t, 4, *got.SleepQuality)
			require.NotNil(t, got.Exercised)
			assert.False(t, *got.Exercised)
			assert.Nil(t, got.StressLevel)
			assert.Equal(t, "ashwagandha", got.Supplements)
		})
	}
}

func TestHistoryStore_AddTestMintsIDAndCreatedAt(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			test := schema.HormoneTest{UserID: "carol", HormoneType: schema.Cortisol, Value: 9, Timestamp: baseTime}
			require.NoError(t, store.AddTest(test))

			tests, err := store.ListTests("carol")
			require.NoError(t, err)
			require.Len(t, tests, 1)
			assert.NotEmpty(t, tests[0].ID)
			assert.True(t, baseTime.Equal(tests[0].CreatedAt))
		})
	}
}

func TestHistoryStore_RejectsInvalidTests(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			bad := newTest("x", "alice", schema.Cortisol, -1, baseTime)
			err := store.AddTest(bad)
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrInvalidValue))

			bad = newTest("y", "alice", "insulin", 3, baseTime)
			assert.ErrorIs(t, store.AddTest(bad), schema.ErrUnknownHormoneType)

			tests, err := store.ListTests("alice")
			require.NoError(t, err)
			assert.Empty(t, tests)
		})
	}
}

func TestHistoryStore_DuplicateID(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.AddTest(newTest("dup", "alice", schema.Cortisol, 10, baseTime)))
			assert.Error(t, store.AddTest(newTest("dup", "alice", schema.Cortisol, 11, baseTime)))
		})
	}
}

func TestHistoryStore_AddTestsIsAtomic(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.AddTest(newTest("taken", "alice", schema.Cortisol, 10, baseTime)))

			batch := []schema.HormoneTest{
				newTest("fresh-1", "alice", schema.Cortisol, 11, baseTime.Add(24*time.Hour)),
				newTest("fresh-2", "alice", schema.DHEA, 210, baseTime.Add(48*time.Hour)),
				newTest("taken", "alice", schema.Cortisol, 12, baseTime.Add(72*time.Hour)),
			}
			assert.Error(t, store.AddTests(batch))

			tests, err := store.ListTests("alice")
			require.NoError(t, err)
			require.Len(t, tests, 1)
			assert.Equal(t, "taken", tests[0].ID)

			require.NoError(t, store.AddTests(batch[:2]))
			tests, err = store.ListTests("alice")
			require.NoError(t, err)
			assert.Len(t, tests, 3)
		})
	}
}

func TestHistoryStore_AddTestsRejectsInvalid(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			batch := []schema.HormoneTest{
				newTest("ok", "alice", schema.Cortisol, 11, baseTime),
				newTest("bad", "alice", "Cortisol", 12, baseTime),
			}
			assert.ErrorIs(t, store.AddTests(batch), schema.ErrUnknownHormoneType)

			tests, err := store.ListTests("alice")
			require.NoError(t, err)
			assert.Empty(t, tests)
		})
	}
}

func TestHistoryStore_Profiles(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.GetProfile("alice")
			require.NoError(t, err)
			assert.False(t, found)

			profile := schema.Profile{UserID: "alice", ChronologicalAge: 34, BiologicalSex: schema.Female, Onboarded: true}
			require.NoError(t, store.UpsertProfile(profile))

			profile.ChronologicalAge = 35
			require.NoError(t, store.UpsertProfile(profile))

			got, found, err := store.GetProfile("alice")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, profile, got)

			assert.ErrorIs(t, store.UpsertProfile(schema.Profile{UserID: "bob", ChronologicalAge: 0}), schema.ErrInvalidProfile)
		})
	}
}

func TestHistoryStore_GetStatus(t *testing.T) {
	for name, store := range historyStores(t) {
		t.Run(name, func(t *testing.T) {
			status, err := store.GetStatus()
			require.NoError(t, err)
			assert.True(t, status.Connected)
			assert.Equal(t, 0, status.TotalTests)

			require.NoError(t, store.AddTest(newTest("a", "alice", schema.Cortisol, 10, baseTime)))
			require.NoError(t, store.AddTest(newTest("b", "alice", schema.DHEA, 200, baseTime.Add(24*time.Hour))))
			require.NoError(t, store.AddTest(newTest("c", "bob", schema.Cortisol, 12, baseTime.Add(72*time.Hour))))

			status, err = store.GetStatus()
			require.NoError(t, err)
			assert.Equal(t, 3, status.TotalTests)
			assert.Equal(t, 2, status.TotalUsers)
			assert.True(t, baseTime.Equal(status.FirstTestTime))
			assert.True(t, baseTime.Add(72*time.Hour).Equal(status.LastTestTime))
		})
	}
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore("oracle", "")
	assert.Error(t, err)
}

func TestSortTestsUsesEffectiveTime(t *testing.T) {
	tests := []schema.HormoneTest{
		{ID: "late", Timestamp: baseTime.Add(time.Hour)},
		{ID: "fallback", CreatedAt: baseTime},
		{ID: "tie", Timestamp: baseTime.Add(time.Hour)},
	}
	sortTests(tests)
	assert.Equal(t, []string{"fallback", "late", "tie"}, []string{tests[0].ID, tests[1].ID, tests[2].ID})
}
