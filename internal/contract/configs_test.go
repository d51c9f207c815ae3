package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
	}{
		{
			name:  "empty input uses defaults",
			input: &ConfigRawInput{},
		},
		{
			name: "full profile overrides",
			input: &ConfigRawInput{
				User: "alice", Age: 42, Sex: "Female", Window: "3 days",
				AsOf: "2025-03-01T08:00:00Z", Output: "json", Precision: 2, Limit: 10,
			},
		},
		{
			name:        "age out of range",
			input:       &ConfigRawInput{Age: 130},
			expectError: true,
		},
		{
			name:        "unknown sex",
			input:       &ConfigRawInput{Sex: "other"},
			expectError: true,
		},
		{
			name:        "bad window",
			input:       &ConfigRawInput{Window: "fortnight"},
			expectError: true,
		},
		{
			name:        "bad as-of",
			input:       &ConfigRawInput{AsOf: "yesterday"},
			expectError: true,
		},
		{
			name:        "invalid output",
			input:       &ConfigRawInput{Output: "xml"},
			expectError: true,
		},
		{
			name:        "invalid precision",
			input:       &ConfigRawInput{Precision: 3},
			expectError: true,
		},
		{
			name:        "limit over max",
			input:       &ConfigRawInput{Limit: MaxResultLimit + 1},
			expectError: true,
		},
		{
			name:        "unknown hormone",
			input:       &ConfigRawInput{Hormone: "insulin"},
			expectError: true,
		},
		{
			name:        "invalid color",
			input:       &ConfigRawInput{Color: "sometimes"},
			expectError: true,
		},
		{
			name:        "invalid store backend",
			input:       &ConfigRawInput{StoreBackend: "redis"},
			expectError: true,
		},
		{
			name:        "mysql without connection string",
			input:       &ConfigRawInput{StoreBackend: "mysql"},
			expectError: true,
		},
		{
			name: "postgres history with sqlite snapshots",
			input: &ConfigRawInput{
				StoreBackend:    "postgresql",
				StoreDBConnect:  "host=localhost dbname=hormetric user=app",
				SnapshotBackend: "sqlite",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	before := time.Now()
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))

	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, 7*24*time.Hour, cfg.Window)
	assert.False(t, cfg.AsOf.Before(before))
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.NoneBackend, cfg.SnapshotBackend)
	assert.Nil(t, cfg.PendingTest)
}

func TestProcessAndValidateRelativeAsOf(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{AsOf: "2 days ago"}))
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), cfg.AsOf, time.Minute)
}

func TestProcessLogInputs(t *testing.T) {
	t.Run("builds a pending test", func(t *testing.T) {
		cfg := &Config{}
		err := ProcessAndValidate(cfg, &ConfigRawInput{
			User: "bob", Hormone: "Cortisol", Value: 14.2,
			AsOf: "2025-03-01T09:00:00Z", TakenAt: "1 hour ago",
			Sleep: 4, Exercised: "yes", Stress: 2, Supplements: " magnesium ",
		})
		require.NoError(t, err)
		require.NotNil(t, cfg.PendingTest)

		test := cfg.PendingTest
		assert.Equal(t, "bob", test.UserID)
		assert.Equal(t, schema.Cortisol, test.HormoneType)
		assert.Equal(t, 14.2, test.Value)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), test.Timestamp)
		assert.Equal(t, 4, *test.SleepQuality)
		assert.True(t, *test.Exercised)
		assert.Equal(t, 2, *test.StressLevel)
		assert.Equal(t, "magnesium", test.Supplements)
	})

	t.Run("requires a hormone", func(t *testing.T) {
		assert.Error(t, ProcessAndValidate(&Config{}, &ConfigRawInput{Value: 14}))
	})

	t.Run("rejects invalid context", func(t *testing.T) {
		err := ProcessAndValidate(&Config{}, &ConfigRawInput{Hormone: "dhea", Value: 200, Sleep: 6})
		assert.ErrorIs(t, err, schema.ErrInvalidContext)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		err := ProcessAndValidate(&Config{}, &ConfigRawInput{Hormone: "dhea", Value: -1})
		assert.ErrorIs(t, err, schema.ErrInvalidValue)
	})

	t.Run("rejects bad exercised flag", func(t *testing.T) {
		assert.Error(t, ProcessAndValidate(&Config{}, &ConfigRawInput{Hormone: "dhea", Value: 200, Exercised: "kinda"}))
	})
}

func TestResolveProfile(t *testing.T) {
	stored := schema.Profile{UserID: "alice", ChronologicalAge: 35, BiologicalSex: schema.Male, Onboarded: true}

	cfg := &Config{UserID: "alice"}
	assert.Equal(t, stored, cfg.ResolveProfile(stored))

	cfg = &Config{UserID: "alice", Age: 40, Sex: schema.Female}
	profile := cfg.ResolveProfile(stored)
	assert.Equal(t, 40, profile.ChronologicalAge)
	assert.Equal(t, schema.Female, profile.BiologicalSex)
	assert.True(t, profile.Onboarded)
}

func TestConfigClone(t *testing.T) {
	test := schema.HormoneTest{HormoneType: schema.DHEA, Value: 200}
	cfg := &Config{UserID: "alice", PendingTest: &test}

	clone := cfg.CloneForUser("bob")
	clone.PendingTest.Value = 300
	assert.Equal(t, "alice", cfg.UserID)
	assert.Equal(t, "bob", clone.UserID)
	assert.Equal(t, 200.0, cfg.PendingTest.Value)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/hormetric", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/hormetric", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=hormetric", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSameSQLiteFile(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")
	err := ProcessAndValidate(&Config{}, &ConfigRawInput{
		StoreBackend: "sqlite", StoreDBConnect: shared,
		SnapshotBackend: "sqlite", SnapshotDBConnect: shared,
	})
	assert.Error(t, err)

	err = ProcessAndValidate(&Config{}, &ConfigRawInput{SnapshotBackend: "sqlite"})
	assert.NoError(t, err, "default history and snapshot files differ")
}

func TestRevalidateRequest(t *testing.T) {
	asOf := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := &Config{UserID: DefaultUserID, AsOf: asOf}

	require.NoError(t, RevalidateRequest(cfg, "", ""))
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, asOf, cfg.AsOf)

	require.NoError(t, RevalidateRequest(cfg, " bob ", "2025-04-01T00:00:00Z"))
	assert.Equal(t, "bob", cfg.UserID)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), cfg.AsOf)

	assert.Error(t, RevalidateRequest(cfg, "", "next tuesday"))
}

func TestRevalidateLog(t *testing.T) {
	asOf := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{UserID: "alice", AsOf: asOf}
		err := RevalidateLog(cfg, &ConfigRawInput{Hormone: "DHEA", Value: 180, Stress: 2})
		require.NoError(t, err)
		require.NotNil(t, cfg.PendingTest)
		assert.Equal(t, schema.DHEA, cfg.PendingTest.HormoneType)
		assert.Equal(t, asOf, cfg.PendingTest.Timestamp)
		require.NotNil(t, cfg.PendingTest.StressLevel)
		assert.Equal(t, 2, *cfg.PendingTest.StressLevel)
	})

	t.Run("missing value", func(t *testing.T) {
		cfg := &Config{UserID: "alice", AsOf: asOf}
		assert.ErrorContains(t, RevalidateLog(cfg, &ConfigRawInput{Hormone: "cortisol"}), "value is required")
	})

	t.Run("unknown hormone", func(t *testing.T) {
		cfg := &Config{UserID: "alice", AsOf: asOf}
		assert.Error(t, RevalidateLog(cfg, &ConfigRawInput{Hormone: "insulin", Value: 5}))
	})
}

func TestProcessProfilingConfig(t *testing.T) {
	var profiling ProfilingConfig
	ProcessProfilingConfig(&profiling, " run1 ")
	assert.True(t, profiling.Enabled)
	assert.Equal(t, "run1", profiling.Prefix)

	ProcessProfilingConfig(&profiling, "")
	assert.False(t, profiling.Enabled)
}
