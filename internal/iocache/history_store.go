package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// Table names for test history.
const (
	testsTable    = "hormone_tests"
	profilesTable = "user_profiles"
)

// HistoryStoreImpl persists hormone tests and profiles in a SQL database.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a HistoryStore for the backend.
// NoneBackend yields an in-memory store that lives for the process.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return NewMemoryHistoryStore(), nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createHistoryTables creates the history tables and the lookup index.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{testsTable, getCreateTestsQuery(backend)},
		{profilesTable, getCreateProfilesQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	// MySQL lacks CREATE INDEX IF NOT EXISTS; its index comes from migrations
	if backend != schema.MySQLBackend {
		query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_hormone_tests_user_time ON %s (user_id, taken_at)", quoteTableName(testsTable, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", testsTable, err)
		}
	}
	return nil
}

// getCreateTestsQuery returns the CREATE TABLE query for hormone_tests.
func getCreateTestsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(testsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(128) NOT NULL,
				hormone_type VARCHAR(32) NOT NULL,
				reading DOUBLE NOT NULL,
				taken_at DATETIME(6) NOT NULL,
				created_at DATETIME(6) NOT NULL,
				sleep_quality INT,
				exercised BOOLEAN,
				stress_level INT,
				supplements VARCHAR(200) NOT NULL DEFAULT ''
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				hormone_type TEXT NOT NULL,
				reading DOUBLE PRECISION NOT NULL,
				taken_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				sleep_quality INT,
				exercised BOOLEAN,
				stress_level INT,
				supplements TEXT NOT NULL DEFAULT ''
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				hormone_type TEXT NOT NULL,
				reading REAL NOT NULL,
				taken_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				sleep_quality INTEGER,
				exercised INTEGER,
				stress_level INTEGER,
				supplements TEXT NOT NULL DEFAULT ''
			);
		`, quotedTableName)
	}
}

// getCreateProfilesQuery returns the CREATE TABLE query for user_profiles.
func getCreateProfilesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(profilesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id VARCHAR(128) PRIMARY KEY,
				chronological_age INT NOT NULL,
				biological_sex VARCHAR(16) NOT NULL DEFAULT '',
				onboarded BOOLEAN NOT NULL DEFAULT FALSE,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT PRIMARY KEY,
				chronological_age INT NOT NULL,
				biological_sex TEXT NOT NULL DEFAULT '',
				onboarded BOOLEAN NOT NULL DEFAULT FALSE,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT PRIMARY KEY,
				chronological_age INTEGER NOT NULL,
				biological_sex TEXT NOT NULL DEFAULT '',
				onboarded INTEGER NOT NULL DEFAULT 0,
				is_admin INTEGER NOT NULL DEFAULT 0
			);
		`, quotedTableName)
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// AddTest validates and stores a test. A missing ID is minted.
func (hs *HistoryStoreImpl) AddTest(test schema.HormoneTest) error {
	return hs.insertTest(hs.db, test)
}

// AddTests stores every test in one transaction.
func (hs *HistoryStoreImpl) AddTests(tests []schema.HormoneTest) error {
	if err := schema.ValidateTests(tests); err != nil {
		return err
	}
	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, test := range tests {
		if err := hs.insertTest(tx, test); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (hs *HistoryStoreImpl) insertTest(db execer, test schema.HormoneTest) error {
	if err := schema.ValidateTest(test); err != nil {
		return err
	}
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	if test.CreatedAt.IsZero() {
		test.CreatedAt = test.Timestamp
	}

	query := rebind(hs.backend, fmt.Sprintf(`
		INSERT INTO %s (test_id, user_id, hormone_type, reading, taken_at, created_at,
		                sleep_quality, exercised, stress_level, supplements)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(testsTable, hs.backend)))

	_, err := db.Exec(query,
		test.ID, test.UserID, string(test.HormoneType), test.Value,
		formatTime(test.EffectiveTime(), hs.backend), formatTime(test.CreatedAt, hs.backend),
		nullableInt(test.SleepQuality), nullableBool(test.Exercised), nullableInt(test.StressLevel),
		test.Supplements,
	)
	if err != nil {
		return fmt.Errorf("failed to insert test %s: %w", test.ID, err)
	}
	return nil
}

// ListTests returns every test of the user in sample time order.
func (hs *HistoryStoreImpl) ListTests(userID string) ([]schema.HormoneTest, error) {
	query := rebind(hs.backend, fmt.Sprintf(`
		SELECT test_id, user_id, hormone_type, reading, taken_at, created_at,
		       sleep_quality, exercised, stress_level, supplements
		FROM %s WHERE user_id = ? ORDER BY taken_at, created_at, test_id
	`, quoteTableName(testsTable, hs.backend)))

	rows, err := hs.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HormoneTest
	for rows.Next() {
		var (
			test        schema.HormoneTest
			hormone     string
			takenAt     = newTimeScanner(hs.backend)
			createdAt   = newTimeScanner(hs.backend)
			sleep       sql.NullInt64
			exercised   sql.NullBool
			stress      sql.NullInt64
			supplements sql.NullString
		)
		if err := rows.Scan(&test.ID, &test.UserID, &hormone, &test.Value, takenAt.dest(), createdAt.dest(),
			&sleep, &exercised, &stress, &supplements); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		if test.Timestamp, err = takenAt.value(); err != nil {
			return nil, err
		}
		if test.CreatedAt, err = createdAt.value(); err != nil {
			return nil, err
		}
		test.HormoneType = schema.HormoneType(hormone)
		test.SleepQuality = intPtr(sleep)
		test.Exercised = boolPtr(exercised)
		test.StressLevel = intPtr(stress)
		test.Supplements = supplements.String
		results = append(results, test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tests: %w", err)
	}

	sortTests(results)
	return results, nil
}

// GetProfile returns the stored profile of a user.
func (hs *HistoryStoreImpl) GetProfile(userID string) (schema.Profile, bool, error) {
	query := rebind(hs.backend, fmt.Sprintf(
		"SELECT user_id, chronological_age, biological_sex, onboarded, is_admin FROM %s WHERE user_id = ?",
		quoteTableName(profilesTable, hs.backend)))

	var profile schema.Profile
	var sex string
	err := hs.db.QueryRow(query, userID).Scan(&profile.UserID, &profile.ChronologicalAge, &sex, &profile.Onboarded, &profile.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Profile{}, false, nil
	}
	if err != nil {
		return schema.Profile{}, false, fmt.Errorf("failed to get profile for %s: %w", userID, err)
	}
	profile.BiologicalSex = schema.BiologicalSex(sex)
	return profile, true, nil
}

// UpsertProfile validates and stores a profile, replacing any existing row.
func (hs *HistoryStoreImpl) UpsertProfile(profile schema.Profile) error {
	if err := schema.ValidateProfile(profile); err != nil {
		return err
	}
	_, err := hs.db.Exec(hs.getProfileUpsertQuery(),
		profile.UserID, profile.ChronologicalAge, string(profile.BiologicalSex), profile.Onboarded, profile.IsAdmin)
	if err != nil {
		return fmt.Errorf("failed to upsert profile for %s: %w", profile.UserID, err)
	}
	return nil
}

// getProfileUpsertQuery returns the UPSERT query for the backend.
func (hs *HistoryStoreImpl) getProfileUpsertQuery() string {
	quotedTableName := quoteTableName(profilesTable, hs.backend)
	switch hs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (user_id, chronological_age, biological_sex, onboarded, is_admin) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE chronological_age = new.chronological_age, biological_sex = new.biological_sex,
			onboarded = new.onboarded, is_admin = new.is_admin`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (user_id, chronological_age, biological_sex, onboarded, is_admin) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET chronological_age = EXCLUDED.chronological_age, biological_sex = EXCLUDED.biological_sex,
			onboarded = EXCLUDED.onboarded, is_admin = EXCLUDED.is_admin`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (user_id, chronological_age, biological_sex, onboarded, is_admin) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}
	if hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(testsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT user_id) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalTests, &status.TotalUsers); err != nil {
		return status, fmt.Errorf("failed to get total tests: %w", err)
	}
	if status.TotalTests == 0 {
		return status, nil
	}

	first, last := newTimeScanner(hs.backend), newTimeScanner(hs.backend)
	row = hs.db.QueryRow(fmt.Sprintf("SELECT MIN(taken_at), MAX(taken_at) FROM %s", quotedTableName))
	if err := row.Scan(first.dest(), last.dest()); err != nil {
		return status, fmt.Errorf("failed to get test time range: %w", err)
	}
	var err error
	if status.FirstTestTime, err = first.value(); err != nil {
		return status, err
	}
	if status.LastTestTime, err = last.value(); err != nil {
		return status, err
	}
	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// sortTests orders tests by effective time and keeps ties stable.
func sortTests(tests []schema.HormoneTest) {
	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].EffectiveTime().Before(tests[j].EffectiveTime())
	})
}
