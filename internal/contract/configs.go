package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/hormetric/schema"
)

// Default values for configuration.
const (
	DefaultUserID      = "default"
	DefaultWindow      = "7 days"
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	UserID      string
	Age         int                  // 0 means use the stored profile
	Sex         schema.BiologicalSex // empty means use the stored profile
	Window      time.Duration        // ReadyScore recency window
	AsOf        time.Time            // Evaluation time for every engine
	Hormone     schema.HormoneType   // Optional filter for history listings
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	// PendingTest is the validated test built from the log flags, if any.
	PendingTest *schema.HormoneTest

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext
}

// ProfilingConfig holds pprof settings.
type ProfilingConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	User              string `mapstructure:"user"`
	Age               int    `mapstructure:"age"`
	Sex               string `mapstructure:"sex"`
	Window            string `mapstructure:"window"`
	AsOf              string `mapstructure:"as-of"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	Limit             int    `mapstructure:"limit"`
	Hormone           string `mapstructure:"hormone"`
	StoreBackend      string `mapstructure:"store-backend"`
	StoreDBConnect    string `mapstructure:"store-db-connect"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`

	// --- Fields from logCmd.Flags() ---
	Value       float64 `mapstructure:"value"`
	TakenAt     string  `mapstructure:"taken-at"`
	Sleep       int     `mapstructure:"sleep"`
	Exercised   string  `mapstructure:"exercised"`
	Stress      int     `mapstructure:"stress"`
	Supplements string  `mapstructure:"supplements"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.PendingTest != nil {
		test := *c.PendingTest
		clone.PendingTest = &test
	}
	return &clone
}

// CloneForUser creates a copy of the Config scoped to another user.
func (c *Config) CloneForUser(userID string) *Config {
	clone := c.Clone()
	clone.UserID = userID
	return clone
}

// ResolveProfile overlays the age and sex overrides on a stored profile.
func (c *Config) ResolveProfile(stored schema.Profile) schema.Profile {
	profile := stored
	profile.UserID = c.UserID
	if c.Age > 0 {
		profile.ChronologicalAge = c.Age
	}
	if c.Sex != schema.Unspecified {
		profile.BiologicalSex = c.Sex
	}
	return profile
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processProfileInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processLogInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates history and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- History Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("store-db-connect: %w", err)
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		cfg.SnapshotBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("snapshot-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.SnapshotBackend == schema.SQLiteBackend {
		historyPath := cfg.StoreDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		snapshotPath := cfg.SnapshotDBConnect
		if snapshotPath == "" {
			snapshotPath = GetSnapshotDBFilePath()
		}
		if historyPath == snapshotPath {
			return fmt.Errorf("history and snapshot storage must use different SQLite database files. Both resolve to %q", historyPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors

	limit := input.Limit
	if limit == 0 {
		limit = DefaultResultLimit
	}
	if limit < 0 || limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = limit

	precision := input.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	if precision < 1 || precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.Hormone = ""
	if strings.TrimSpace(input.Hormone) != "" {
		hormone, err := schema.ParseHormoneType(input.Hormone)
		if err != nil {
			return err
		}
		cfg.Hormone = hormone
	}
	return nil
}

// processProfileInputs handles the user identity and the profile overrides.
func processProfileInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.UserID = strings.TrimSpace(input.User)
	if cfg.UserID == "" {
		cfg.UserID = DefaultUserID
	}

	if input.Age != 0 && (input.Age < 1 || input.Age > 120) {
		return fmt.Errorf("age must be between 1 and 120 (received %d)", input.Age)
	}
	cfg.Age = input.Age

	sex, err := schema.ParseBiologicalSex(input.Sex)
	if err != nil {
		return fmt.Errorf("invalid sex '%s'. must be male, female or empty", input.Sex)
	}
	cfg.Sex = sex
	return nil
}

// processTimeInputs handles the evaluation time and the recency window.
func processTimeInputs(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	asOf, err := parseTimeInput(input.AsOf, now)
	if err != nil {
		return fmt.Errorf("invalid as-of value: %w", err)
	}
	cfg.AsOf = asOf

	window := input.Window
	if strings.TrimSpace(window) == "" {
		window = DefaultWindow
	}
	duration, err := ParseLookbackDuration(window)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	cfg.Window = duration
	return nil
}

// processLogInputs builds the pending test when a value was given on the command line.
func processLogInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PendingTest = nil
	if input.Value == 0 {
		return nil
	}
	if cfg.Hormone == "" {
		return fmt.Errorf("--hormone is required when logging a test")
	}

	takenAt, err := parseTimeInput(input.TakenAt, cfg.AsOf)
	if err != nil {
		return fmt.Errorf("invalid taken-at value: %w", err)
	}
	test := schema.HormoneTest{
		UserID:      cfg.UserID,
		HormoneType: cfg.Hormone,
		Value:       input.Value,
		Timestamp:   takenAt,
		CreatedAt:   cfg.AsOf,
		Supplements: strings.TrimSpace(input.Supplements),
	}
	if input.Sleep != 0 {
		test.SleepQuality = schema.Int(input.Sleep)
	}
	if input.Stress != 0 {
		test.StressLevel = schema.Int(input.Stress)
	}
	if input.Exercised != "" {
		exercised, err := ParseBoolString(input.Exercised)
		if err != nil {
			return fmt.Errorf("invalid --exercised value: %w", err)
		}
		test.Exercised = schema.Bool(exercised)
	}
	if err := schema.ValidateTest(test); err != nil {
		return err
	}
	cfg.PendingTest = &test
	return nil
}

// parseTimeInput accepts RFC3339 or "N units ago". An empty string yields now.
func parseTimeInput(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	t, err := time.Parse(DateTimeFormat, s)
	if err == nil {
		return t, nil
	}
	t, relErr := ParseRelativeTime(s, now)
	if relErr != nil {
		return time.Time{}, fmt.Errorf("expected absolute ISO8601 or 'N [units] ago' for '%s': %v", s, err)
	}
	return t, nil
}

// RevalidateRequest applies per-request user and evaluation time overrides
// to an already validated config. Empty values keep the current setting.
func RevalidateRequest(cfg *Config, userID, asOf string) error {
	if id := strings.TrimSpace(userID); id != "" {
		cfg.UserID = id
	}
	if strings.TrimSpace(asOf) != "" {
		t, err := parseTimeInput(asOf, time.Now())
		if err != nil {
			return fmt.Errorf("invalid as-of value: %w", err)
		}
		cfg.AsOf = t
	}
	return nil
}

// RevalidateLog builds the pending test from per-request log inputs.
// Unlike the command line, a value is mandatory here.
func RevalidateLog(cfg *Config, input *ConfigRawInput) error {
	if input.Value == 0 {
		return fmt.Errorf("value is required when logging a test")
	}
	hormone, err := schema.ParseHormoneType(input.Hormone)
	if err != nil {
		return err
	}
	cfg.Hormone = hormone
	return processLogInputs(cfg, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profiling *ProfilingConfig, prefix string) {
	prefix = strings.TrimSpace(prefix)
	profiling.Enabled = prefix != ""
	profiling.Prefix = prefix
}
