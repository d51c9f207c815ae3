package schema

// Custom string types for type safety.
type (
	// HormoneType identifies the hormone measured by a test.
	HormoneType string

	// BiologicalSex selects sex-dependent reference ranges.
	BiologicalSex string

	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// TestStatus classifies a single reading against its optimal range.
	TestStatus string

	// Confidence grades how much a derived result can be trusted.
	Confidence string

	// Trend is the direction of a longitudinal change.
	Trend string

	// Feature names a gated, derived metric.
	Feature string

	// GateReason is the machine-readable reason for a locked feature.
	GateReason string

	// RecordType is the direction of a personal record.
	RecordType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string
)

// Supported hormone types. The set is open: a type is only usable once it has
// a registered range entry.
const (
	Cortisol     HormoneType = "cortisol"
	Testosterone HormoneType = "testosterone"
	DHEA         HormoneType = "dhea"
)

// Biological sex values. The empty value means unspecified.
const (
	Male        BiologicalSex = "male"
	Female      BiologicalSex = "female"
	Unspecified BiologicalSex = ""
)

// Breakdown keys used in the ReadyScore logic.
const (
	BreakdownCortisol     BreakdownKey = "cortisol"
	BreakdownTestosterone BreakdownKey = "testosterone"
	BreakdownDHEA         BreakdownKey = "dhea"
	BreakdownSleep        BreakdownKey = "sleep"
	BreakdownExercise     BreakdownKey = "exercise"
	BreakdownStress       BreakdownKey = "stress"
	BreakdownTrend        BreakdownKey = "trend"
)

// All test statuses. Exactly one holds for any reading.
const (
	OptimalStatus    TestStatus = "optimal"
	BorderlineStatus TestStatus = "borderline"
	ConcerningStatus TestStatus = "concerning"
)

// All confidence grades.
const (
	HighConfidence   Confidence = "high"
	MediumConfidence Confidence = "medium"
	LowConfidence    Confidence = "low"
)

// All trend directions.
const (
	Improving Trend = "improving"
	Stable    Trend = "stable"
	Declining Trend = "declining"
)

// All gated features.
const (
	ReadyScoreFeature Feature = "ready_score"
	BioAgeFeature     Feature = "bio_age"
	ImpactFeature     Feature = "impact"
	AskFeature        Feature = "ask"
	ProtocolsFeature  Feature = "protocols"
)

// Gate reasons.
const (
	ReasonOK                   GateReason = "ok"
	ReasonInsufficientTests    GateReason = "insufficient_tests"
	ReasonInsufficientDays     GateReason = "insufficient_days"
	ReasonInsufficientTestDays GateReason = "insufficient_tests_and_days"
)

// Personal record directions.
const (
	HighestRecord RecordType = "highest"
	LowestRecord  RecordType = "lowest"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllFeatures returns every gated feature in display order.
var AllFeatures = []Feature{ReadyScoreFeature, BioAgeFeature, ImpactFeature, AskFeature, ProtocolsFeature}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSexes lists all accepted biological sex values.
var ValidSexes = map[BiologicalSex]struct{}{
	Male:        {},
	Female:      {},
	Unspecified: {},
}
