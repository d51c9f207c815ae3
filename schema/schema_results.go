package schema

import "time"

// ReadyScoreResult is the daily readiness score. It is recomputed on demand.
type ReadyScoreResult struct {
	Score      int                      `json:"score"` // 0-100
	Band       string                   `json:"band"`
	Confidence Confidence               `json:"confidence"`
	Trend      Trend                    `json:"trend"`
	Breakdown  map[BreakdownKey]float64 `json:"breakdown"` // Additive contributions around the baseline
	Protocols  []string                 `json:"protocols"`
	LatestTest *time.Time               `json:"latest_test,omitempty"`
}

// BioAgeResult is the biological age estimate.
type BioAgeResult struct {
	CanCalculate     bool                    `json:"can_calculate"`
	Reason           GateReason              `json:"reason"`
	Message          string                  `json:"message"`
	TestsNeeded      int                     `json:"tests_needed"`
	DaysNeeded       int                     `json:"days_needed"`
	ChronologicalAge int                     `json:"chronological_age"`
	BiologicalAge    float64                 `json:"biological_age"`
	Delta            float64                 `json:"delta"` // Positive means biologically younger
	Confidence       Confidence              `json:"confidence"`
	Contributions    map[HormoneType]float64 `json:"contributions"` // Years per hormone, positive is younger
	RatioAdjustment  float64                 `json:"ratio_adjustment"`
	BehaviorBonus    float64                 `json:"behavior_bonus"`
	Percentile       string                  `json:"percentile"`
	PercentileEmoji  string                  `json:"percentile_emoji"`
}

// HormoneTrend is the early-versus-recent comparison for one hormone.
type HormoneTrend struct {
	HormoneType   HormoneType `json:"hormone_type"`
	Trend         Trend       `json:"trend"`
	PercentChange float64     `json:"percent_change"` // Signed raw change of recent vs early average
	Improvement   float64     `json:"improvement"`    // Change in the hormone's improving direction
	EarlyAverage  float64     `json:"early_average"`
	RecentAverage float64     `json:"recent_average"`
	Samples       int         `json:"samples"`
}

// ImpactResult is the longitudinal intervention analysis.
type ImpactResult struct {
	CanCalculate         bool           `json:"can_calculate"`
	Reason               GateReason     `json:"reason"`
	Message              string         `json:"message"`
	TestsNeeded          int            `json:"tests_needed"`
	DaysNeeded           int            `json:"days_needed"`
	Trends               []HormoneTrend `json:"trends"`
	MostImprovedHormone  HormoneType    `json:"most_improved_hormone,omitempty"`
	TrendScore           float64        `json:"trend_score"` // -100 to 100
	OverallTrend         Trend          `json:"overall_trend"`
	InterventionsTracked int            `json:"interventions_tracked"`
	Insights             []string       `json:"insights"`
	Confidence           Confidence     `json:"confidence"`
}

// TestInsight is the feedback shown right after a new test is logged.
type TestInsight struct {
	HormoneType         HormoneType `json:"hormone_type"`
	Value               float64     `json:"value"`
	Status              TestStatus  `json:"status"`
	StatusMessage       string      `json:"status_message"`
	ComparisonToAverage string      `json:"comparison_to_average,omitempty"`
	DeviationPercent    *float64    `json:"deviation_percent,omitempty"`
	AnomalyDetected     bool        `json:"anomaly_detected"`
	AnomalyMessage      string      `json:"anomaly_message,omitempty"`
	TestCount           int         `json:"test_count"`
	TestCountMessage    string      `json:"test_count_message"`
}

// PersonalRecord reports whether a value beats every prior same-hormone value.
type PersonalRecord struct {
	IsRecord bool       `json:"is_record"`
	Type     RecordType `json:"type,omitempty"`
}

// ReadyScoreGate tells whether the ReadyScore can be shown and how reliable it is.
type ReadyScoreGate struct {
	CanShow     bool   `json:"can_show"`
	IsOptimal   bool   `json:"is_optimal"`
	TestsNeeded int    `json:"tests_needed"`
	Message     string `json:"message"`
}

// FeatureGate is the unlock state of a count-and-span gated feature.
type FeatureGate struct {
	Feature      Feature    `json:"feature"`
	CanCalculate bool       `json:"can_calculate"`
	Reason       GateReason `json:"reason"`
	TestsNeeded  int        `json:"tests_needed"`
	DaysNeeded   int        `json:"days_needed"`
	Message      string     `json:"message"`
}

// FeatureRequirement is the static unlock configuration of a feature.
type FeatureRequirement struct {
	Feature             Feature `json:"feature"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	MinTests            int     `json:"min_tests"`
	MinDays             int     `json:"min_days,omitempty"`
	OptimalTestsPerWeek int     `json:"optimal_tests_per_week,omitempty"`
}

// FeatureProgress is one row of the unlock overview.
type FeatureProgress struct {
	Feature  Feature `json:"feature"`
	Title    string  `json:"title"`
	Percent  int     `json:"percent"`
	Unlocked bool    `json:"unlocked"`
	Message  string  `json:"message"`
}

// CallToAction is the single primary button of a hero insight.
type CallToAction struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// HeroInsight is the headline card at the top of the home screen.
type HeroInsight struct {
	Rule     string       `json:"rule"`
	Headline string       `json:"headline"`
	Actions  []string     `json:"actions"`
	CTA      CallToAction `json:"cta"`
}

// ProactiveMessage is an optional nudge produced after a new test.
type ProactiveMessage struct {
	Rule    string `json:"rule"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// StreakResult is the consecutive testing days summary.
type StreakResult struct {
	Days     int        `json:"days"`
	Message  string     `json:"message"`
	TestDays int        `json:"test_days"` // Distinct calendar days with a test
	LastTest *time.Time `json:"last_test,omitempty"`
}

// LogResult is everything reported back after a test is stored.
type LogResult struct {
	Test      HormoneTest       `json:"test"`
	Insight   TestInsight       `json:"insight"`
	Record    PersonalRecord    `json:"personal_record"`
	Proactive *ProactiveMessage `json:"proactive,omitempty"`
}

// CoachContext is the context string handed to the chat coach.
type CoachContext struct {
	UserID  string `json:"user_id"`
	Context string `json:"context"`
}
