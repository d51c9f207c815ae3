package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 5, 10, 7, 0, 0, 0, time.UTC)

// outputConfig returns a config that writes to a temp file, and the file path.
func outputConfig(t *testing.T, mode schema.OutputMode) (*contract.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out."+string(mode))
	return &contract.Config{Output: mode, OutputFile: path, Precision: 1, Width: 120, StoreBackend: schema.SQLiteBackend}, path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(readOutput(t, path))).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleReadyScore() *schema.ReadyScoreResult {
	return &schema.ReadyScoreResult{
		Score:      72,
		Band:       schema.ReadyBand,
		Confidence: schema.MediumConfidence,
		Trend:      schema.Improving,
		Breakdown: map[schema.BreakdownKey]float64{
			schema.BreakdownCortisol: 8, schema.BreakdownTestosterone: 6, schema.BreakdownDHEA: 4,
			schema.BreakdownSleep: 5, schema.BreakdownExercise: 3, schema.BreakdownStress: -4, schema.BreakdownTrend: 0,
		},
		Protocols:  []string{"Keep your routine"},
		LatestTest: &testTime,
	}
}

func TestPrintReadyScore(t *testing.T) {
	gate := schema.ReadyScoreGate{CanShow: true, IsOptimal: false, TestsNeeded: 1, Message: "Log 1 more test this week for optimal accuracy"}

	t.Run("text", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.TextOut)
		require.NoError(t, PrintReadyScore(sampleReadyScore(), gate, cfg))
		out := readOutput(t, path)
		assert.Contains(t, out, "ReadyScore: 72")
		assert.Contains(t, out, "Keep your routine")
		assert.Contains(t, out, "+8.0")
		assert.Contains(t, out, "optimal accuracy")
	})

	t.Run("json", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.JSONOut)
		require.NoError(t, PrintReadyScore(sampleReadyScore(), gate, cfg))
		var got readyScoreOutput
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
		require.NotNil(t, got.Result)
		assert.Equal(t, 72, got.Result.Score)
		assert.Equal(t, 1, got.Gate.TestsNeeded)
	})

	t.Run("csv", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.CSVOut)
		require.NoError(t, PrintReadyScore(sampleReadyScore(), gate, cfg))
		records := readCSV(t, path)
		require.Len(t, records, 1+len(breakdownOrder))
		assert.Equal(t, []string{"72", "Ready", "medium", "improving", "cortisol", "8.0"}, records[1])
		assert.Equal(t, "trend", records[7][4])
	})

	t.Run("locked", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.TextOut)
		locked := schema.ReadyScoreGate{Message: "Log 1 test to see your ReadyScore"}
		require.NoError(t, PrintReadyScore(nil, locked, cfg))
		assert.Contains(t, readOutput(t, path), "locked: Log 1 test")
	})
}

func TestPrintBioAge(t *testing.T) {
	result := schema.BioAgeResult{
		CanCalculate: true, Reason: schema.ReasonOK, ChronologicalAge: 40, BiologicalAge: 37.5, Delta: 2.5,
		Confidence:    schema.MediumConfidence,
		Contributions: map[schema.HormoneType]float64{schema.Testosterone: 1.5, schema.Cortisol: 0.5, schema.DHEA: 0.5},
		Percentile:    "Top 25%", PercentileEmoji: "💪",
	}

	cfg, path := outputConfig(t, schema.TextOut)
	require.NoError(t, PrintBioAge(result, cfg))
	out := readOutput(t, path)
	assert.Contains(t, out, "Biological age: 37.5 (chronological 40)")
	assert.Contains(t, out, "2.5 years younger")

	cfg, path = outputConfig(t, schema.CSVOut)
	require.NoError(t, PrintBioAge(result, cfg))
	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, "cortisol", records[1][8], "hormones are listed in stable order")

	cfg, path = outputConfig(t, schema.TextOut)
	require.NoError(t, PrintBioAge(schema.BioAgeResult{Message: "Log 3 more tests to unlock BioAge"}, cfg))
	assert.Contains(t, readOutput(t, path), "BioAge locked")
}

func TestPrintImpact(t *testing.T) {
	result := schema.ImpactResult{
		CanCalculate: true, Reason: schema.ReasonOK, TrendScore: 12, OverallTrend: schema.Improving,
		MostImprovedHormone: schema.Cortisol, InterventionsTracked: 4, Confidence: schema.LowConfidence,
		Trends: []schema.HormoneTrend{
			{HormoneType: schema.Cortisol, Trend: schema.Improving, PercentChange: -18, Improvement: 18, EarlyAverage: 20, RecentAverage: 16.4, Samples: 6},
		},
		Insights: []string{"Cortisol is down 18%"},
	}

	cfg, path := outputConfig(t, schema.TextOut)
	require.NoError(t, PrintImpact(result, cfg))
	out := readOutput(t, path)
	assert.Contains(t, out, "Most improved: cortisol")
	assert.Contains(t, out, "Cortisol is down 18%")

	cfg, path = outputConfig(t, schema.CSVOut)
	require.NoError(t, PrintImpact(result, cfg))
	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"cortisol", "improving", "-18.0", "18.0", "20.0", "16.4", "6"}, records[1])
}

func TestPrintStreakAndHero(t *testing.T) {
	cfg, path := outputConfig(t, schema.JSONOut)
	streak := schema.StreakResult{Days: 3, Message: "3 day streak 🔥", TestDays: 5, LastTest: &testTime}
	require.NoError(t, PrintStreak(streak, cfg))
	var got schema.StreakResult
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
	assert.Equal(t, 3, got.Days)

	cfg, path = outputConfig(t, schema.TextOut)
	hero := schema.HeroInsight{Rule: "steady", Headline: "Nice and steady", Actions: []string{"Keep testing"}, CTA: schema.CallToAction{Label: "Log a test", Target: "log_test"}}
	require.NoError(t, PrintHeroInsight(hero, cfg))
	out := readOutput(t, path)
	assert.Contains(t, out, "Nice and steady")
	assert.Contains(t, out, "Log a test")
}

func TestPrintFeatureProgress(t *testing.T) {
	rows := []schema.FeatureProgress{
		{Feature: schema.ReadyScoreFeature, Title: "ReadyScore", Percent: 100, Unlocked: true, Message: "High accuracy"},
		{Feature: schema.BioAgeFeature, Title: "BioAge", Percent: 40, Message: "Log 6 more tests over 10 more days to unlock BioAge"},
	}
	cfg, path := outputConfig(t, schema.CSVOut)
	require.NoError(t, PrintFeatureProgress(rows, cfg))
	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"bio_age", "BioAge", "40", "false", rows[1].Message}, records[2])

	cfg, path = outputConfig(t, schema.TextOut)
	require.NoError(t, PrintFeatureProgress(rows, cfg))
	assert.Contains(t, readOutput(t, path), "████░░░░░░")
}

func TestPrintLogResult(t *testing.T) {
	deviation := 25.0
	result := schema.LogResult{
		Test: schema.HormoneTest{ID: "t1", HormoneType: schema.Cortisol, Value: 22, Timestamp: testTime},
		Insight: schema.TestInsight{
			HormoneType: schema.Cortisol, Value: 22, Status: schema.BorderlineStatus, StatusMessage: "Slightly elevated",
			DeviationPercent: &deviation, TestCount: 4, TestCountMessage: "Your 4th cortisol test",
		},
		Record:    schema.PersonalRecord{IsRecord: true, Type: schema.HighestRecord},
		Proactive: &schema.ProactiveMessage{Rule: "cortisol_spike", Title: "Heads up", Message: "Cortisol jumped"},
	}

	cfg, path := outputConfig(t, schema.TextOut)
	require.NoError(t, PrintLogResult(result, cfg))
	out := readOutput(t, path)
	assert.Contains(t, out, "Logged cortisol 22.0")
	assert.Contains(t, out, "Your 4th cortisol test")
	assert.Contains(t, out, "New personal record: highest cortisol")
	assert.Contains(t, out, "Heads up: Cortisol jumped")

	cfg, path = outputConfig(t, schema.CSVOut)
	require.NoError(t, PrintLogResult(result, cfg))
	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "25.0", records[1][4])
	assert.Equal(t, "Cortisol jumped", records[1][9])
}

func TestPrintCoachContext(t *testing.T) {
	cfg, path := outputConfig(t, schema.TextOut)
	require.NoError(t, PrintCoachContext(schema.CoachContext{UserID: "alice", Context: "Tests logged: 3"}, cfg))
	assert.Equal(t, "Tests logged: 3\n", readOutput(t, path))
}

func sampleHistory() []schema.EnrichedTest {
	return []schema.EnrichedTest{
		{Index: 1, Status: schema.OptimalStatus, Unit: "nmol/L", HormoneTest: schema.HormoneTest{
			ID: "a", UserID: "alice", HormoneType: schema.Cortisol, Value: 12.25, Timestamp: testTime, CreatedAt: testTime,
			SleepQuality: schema.Int(4), Exercised: schema.Bool(true),
		}},
		{Index: 2, Status: schema.ConcerningStatus, Unit: "ng/dL", HormoneTest: schema.HormoneTest{
			ID: "b", UserID: "alice", HormoneType: schema.Testosterone, Value: 210, Timestamp: testTime.Add(24 * time.Hour), CreatedAt: testTime,
		}},
	}
}

func TestPrintHistory(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.CSVOut)
		require.NoError(t, PrintHistory(sampleHistory(), cfg))
		records := readCSV(t, path)
		require.Len(t, records, 3)
		assert.Equal(t, historyCSVHeader, records[0])
		assert.Equal(t, []string{"a", "cortisol", "12.25", "nmol/L", "optimal", "2025-05-10T07:00:00Z", "4", "true", "", ""}, records[1])
	})

	t.Run("text", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.TextOut)
		require.NoError(t, PrintHistory(sampleHistory(), cfg))
		out := readOutput(t, path)
		assert.Contains(t, out, "210.0 ng/dL")
		assert.Contains(t, out, "Showing 2 tests")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg, path := outputConfig(t, schema.ParquetOut)
		require.NoError(t, PrintHistory(sampleHistory(), cfg))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, int64(2), file.NumRows())
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		assert.Error(t, PrintHistory(sampleHistory(), cfg))
	})
}

func TestPrintProfile(t *testing.T) {
	profile := schema.Profile{UserID: "alice", ChronologicalAge: 41, BiologicalSex: schema.Female, Onboarded: true}
	cfg, path := outputConfig(t, schema.JSONOut)
	require.NoError(t, PrintProfile(profile, cfg))
	var got schema.Profile
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &got))
	assert.Equal(t, profile, got)

	cfg, path = outputConfig(t, schema.TextOut)
	require.NoError(t, PrintProfile(schema.Profile{UserID: "bob", ChronologicalAge: 30}, cfg))
	assert.Contains(t, readOutput(t, path), "unspecified")
}

func TestOutWriterDelegates(t *testing.T) {
	ow := NewOutWriter()
	cfg, path := outputConfig(t, schema.JSONOut)
	require.NoError(t, ow.WriteFeatureProgress(nil, cfg))
	assert.Equal(t, "null\n", readOutput(t, path))
}
