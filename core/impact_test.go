package core

import (
	"testing"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// impactHistory has falling cortisol, rising testosterone and flat DHEA over fourteen days.
func impactHistory() []schema.HormoneTest {
	return []schema.HormoneTest{
		newTest(schema.Cortisol, 20, 0),
		newTest(schema.Testosterone, 500, 1),
		newTest(schema.Cortisol, 20, 2),
		newTest(schema.DHEA, 200, 3),
		newTest(schema.Cortisol, 20, 4),
		newTest(schema.Cortisol, 15, 10),
		newTest(schema.DHEA, 202, 11),
		newTest(schema.Cortisol, 15, 12),
		newTest(schema.Testosterone, 600, 13),
		newTest(schema.Cortisol, 15, 14),
	}
}

// TestAnalyzeImpact tests per-hormone trends and the overall score.
func TestAnalyzeImpact(t *testing.T) {
	result, err := AnalyzeImpact(impactHistory())
	require.NoError(t, err)
	require.True(t, result.CanCalculate)
	require.Len(t, result.Trends, 3)

	byHormone := map[schema.HormoneType]schema.HormoneTrend{}
	for _, tr := range result.Trends {
		byHormone[tr.HormoneType] = tr
	}
	assert.Equal(t, schema.Improving, byHormone[schema.Cortisol].Trend)
	assert.Equal(t, -25.0, byHormone[schema.Cortisol].PercentChange)
	assert.Equal(t, 25.0, byHormone[schema.Cortisol].Improvement)
	assert.Equal(t, 6, byHormone[schema.Cortisol].Samples)
	assert.Equal(t, schema.Improving, byHormone[schema.Testosterone].Trend)
	assert.Equal(t, 20.0, byHormone[schema.Testosterone].PercentChange)
	assert.Equal(t, schema.Stable, byHormone[schema.DHEA].Trend)

	assert.Equal(t, schema.Cortisol, result.MostImprovedHormone)
	assert.Equal(t, 15.0, result.TrendScore)
	assert.Equal(t, schema.Improving, result.OverallTrend)
	assert.Equal(t, 0, result.InterventionsTracked)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
	require.Len(t, result.Insights, 3)
	assert.Contains(t, result.Insights[0], "cortisol improved 25%")
	assert.Contains(t, result.Insights[2], "notes")
}

// TestAnalyzeImpactDeclining tests the declining direction and context counting.
func TestAnalyzeImpactDeclining(t *testing.T) {
	tests := []schema.HormoneTest{
		newTest(schema.Cortisol, 12, 0),
		newTest(schema.Cortisol, 12, 1),
		newTest(schema.Cortisol, 12, 2),
		newTest(schema.Cortisol, 18, 12),
		newTest(schema.Cortisol, 18, 13),
		newTest(schema.Cortisol, 18, 14),
	}
	for i := range tests {
		tests[i].Exercised = schema.Bool(false)
	}
	result, err := AnalyzeImpact(tests)
	require.NoError(t, err)
	require.Len(t, result.Trends, 1)
	assert.Equal(t, schema.Declining, result.Trends[0].Trend)
	assert.Equal(t, -50.0, result.TrendScore)
	assert.Equal(t, schema.Declining, result.OverallTrend)
	assert.Empty(t, result.MostImprovedHormone)
	assert.Equal(t, 6, result.InterventionsTracked)
	assert.Len(t, result.Insights, 1)
}

// TestAnalyzeImpactLocked tests the count and span gate.
func TestAnalyzeImpactLocked(t *testing.T) {
	result, err := AnalyzeImpact(dailyTests(4, 15))
	require.NoError(t, err)
	assert.False(t, result.CanCalculate)
	assert.Equal(t, schema.ReasonInsufficientTestDays, result.Reason)
	assert.Equal(t, 1, result.TestsNeeded)
	assert.Equal(t, 11, result.DaysNeeded)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
	assert.NotEmpty(t, result.Message)

	result, err = AnalyzeImpact(nil)
	require.NoError(t, err)
	assert.False(t, result.CanCalculate)
	assert.Equal(t, 5, result.TestsNeeded)
	assert.Equal(t, 14, result.DaysNeeded)
}

// TestImpactConfidence tests that all three thresholds must hold.
func TestImpactConfidence(t *testing.T) {
	assert.Equal(t, schema.HighConfidence, impactConfidence(15, 30, 5))
	assert.Equal(t, schema.MediumConfidence, impactConfidence(15, 30, 4))
	assert.Equal(t, schema.MediumConfidence, impactConfidence(10, 21, 3))
	assert.Equal(t, schema.LowConfidence, impactConfidence(10, 21, 2))
	assert.Equal(t, schema.LowConfidence, impactConfidence(9, 40, 9))
}

// TestHormoneTrendSplit tests the early and recent window sizes.
func TestHormoneTrendSplit(t *testing.T) {
	_, ok := hormoneTrend(schema.DHEA, []schema.HormoneTest{newTest(schema.DHEA, 200, 0)})
	assert.False(t, ok)

	same := []schema.HormoneTest{
		newTest(schema.DHEA, 100, 0),
		newTest(schema.DHEA, 300, 1),
		newTest(schema.DHEA, 150, 2),
	}
	trend, ok := hormoneTrend(schema.DHEA, same)
	require.True(t, ok)
	assert.Equal(t, 100.0, trend.EarlyAverage)
	assert.Equal(t, 150.0, trend.RecentAverage)
	assert.Equal(t, schema.Improving, trend.Trend)
}
