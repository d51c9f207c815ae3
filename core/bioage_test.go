package core

import (
	"testing"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bioAgeHistory spreads ten tests over fourteen days with fixed values per hormone.
func bioAgeHistory(cortisol, testosterone, dhea float64) []schema.HormoneTest {
	var tests []schema.HormoneTest
	for _, day := range []int{0, 2, 4, 6} {
		tests = append(tests, newTest(schema.Cortisol, cortisol, day))
	}
	for _, day := range []int{1, 3, 5, 7} {
		tests = append(tests, newTest(schema.Testosterone, testosterone, day))
	}
	for _, day := range []int{8, 14} {
		tests = append(tests, newTest(schema.DHEA, dhea, day))
	}
	return tests
}

var bioProfile = schema.Profile{UserID: "user-1", ChronologicalAge: 35, BiologicalSex: schema.Male}

// TestComputeBioAgeAtNorm tests a history that matches the age norm.
func TestComputeBioAgeAtNorm(t *testing.T) {
	tests := bioAgeHistory(13.5, 600, 270)
	result, err := ComputeBioAge(tests, bioProfile, baseTime.AddDate(0, 0, 15))
	require.NoError(t, err)
	require.True(t, result.CanCalculate)
	assert.Equal(t, schema.ReasonOK, result.Reason)
	for _, h := range SupportedHormones() {
		assert.InDelta(t, 0.0, result.Contributions[h], 1e-9, "%s", h)
	}
	assert.Equal(t, 0.5, result.RatioAdjustment) // 13.5/270 = 0.05
	assert.Equal(t, 0.0, result.BehaviorBonus)
	assert.Equal(t, 34.5, result.BiologicalAge)
	assert.Equal(t, 0.5, result.Delta)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
	assert.Equal(t, "Top 50%", result.Percentile)
}

// TestComputeBioAgeYounger tests clamping, the ratio tier and the behavior bonus.
func TestComputeBioAgeYounger(t *testing.T) {
	tests := bioAgeHistory(8.5, 950, 450)
	for i := range tests {
		tests[i].SleepQuality = schema.Int(5)
		tests[i].Exercised = schema.Bool(true)
	}
	result, err := ComputeBioAge(tests, bioProfile, baseTime.AddDate(0, 0, 15))
	require.NoError(t, err)
	require.True(t, result.CanCalculate)
	assert.Equal(t, 4.0, result.Contributions[schema.Cortisol])
	assert.Equal(t, MaxYearsPerHormone, result.Contributions[schema.Testosterone])
	assert.Equal(t, MaxYearsPerHormone, result.Contributions[schema.DHEA])
	assert.Equal(t, 1.5, result.RatioAdjustment)
	assert.Equal(t, 1.0, result.BehaviorBonus)
	assert.Equal(t, 18.5, result.BiologicalAge)
	assert.Equal(t, 16.5, result.Delta)
	assert.Equal(t, "Top 10%", result.Percentile)
	assert.Equal(t, "🏆", result.PercentileEmoji)
}

// TestComputeBioAgeOlder tests a history that reads older than the norm.
func TestComputeBioAgeOlder(t *testing.T) {
	tests := bioAgeHistory(20.5, 320, 110)
	for i := range tests {
		tests[i].StressLevel = schema.Int(5)
	}
	result, err := ComputeBioAge(tests, bioProfile, baseTime.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.Less(t, result.Delta, 0.0)
	assert.Greater(t, result.BiologicalAge, 35.0)
	assert.Equal(t, -0.5, result.BehaviorBonus)
	assert.Equal(t, -0.5, result.RatioAdjustment) // 20.5/110 is just under 0.20
	assert.Equal(t, "Room to improve", result.Percentile)
}

// TestComputeBioAgeLocked tests the thirteen-day scenario.
func TestComputeBioAgeLocked(t *testing.T) {
	tests := dailyTests(9, 15)
	tests = append(tests, newTest(schema.DHEA, 200, 13))
	result, err := ComputeBioAge(tests, bioProfile, baseTime.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.False(t, result.CanCalculate)
	assert.Equal(t, schema.ReasonInsufficientDays, result.Reason)
	assert.Equal(t, 1, result.DaysNeeded)
	assert.Equal(t, 0, result.TestsNeeded)
	assert.Equal(t, schema.LowConfidence, result.Confidence)
	assert.Equal(t, 35, result.ChronologicalAge)
	assert.Zero(t, result.BiologicalAge)
}

// TestComputeBioAgeIgnoresFutureTests tests that future-dated tests do not unlock.
func TestComputeBioAgeIgnoresFutureTests(t *testing.T) {
	tests := bioAgeHistory(13.5, 600, 270)
	result, err := ComputeBioAge(tests, bioProfile, baseTime.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.False(t, result.CanCalculate)
	assert.Equal(t, 1, result.TestsNeeded)
}

// TestComputeBioAgeValidation tests profile and test validation.
func TestComputeBioAgeValidation(t *testing.T) {
	_, err := ComputeBioAge(nil, schema.Profile{}, baseTime)
	assert.ErrorIs(t, err, schema.ErrInvalidProfile)

	_, err = ComputeBioAge([]schema.HormoneTest{newTest(schema.DHEA, -1, 0)}, bioProfile, baseTime)
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
}

// TestBioAgeConfidence tests the count and span tiers.
func TestBioAgeConfidence(t *testing.T) {
	assert.Equal(t, schema.HighConfidence, bioAgeConfidence(20, 30))
	assert.Equal(t, schema.MediumConfidence, bioAgeConfidence(20, 20))
	assert.Equal(t, schema.MediumConfidence, bioAgeConfidence(10, 21))
	assert.Equal(t, schema.LowConfidence, bioAgeConfidence(10, 14))
}

// TestPercentileOrdering tests that a larger delta never ranks lower.
func TestPercentileOrdering(t *testing.T) {
	rank := map[string]int{"Room to improve": 0, "Below average": 1, "Top 50%": 2, "Top 25%": 3, "Top 10%": 4}
	prev := -1
	for delta := -10.0; delta <= 10; delta += 0.5 {
		label, emoji := Percentile(delta)
		assert.NotEmpty(t, emoji)
		assert.GreaterOrEqual(t, rank[label], prev)
		prev = rank[label]
	}
}
