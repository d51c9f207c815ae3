package core

import (
	"testing"
	"time"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
)

func testsOnDays(days ...int) []schema.HormoneTest {
	tests := make([]schema.HormoneTest, 0, len(days))
	for _, d := range days {
		tests = append(tests, newTest(schema.Cortisol, 15, d))
	}
	return tests
}

// TestCalculateStreak tests the walk over calendar days.
func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name     string
		days     []int
		expected int
	}{
		{"no tests", nil, 0},
		{"single test", []int{0}, 1},
		{"five consecutive days", []int{0, 1, 2, 3, 4}, 5},
		{"gap before latest run", []int{1, 2, 3, 5}, 1},
		{"gap in older history", []int{0, 2, 3, 4}, 3},
		{"unordered input", []int{4, 2, 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateStreak(testsOnDays(tt.days...)))
		})
	}
}

// TestCalculateStreakSameDay tests that several tests on one day count once.
func TestCalculateStreakSameDay(t *testing.T) {
	tests := testsOnDays(0, 1, 1, 2)
	extra := newTest(schema.DHEA, 200, 2)
	extra.Timestamp = extra.Timestamp.Add(6 * time.Hour)
	tests = append(tests, extra)
	assert.Equal(t, 3, CalculateStreak(tests))
	assert.Len(t, UniqueTestDays(tests), 3)
}

// TestCalculateStreakLocalCalendar tests that days come from each timestamp's own zone.
func TestCalculateStreakLocalCalendar(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	late := newTest(schema.Cortisol, 15, 0)
	late.Timestamp = time.Date(2025, 3, 2, 23, 30, 0, 0, est) // March 3rd in UTC
	early := newTest(schema.Cortisol, 15, 0)
	early.Timestamp = time.Date(2025, 3, 1, 8, 0, 0, 0, est)

	assert.Equal(t, 2, CalculateStreak([]schema.HormoneTest{late, early}))
}

// TestCalculateStreakCreatedAtFallback tests grouping when the sample time is missing.
func TestCalculateStreakCreatedAtFallback(t *testing.T) {
	tests := testsOnDays(0, 1)
	tests[1].Timestamp = time.Time{}
	assert.Equal(t, 2, CalculateStreak(tests))
}

// TestUniqueTestDays tests ordering of unique days.
func TestUniqueTestDays(t *testing.T) {
	days := UniqueTestDays(testsOnDays(0, 3, 3, 1))
	assert.Equal(t, []time.Time{
		time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}, days)
}

// TestFormatStreak tests the escalating bands.
func TestFormatStreak(t *testing.T) {
	assert.Contains(t, FormatStreak(0), "start a streak")
	assert.Contains(t, FormatStreak(1), "tomorrow")
	assert.Equal(t, "3 day streak 🔥", FormatStreak(3))
	assert.Contains(t, FormatStreak(StreakWeek), "🔥🔥")
	assert.Contains(t, FormatStreak(StreakFortnight), "🔥🔥🔥")
	assert.Contains(t, FormatStreak(StreakMonth), "🏆")
}
