package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// Streak emphasis bands in days.
const (
	StreakWeek      = 7
	StreakFortnight = 14
	StreakMonth     = 30
)

// calendarDay returns the local calendar date of a test as a UTC midnight,
// so that dates from different zones compare by their components.
func calendarDay(t schema.HormoneTest) time.Time {
	y, m, d := t.EffectiveTime().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UniqueTestDays returns the distinct calendar days with at least one test,
// most recent first.
func UniqueTestDays(tests []schema.HormoneTest) []time.Time {
	seen := map[time.Time]bool{}
	var days []time.Time
	for _, t := range algo.SortByTimeDesc(tests) {
		day := calendarDay(t)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

// CalculateStreak counts consecutive testing days ending at the most recent
// test. Several tests on one day count once; any missed day ends the streak.
func CalculateStreak(tests []schema.HormoneTest) int {
	sorted := algo.SortByTimeDesc(tests)
	if len(sorted) == 0 {
		return 0
	}
	streak := 1
	prev := calendarDay(sorted[0])
	for _, t := range sorted[1:] {
		day := calendarDay(t)
		switch {
		case day.Equal(prev):
			continue
		case day.Equal(prev.AddDate(0, 0, -1)):
			streak++
			prev = day
		default:
			return streak
		}
	}
	return streak
}

// FormatStreak turns a streak length into an encouragement line.
func FormatStreak(days int) string {
	switch {
	case days <= 0:
		return "Log a test today to start a streak"
	case days == 1:
		return "1 day streak. Come back tomorrow to keep it going"
	case days < StreakWeek:
		return fmt.Sprintf("%d day streak 🔥", days)
	case days < StreakFortnight:
		return fmt.Sprintf("%d day streak 🔥🔥 A full week!", days)
	case days < StreakMonth:
		return fmt.Sprintf("%d day streak 🔥🔥🔥 Two weeks strong!", days)
	default:
		return fmt.Sprintf("%d day streak 🏆 A month of consistency!", days)
	}
}
