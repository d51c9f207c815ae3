package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Human-readable time expressions, e.g. "2 weeks ago" and "3 days".
var (
	relativeTimeRe     = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)
	lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)
)

// unitDurations approximates months as 30 days and years as 365 days.
var unitDurations = map[string]time.Duration{
	"year":   365 * day,
	"month":  30 * day,
	"week":   7 * day,
	"day":    day,
	"hour":   time.Hour,
	"minute": time.Minute,
}

// ParseRelativeTime converts strings like "2 days ago" into a time.Time before now.
// Years and months are calendar aware.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %s", matches[1])
	}
	switch unit := matches[2]; unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	default:
		return now.Add(-time.Duration(value) * unitDurations[unit]), nil
	}
}

// ParseLookbackDuration converts strings like "7 days" or "168h" into a time.Duration.
// Go duration syntax is tried first, then the "N units" form.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("lookback duration must be positive")
		}
		return duration, nil
	}

	matches := lookbackDurationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid lookback duration format: %s", s)
	}
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid lookback value: %s", matches[1])
	}
	total := time.Duration(value) * unitDurations[matches[2]]
	if total <= 0 {
		return 0, errors.New("lookback duration must be positive")
	}
	return total, nil
}

// CalculateDaysBetween returns the number of whole days from start to end.
// It returns 0 when end is not after start.
func CalculateDaysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / day)
}
