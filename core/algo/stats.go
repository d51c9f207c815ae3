// Package algo has the numeric building blocks shared by the engines.
package algo

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/hormetric/schema"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance returns the sample variance, or 0 with fewer than two values.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// CoefficientOfVariation returns stddev/mean, or 0 when undefined.
func CoefficientOfVariation(data []float64) float64 {
	m := Mean(data)
	if len(data) < 2 || m == 0 {
		return 0
	}
	return math.Sqrt(Variance(data)) / math.Abs(m)
}

// PercentChange returns the change from base to value in percent.
// A zero base yields 0 rather than an infinity.
func PercentChange(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SortByTime returns a copy of tests in ascending timestamp order.
// Ties keep their input order.
func SortByTime(tests []schema.HormoneTest) []schema.HormoneTest {
	sorted := make([]schema.HormoneTest, len(tests))
	copy(sorted, tests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveTime().Before(sorted[j].EffectiveTime())
	})
	return sorted
}

// SortByTimeDesc returns a copy of tests, most recent first.
func SortByTimeDesc(tests []schema.HormoneTest) []schema.HormoneTest {
	sorted := make([]schema.HormoneTest, len(tests))
	copy(sorted, tests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveTime().After(sorted[j].EffectiveTime())
	})
	return sorted
}

// FilterByHormone keeps the tests of one hormone, preserving order.
func FilterByHormone(tests []schema.HormoneTest, h schema.HormoneType) []schema.HormoneTest {
	var out []schema.HormoneTest
	for _, t := range tests {
		if t.HormoneType == h {
			out = append(out, t)
		}
	}
	return out
}

// Values extracts the readings of tests.
func Values(tests []schema.HormoneTest) []float64 {
	out := make([]float64, len(tests))
	for i, t := range tests {
		out[i] = t.Value
	}
	return out
}

// SpanDays returns the time between the earliest and latest test in days.
func SpanDays(tests []schema.HormoneTest) float64 {
	first, last, ok := Bounds(tests)
	if !ok {
		return 0
	}
	return last.Sub(first).Hours() / 24
}

// Bounds returns the earliest and latest effective time of tests.
func Bounds(tests []schema.HormoneTest) (first, last time.Time, ok bool) {
	for i, t := range tests {
		ts := t.EffectiveTime()
		if i == 0 || ts.Before(first) {
			first = ts
		}
		if i == 0 || ts.After(last) {
			last = ts
		}
	}
	return first, last, len(tests) > 0
}
