package core

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// Impact constants.
const (
	ImpactSplitSize        = 3   // max tests in each of the early and recent halves
	StableChangePercent    = 5.0 // smaller changes are stable
	OverallTrendThreshold  = 5.0
	ContextNudgeRatio      = 0.30
	ImpactHighTests        = 15
	ImpactHighDays         = 30
	ImpactHighContext      = 5
	ImpactMediumTests      = 10
	ImpactMediumDays       = 21
	ImpactMediumContext    = 3
	maxTrendScoreMagnitude = 100.0
)

// lowerIsBetter lists hormones that improve when they decrease.
var lowerIsBetter = map[schema.HormoneType]bool{
	schema.Cortisol: true,
}

// AnalyzeImpact measures how each hormone moved between the earliest and the
// most recent tests and how much context the user logged along the way.
func AnalyzeImpact(tests []schema.HormoneTest) (schema.ImpactResult, error) {
	if err := schema.ValidateTests(tests); err != nil {
		return schema.ImpactResult{}, err
	}

	var earliest, latest *time.Time
	if first, last, ok := algo.Bounds(tests); ok {
		earliest, latest = &first, &last
	}
	gate := CanCalculateImpact(len(tests), earliest, latest)
	result := schema.ImpactResult{
		Reason:      gate.Reason,
		Message:     gate.Message,
		TestsNeeded: gate.TestsNeeded,
		DaysNeeded:  gate.DaysNeeded,
		Confidence:  schema.LowConfidence,
	}
	if !gate.CanCalculate {
		return result, nil
	}

	sorted := algo.SortByTime(tests)
	scores := make([]float64, 0, len(supportedHormones))
	bestImprovement := 0.0
	for _, h := range supportedHormones {
		trend, ok := hormoneTrend(h, algo.FilterByHormone(sorted, h))
		if !ok {
			continue
		}
		result.Trends = append(result.Trends, trend)

		switch trend.Trend {
		case schema.Improving:
			scores = append(scores, trend.Improvement)
			if trend.Improvement > bestImprovement {
				result.MostImprovedHormone, bestImprovement = h, trend.Improvement
			}
		case schema.Declining:
			scores = append(scores, -math.Abs(trend.PercentChange))
		default:
			scores = append(scores, 0)
		}
	}

	result.CanCalculate = true
	result.TrendScore = algo.Round1(algo.Clamp(algo.Mean(scores), -maxTrendScoreMagnitude, maxTrendScoreMagnitude))
	switch {
	case result.TrendScore > OverallTrendThreshold:
		result.OverallTrend = schema.Improving
	case result.TrendScore < -OverallTrendThreshold:
		result.OverallTrend = schema.Declining
	default:
		result.OverallTrend = schema.Stable
	}

	for _, t := range sorted {
		if t.HasContext() {
			result.InterventionsTracked++
		}
	}
	result.Confidence = impactConfidence(len(sorted), algo.SpanDays(sorted), result.InterventionsTracked)
	result.Insights = impactInsights(result, len(sorted))
	return result, nil
}

// hormoneTrend compares the average of the first and last tests of a single
// hormone. At least two tests are needed.
func hormoneTrend(h schema.HormoneType, same []schema.HormoneTest) (schema.HormoneTrend, bool) {
	n := len(same)
	if n < 2 {
		return schema.HormoneTrend{}, false
	}
	k := min(ImpactSplitSize, n/2)
	early := algo.Mean(algo.Values(same[:k]))
	recent := algo.Mean(algo.Values(same[n-k:]))
	change := algo.PercentChange(early, recent)
	improvement := change
	if lowerIsBetter[h] {
		improvement = -change
	}

	trend := schema.Stable
	switch {
	case math.Abs(change) < StableChangePercent:
	case improvement > 0:
		trend = schema.Improving
	default:
		trend = schema.Declining
	}
	return schema.HormoneTrend{
		HormoneType:   h,
		Trend:         trend,
		PercentChange: algo.Round1(change),
		Improvement:   algo.Round1(improvement),
		EarlyAverage:  algo.Round1(early),
		RecentAverage: algo.Round1(recent),
		Samples:       n,
	}, true
}

func impactConfidence(count int, spanDays float64, interventions int) schema.Confidence {
	switch {
	case count >= ImpactHighTests && spanDays >= ImpactHighDays && interventions >= ImpactHighContext:
		return schema.HighConfidence
	case count >= ImpactMediumTests && spanDays >= ImpactMediumDays && interventions >= ImpactMediumContext:
		return schema.MediumConfidence
	}
	return schema.LowConfidence
}

func impactInsights(result schema.ImpactResult, total int) []string {
	var insights []string
	for _, t := range result.Trends {
		if t.HormoneType == result.MostImprovedHormone {
			insights = append(insights, fmt.Sprintf("Your %s improved %.0f%% since you started tracking",
				HormoneLabel(t.HormoneType), math.Abs(t.Improvement)))
		}
	}
	switch result.OverallTrend {
	case schema.Improving:
		insights = append(insights, "Overall your hormones are trending in the right direction")
	case schema.Declining:
		insights = append(insights, "Overall your hormones are trending the wrong way. Review recent changes to sleep, training and stress")
	default:
		insights = append(insights, "Your hormone levels are holding steady")
	}
	if float64(result.InterventionsTracked) < ContextNudgeRatio*float64(total) {
		insights = append(insights, "Add sleep, exercise or stress notes to more tests to see what drives your changes")
	}
	return insights
}
