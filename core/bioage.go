package core

import (
	"time"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// BioAge constants.
const (
	BioAgeRecentSamples = 3    // latest readings averaged per hormone
	YearsPerRangeWidth  = 10.0 // years gained for one norm-range width above the mean
	MaxYearsPerHormone  = 5.0
	BehaviorStep        = 0.5

	BioAgeHighTests   = 20
	BioAgeHighDays    = 30
	BioAgeMediumTests = 15
	BioAgeMediumDays  = 21
)

// ratioTiers converts the cortisol:DHEA ratio into years, lowest ratio first.
var ratioTiers = []struct {
	below float64
	years float64
}{
	{0.05, 1.5},
	{0.10, 0.5},
	{0.20, -0.5},
}

const ratioFallbackYears = -1.5

// percentileTiers rank a BioAge delta. Larger deltas rank higher.
var percentileTiers = []struct {
	minDelta float64
	label    string
	emoji    string
}{
	{5, "Top 10%", "🏆"},
	{2, "Top 25%", "🌟"},
	{0, "Top 50%", "👍"},
	{-3, "Below average", "📈"},
}

var percentileFloor = struct{ label, emoji string }{"Room to improve", "💪"}

// ComputeBioAge estimates biological age from the test history. Tests dated
// after now are ignored.
func ComputeBioAge(tests []schema.HormoneTest, profile schema.Profile, now time.Time) (schema.BioAgeResult, error) {
	if err := schema.ValidateProfile(profile); err != nil {
		return schema.BioAgeResult{}, err
	}
	if err := schema.ValidateTests(tests); err != nil {
		return schema.BioAgeResult{}, err
	}

	var usable []schema.HormoneTest
	for _, t := range tests {
		if !t.EffectiveTime().After(now) {
			usable = append(usable, t)
		}
	}

	result := schema.BioAgeResult{ChronologicalAge: profile.ChronologicalAge}
	var earliest, latest *time.Time
	if first, last, ok := algo.Bounds(usable); ok {
		earliest, latest = &first, &last
	}
	gate := CanCalculateBioAge(len(usable), earliest, latest)
	result.Reason, result.Message = gate.Reason, gate.Message
	result.TestsNeeded, result.DaysNeeded = gate.TestsNeeded, gate.DaysNeeded
	if !gate.CanCalculate {
		result.Confidence = schema.LowConfidence
		return result, nil
	}

	sorted := algo.SortByTime(usable)
	means := map[schema.HormoneType]float64{}
	result.Contributions = map[schema.HormoneType]float64{}
	total := 0.0
	for _, h := range supportedHormones {
		same := algo.FilterByHormone(sorted, h)
		if len(same) == 0 {
			continue
		}
		if len(same) > BioAgeRecentSamples {
			same = same[len(same)-BioAgeRecentSamples:]
		}
		means[h] = algo.Mean(algo.Values(same))

		rng, err := RangeFor(h, profile.BiologicalSex)
		if err != nil {
			return schema.BioAgeResult{}, err
		}
		norm, ok := rng.NormFor(profile.ChronologicalAge)
		if !ok || norm.High <= norm.Low {
			continue
		}
		years := hormoneYears(h, means[h], norm)
		result.Contributions[h] = algo.Round1(years)
		total += years
	}

	cortisol, hasCortisol := means[schema.Cortisol]
	dhea, hasDHEA := means[schema.DHEA]
	if hasCortisol && hasDHEA && dhea > 0 {
		result.RatioAdjustment = ratioYears(cortisol / dhea)
	}
	result.BehaviorBonus = behaviorBonus(sorted)
	total += result.RatioAdjustment + result.BehaviorBonus

	result.CanCalculate = true
	result.BiologicalAge = algo.Round1(float64(profile.ChronologicalAge) - total)
	result.Delta = algo.Round1(float64(profile.ChronologicalAge) - result.BiologicalAge)
	result.Confidence = bioAgeConfidence(len(sorted), algo.SpanDays(sorted))
	result.Percentile, result.PercentileEmoji = Percentile(result.Delta)
	return result, nil
}

// hormoneYears is positive when the reading looks younger than the age norm.
// Lower cortisol reads younger; the other hormones read younger when higher.
func hormoneYears(h schema.HormoneType, mean float64, norm schema.AgeNorm) float64 {
	years := (mean - norm.Mean) / (norm.High - norm.Low) * YearsPerRangeWidth
	if h == schema.Cortisol {
		years = -years
	}
	return algo.Clamp(years, -MaxYearsPerHormone, MaxYearsPerHormone)
}

func ratioYears(ratio float64) float64 {
	for _, tier := range ratioTiers {
		if ratio < tier.below {
			return tier.years
		}
	}
	return ratioFallbackYears
}

// behaviorBonus rewards good sleep and regular exercise and penalizes
// sustained stress, each by half a year.
func behaviorBonus(tests []schema.HormoneTest) float64 {
	var sleep, stress []float64
	exercised := 0
	for _, t := range tests {
		if t.SleepQuality != nil {
			sleep = append(sleep, float64(*t.SleepQuality))
		}
		if t.StressLevel != nil {
			stress = append(stress, float64(*t.StressLevel))
		}
		if t.Exercised != nil && *t.Exercised {
			exercised++
		}
	}

	bonus := 0.0
	if len(sleep) > 0 && algo.Mean(sleep) >= SleepGoodThreshold {
		bonus += BehaviorStep
	}
	if len(tests) > 0 && exercised*2 >= len(tests) {
		bonus += BehaviorStep
	}
	if len(stress) > 0 && algo.Mean(stress) >= StressHighLevel {
		bonus -= BehaviorStep
	}
	return bonus
}

func bioAgeConfidence(count int, spanDays float64) schema.Confidence {
	switch {
	case count >= BioAgeHighTests && spanDays >= BioAgeHighDays:
		return schema.HighConfidence
	case count >= BioAgeMediumTests || spanDays >= BioAgeMediumDays:
		return schema.MediumConfidence
	}
	return schema.LowConfidence
}

// Percentile maps a BioAge delta to a ranking label and emoji.
func Percentile(delta float64) (string, string) {
	for _, tier := range percentileTiers {
		if delta >= tier.minDelta {
			return tier.label, tier.emoji
		}
	}
	return percentileFloor.label, percentileFloor.emoji
}
