package core

import (
	"math"
	"time"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// ReadyScore constants.
const (
	ReadyBaseline      = 50.0
	SleepGoodThreshold = 4
	SleepPoorThreshold = 2
	StressHighLevel    = 4
	SleepModifier      = 10.0
	ExerciseModifier   = 5.0
	StressModifier     = 10.0
	TrendModifier      = 10.0
	TrendWindow        = 3   // tests per half of the trend comparison
	TrendThreshold     = 0.1 // optimality change needed to call a trend
	neutralOptimality  = 0.5

	HighConfidenceAge     = 12 * time.Hour
	MediumConfidenceAge   = 24 * time.Hour
	HighConfidenceTests   = 10
	MediumConfidenceTests = 5

	DefaultRecentWindow = 7 * 24 * time.Hour
)

// HormoneWeights is the full contribution of an in-range reading.
var HormoneWeights = map[schema.HormoneType]float64{
	schema.Cortisol:     20,
	schema.Testosterone: 15,
	schema.DHEA:         10,
}

// breakdownKeys maps each scored hormone to its breakdown entry.
var breakdownKeys = map[schema.HormoneType]schema.BreakdownKey{
	schema.Cortisol:     schema.BreakdownCortisol,
	schema.Testosterone: schema.BreakdownTestosterone,
	schema.DHEA:         schema.BreakdownDHEA,
}

// protocolTiers are the recommendation sets per score band, highest first.
var protocolTiers = []struct {
	minScore  int
	protocols []string
}{
	{80, []string{
		"Great day for high-intensity training",
		"Tackle your most demanding work early",
		"Keep your current sleep and nutrition routine",
	}},
	{60, []string{
		"Moderate training is a good fit today",
		"Take short breaks between focused work blocks",
		"Aim for 7-9 hours of sleep tonight",
	}},
	{40, []string{
		"Favor light movement such as walking or yoga",
		"Limit caffeine after noon",
		"Try 10 minutes of breathing exercises",
	}},
	{0, []string{
		"Prioritize rest and recovery today",
		"Skip intense workouts",
		"Get to bed early and keep screens out of the bedroom",
	}},
}

const (
	poorSleepProtocol  = "Your sleep was poor. Consider a 20 minute nap and an earlier bedtime"
	highStressProtocol = "Stress is high. Schedule a 10 minute walk or meditation break"
)

// ComputeReadyScore scores readiness from the recent window and the full
// history. The result is always an integer in [0,100].
func ComputeReadyScore(recent, history []schema.HormoneTest, sex schema.BiologicalSex, now time.Time) (schema.ReadyScoreResult, error) {
	if err := schema.ValidateTests(recent); err != nil {
		return schema.ReadyScoreResult{}, err
	}
	if err := schema.ValidateTests(history); err != nil {
		return schema.ReadyScoreResult{}, err
	}

	breakdown := map[schema.BreakdownKey]float64{}
	byRecency := algo.SortByTimeDesc(recent)

	for _, h := range supportedHormones {
		breakdown[breakdownKeys[h]] = 0
		latest := algo.FilterByHormone(byRecency, h)
		if len(latest) == 0 {
			continue
		}
		rng, err := RangeFor(h, sex)
		if err != nil {
			return schema.ReadyScoreResult{}, err
		}
		breakdown[breakdownKeys[h]] = hormoneContribution(latest[0].Value, rng, HormoneWeights[h])
	}

	var latest *schema.HormoneTest
	if len(byRecency) > 0 {
		latest = &byRecency[0]
	}
	for k, v := range contextModifiers(latest) {
		breakdown[k] = v
	}

	trend, trendBonus, err := readyTrend(history, sex)
	if err != nil {
		return schema.ReadyScoreResult{}, err
	}
	breakdown[schema.BreakdownTrend] = trendBonus

	total := ReadyBaseline
	for _, v := range breakdown {
		total += v
	}
	score := int(math.Round(algo.Clamp(total, 0, 100)))

	result := schema.ReadyScoreResult{
		Score:      score,
		Band:       schema.GetPlainLabel(float64(score)),
		Confidence: readyConfidence(latest, len(history), now),
		Trend:      trend,
		Breakdown:  breakdown,
		Protocols:  readyProtocols(score, latest),
	}
	if latest != nil {
		ts := latest.EffectiveTime()
		result.LatestTest = &ts
	}
	return result, nil
}

// hormoneContribution is +w in range, +w/2 near range, -w/2 far from it.
func hormoneContribution(value float64, rng schema.HormoneRange, weight float64) float64 {
	switch ClassifyStatus(value, rng) {
	case schema.OptimalStatus:
		return weight
	case schema.BorderlineStatus:
		return weight / 2
	default:
		return -weight / 2
	}
}

// contextModifiers reads the lifestyle fields of the latest test.
// The modifiers are independent and additive.
func contextModifiers(latest *schema.HormoneTest) map[schema.BreakdownKey]float64 {
	mods := map[schema.BreakdownKey]float64{
		schema.BreakdownSleep:    0,
		schema.BreakdownExercise: 0,
		schema.BreakdownStress:   0,
	}
	if latest == nil {
		return mods
	}
	if latest.SleepQuality != nil {
		switch {
		case *latest.SleepQuality >= SleepGoodThreshold:
			mods[schema.BreakdownSleep] = SleepModifier
		case *latest.SleepQuality <= SleepPoorThreshold:
			mods[schema.BreakdownSleep] = -SleepModifier
		}
	}
	if latest.Exercised != nil && *latest.Exercised {
		mods[schema.BreakdownExercise] = ExerciseModifier
	}
	if latest.StressLevel != nil && *latest.StressLevel >= StressHighLevel {
		mods[schema.BreakdownStress] = -StressModifier
	}
	return mods
}

// readyTrend compares the optimality of the newest tests with the ones
// before them. Fewer than two full windows is always stable.
func readyTrend(history []schema.HormoneTest, sex schema.BiologicalSex) (schema.Trend, float64, error) {
	if len(history) < 2*TrendWindow {
		return schema.Stable, 0, nil
	}
	byRecency := algo.SortByTimeDesc(history)
	recentAvg, err := averageOptimality(byRecency[:TrendWindow], sex)
	if err != nil {
		return "", 0, err
	}
	priorAvg, err := averageOptimality(byRecency[TrendWindow:2*TrendWindow], sex)
	if err != nil {
		return "", 0, err
	}
	switch change := recentAvg - priorAvg; {
	case change > TrendThreshold:
		return schema.Improving, TrendModifier, nil
	case change < -TrendThreshold:
		return schema.Declining, -TrendModifier, nil
	}
	return schema.Stable, 0, nil
}

// averageOptimality is neutral when there is nothing to average.
func averageOptimality(tests []schema.HormoneTest, sex schema.BiologicalSex) (float64, error) {
	if len(tests) == 0 {
		return neutralOptimality, nil
	}
	scores := make([]float64, 0, len(tests))
	for _, t := range tests {
		rng, err := RangeFor(t.HormoneType, sex)
		if err != nil {
			return 0, err
		}
		scores = append(scores, optimality(ClassifyStatus(t.Value, rng)))
	}
	return algo.Mean(scores), nil
}

func readyConfidence(latest *schema.HormoneTest, historySize int, now time.Time) schema.Confidence {
	if latest == nil {
		return schema.LowConfidence
	}
	age := now.Sub(latest.EffectiveTime())
	switch {
	case age <= HighConfidenceAge && historySize >= HighConfidenceTests:
		return schema.HighConfidence
	case age <= MediumConfidenceAge,
		historySize >= MediumConfidenceTests && historySize < HighConfidenceTests:
		return schema.MediumConfidence
	}
	return schema.LowConfidence
}

func readyProtocols(score int, latest *schema.HormoneTest) []string {
	var protocols []string
	for _, tier := range protocolTiers {
		if score >= tier.minScore {
			protocols = append(protocols, tier.protocols...)
			break
		}
	}
	if latest == nil {
		return protocols
	}
	if latest.SleepQuality != nil && *latest.SleepQuality <= SleepPoorThreshold {
		protocols = append(protocols, poorSleepProtocol)
	}
	if latest.StressLevel != nil && *latest.StressLevel >= StressHighLevel {
		protocols = append(protocols, highStressProtocol)
	}
	return protocols
}

// RecentTests keeps the tests taken within window before now.
func RecentTests(history []schema.HormoneTest, now time.Time, window time.Duration) []schema.HormoneTest {
	cutoff := now.Add(-window)
	var out []schema.HormoneTest
	for _, t := range history {
		ts := t.EffectiveTime()
		if ts.After(cutoff) && !ts.After(now) {
			out = append(out, t)
		}
	}
	return out
}

// TestsThisWeek counts the tests taken in the trailing seven days.
func TestsThisWeek(history []schema.HormoneTest, now time.Time) int {
	return len(RecentTests(history, now, 7*24*time.Hour))
}
