package core

import (
	"fmt"
	"math"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// Test insight thresholds.
const (
	BorderlineTolerance  = 0.20 // fraction outside a boundary still called borderline
	ComparisonThreshold  = 5.0  // percent deviation before comparing to the average
	AnomalyThreshold     = 40.0 // percent deviation flagged as an anomaly
	MinPriorForAverage   = 2    // same-hormone tests needed for a rolling average
	sweetSpotMarginRatio = 0.25 // each edge of the optimal range outside the sweet spot
)

// hormoneLabels are the display names of each hormone.
var hormoneLabels = map[schema.HormoneType]string{
	schema.Cortisol:     "cortisol",
	schema.Testosterone: "testosterone",
	schema.DHEA:         "DHEA",
}

// HormoneLabel returns the display name of a hormone.
func HormoneLabel(h schema.HormoneType) string {
	if label, ok := hormoneLabels[h]; ok {
		return label
	}
	return string(h)
}

// ClassifyStatus places a value relative to an optimal range.
// Exactly one status holds for any value.
func ClassifyStatus(value float64, rng schema.HormoneRange) schema.TestStatus {
	switch {
	case value >= rng.OptimalMin && value <= rng.OptimalMax:
		return schema.OptimalStatus
	case value < rng.OptimalMin && value >= rng.OptimalMin*(1-BorderlineTolerance):
		return schema.BorderlineStatus
	case value > rng.OptimalMax && value <= rng.OptimalMax*(1+BorderlineTolerance):
		return schema.BorderlineStatus
	default:
		return schema.ConcerningStatus
	}
}

// optimality maps a status to the 1 / 0.5 / 0 scale used for trends.
func optimality(status schema.TestStatus) float64 {
	switch status {
	case schema.OptimalStatus:
		return 1
	case schema.BorderlineStatus:
		return 0.5
	default:
		return 0
	}
}

// statusMessage picks one of six templates by status and side of the range.
func statusMessage(value float64, rng schema.HormoneRange, status schema.TestStatus) string {
	label := HormoneLabel(rng.HormoneType)
	bounds := fmt.Sprintf("%s-%s %s", formatValue(rng.OptimalMin), formatValue(rng.OptimalMax), rng.Unit)
	below := value < rng.OptimalMin

	switch status {
	case schema.OptimalStatus:
		margin := (rng.OptimalMax - rng.OptimalMin) * sweetSpotMarginRatio
		if value >= rng.OptimalMin+margin && value <= rng.OptimalMax-margin {
			return fmt.Sprintf("Your %s is right in the sweet spot (%s)", label, bounds)
		}
		return fmt.Sprintf("Your %s is optimal but close to the edge of %s", label, bounds)
	case schema.BorderlineStatus:
		if below {
			return fmt.Sprintf("Your %s is slightly below optimal (%s)", label, bounds)
		}
		return fmt.Sprintf("Your %s is slightly above optimal (%s)", label, bounds)
	default:
		if below {
			return fmt.Sprintf("Your %s is well below optimal (%s). Focus on recovery", label, bounds)
		}
		return fmt.Sprintf("Your %s is well above optimal (%s). Focus on recovery", label, bounds)
	}
}

// CalculateTestInsight builds the feedback for a newly logged test from the
// user's previous tests of any hormone.
func CalculateTestInsight(test schema.HormoneTest, previous []schema.HormoneTest, sex schema.BiologicalSex) (schema.TestInsight, error) {
	if err := schema.ValidateTest(test); err != nil {
		return schema.TestInsight{}, err
	}
	rng, err := RangeFor(test.HormoneType, sex)
	if err != nil {
		return schema.TestInsight{}, err
	}

	status := ClassifyStatus(test.Value, rng)
	matching := algo.FilterByHormone(previous, test.HormoneType)
	insight := schema.TestInsight{
		HormoneType:   test.HormoneType,
		Value:         test.Value,
		Status:        status,
		StatusMessage: statusMessage(test.Value, rng, status),
		TestCount:     len(matching) + 1,
	}
	insight.TestCountMessage = testCountMessage(insight.TestCount, test.HormoneType)

	if len(matching) >= MinPriorForAverage {
		avg := algo.Mean(algo.Values(matching))
		dev := algo.PercentChange(avg, test.Value)
		insight.DeviationPercent = &dev
		direction := "higher"
		if dev < 0 {
			direction = "lower"
		}
		if math.Abs(dev) > ComparisonThreshold {
			insight.ComparisonToAverage = fmt.Sprintf("%.0f%% %s than your average of %s",
				math.Abs(dev), direction, formatValue(avg))
		}
		if math.Abs(dev) > AnomalyThreshold {
			insight.AnomalyDetected = true
			insight.AnomalyMessage = fmt.Sprintf("⚠️ This reading is %.0f%% %s than usual. Consider retesting to confirm",
				math.Abs(dev), direction)
		}
	}
	return insight, nil
}

// DetectPersonalRecord reports whether value is strictly above the highest or
// strictly below the lowest prior value. The order of prior is irrelevant.
func DetectPersonalRecord(value float64, prior []float64) schema.PersonalRecord {
	if len(prior) == 0 {
		return schema.PersonalRecord{}
	}
	lo, hi := prior[0], prior[0]
	for _, v := range prior[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	switch {
	case value > hi:
		return schema.PersonalRecord{IsRecord: true, Type: schema.HighestRecord}
	case value < lo:
		return schema.PersonalRecord{IsRecord: true, Type: schema.LowestRecord}
	}
	return schema.PersonalRecord{}
}

func testCountMessage(n int, h schema.HormoneType) string {
	label := HormoneLabel(h)
	switch n {
	case 1:
		return fmt.Sprintf("🎉 Your first %s test! Your baseline is set", label)
	case 2:
		return fmt.Sprintf("2nd %s test logged", label)
	case 3:
		return fmt.Sprintf("3rd %s test logged 🔥", label)
	default:
		return fmt.Sprintf("%s %s test logged 🔥", Ordinal(n), label)
	}
}

// Ordinal formats n as 1st, 2nd, 3rd, 4th, 11th, 21st and so on.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// formatValue trims needless decimals from a reading.
func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
