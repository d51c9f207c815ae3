package core

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/hormetric/schema"
)

// Feature gate thresholds.
const (
	readyScoreMinTests       = 1
	readyScoreOptimalPerWeek = 3
	bioAgeMinTests           = 10
	bioAgeMinDays            = 14
	impactMinTests           = 5
	impactMinDays            = 14
)

// FeatureRequirements holds the unlock configuration of every feature.
var FeatureRequirements = map[schema.Feature]schema.FeatureRequirement{
	schema.ReadyScoreFeature: {
		Feature:             schema.ReadyScoreFeature,
		Title:               "ReadyScore",
		Description:         "Daily readiness from your latest hormone levels",
		MinTests:            readyScoreMinTests,
		OptimalTestsPerWeek: readyScoreOptimalPerWeek,
	},
	schema.BioAgeFeature: {
		Feature:     schema.BioAgeFeature,
		Title:       "BioAge",
		Description: "Biological age estimated from hormone balance",
		MinTests:    bioAgeMinTests,
		MinDays:     bioAgeMinDays,
	},
	schema.ImpactFeature: {
		Feature:     schema.ImpactFeature,
		Title:       "Impact",
		Description: "How your habits move your hormones over time",
		MinTests:    impactMinTests,
		MinDays:     impactMinDays,
	},
	schema.AskFeature: {
		Feature:     schema.AskFeature,
		Title:       "Ask",
		Description: "Chat with your hormone coach",
	},
	schema.ProtocolsFeature: {
		Feature:     schema.ProtocolsFeature,
		Title:       "Protocols",
		Description: "Recommendations tailored to your score",
	},
}

// CanCalculateReadyScore decides whether the ReadyScore can be shown and
// whether enough tests were logged this week for an accurate one.
func CanCalculateReadyScore(testCount, testsThisWeek int) schema.ReadyScoreGate {
	gate := schema.ReadyScoreGate{
		CanShow:   testCount >= readyScoreMinTests,
		IsOptimal: testsThisWeek >= readyScoreOptimalPerWeek,
	}
	switch {
	case !gate.CanShow:
		gate.TestsNeeded = readyScoreMinTests - max(testCount, 0)
		gate.Message = fmt.Sprintf("Log %s to see your ReadyScore", pluralTests(gate.TestsNeeded))
	case !gate.IsOptimal:
		gate.TestsNeeded = readyScoreOptimalPerWeek - max(testsThisWeek, 0)
		gate.Message = fmt.Sprintf("Log %s this week for optimal accuracy", pluralTests(gate.TestsNeeded))
	default:
		gate.Message = "High accuracy"
	}
	return gate
}

// CanCalculateBioAge gates the BioAge engine on test count and date span.
func CanCalculateBioAge(testCount int, earliest, latest *time.Time) schema.FeatureGate {
	return canCalculateSpan(FeatureRequirements[schema.BioAgeFeature], testCount, earliest, latest)
}

// CanCalculateImpact gates the Impact engine on test count and date span.
func CanCalculateImpact(testCount int, earliest, latest *time.Time) schema.FeatureGate {
	return canCalculateSpan(FeatureRequirements[schema.ImpactFeature], testCount, earliest, latest)
}

// canCalculateSpan applies the shared two-threshold rule. Missing dates count
// as a zero-day span, so the full day requirement stays outstanding.
func canCalculateSpan(req schema.FeatureRequirement, testCount int, earliest, latest *time.Time) schema.FeatureGate {
	spanDays := 0.0
	if earliest != nil && latest != nil {
		spanDays = math.Max(latest.Sub(*earliest).Hours()/24, 0)
	}

	gate := schema.FeatureGate{Feature: req.Feature}
	gate.TestsNeeded = max(req.MinTests-testCount, 0)
	gate.DaysNeeded = max(int(math.Ceil(float64(req.MinDays)-spanDays)), 0)
	gate.CanCalculate = gate.TestsNeeded == 0 && gate.DaysNeeded == 0

	switch {
	case gate.CanCalculate:
		gate.Reason = schema.ReasonOK
		gate.Message = fmt.Sprintf("%s unlocked", req.Title)
	case gate.TestsNeeded > 0 && gate.DaysNeeded > 0:
		gate.Reason = schema.ReasonInsufficientTestDays
		gate.Message = fmt.Sprintf("Log %s over %s to unlock %s",
			pluralTests(gate.TestsNeeded), pluralDays(gate.DaysNeeded), req.Title)
	case gate.TestsNeeded > 0:
		gate.Reason = schema.ReasonInsufficientTests
		gate.Message = fmt.Sprintf("Log %s to unlock %s", pluralTests(gate.TestsNeeded), req.Title)
	default:
		gate.Reason = schema.ReasonInsufficientDays
		gate.Message = fmt.Sprintf("Keep testing for %s to unlock %s", pluralDays(gate.DaysNeeded), req.Title)
	}
	return gate
}

// GetFeatureProgress returns the unlock progress of a feature in [0,100].
// ReadyScore measures progress toward its optimal weekly test count.
func GetFeatureProgress(feature schema.Feature, testCount, testsThisWeek int) int {
	req, ok := FeatureRequirements[feature]
	if !ok {
		return 0
	}
	have, need := testCount, req.MinTests
	if feature == schema.ReadyScoreFeature {
		have, need = testsThisWeek, req.OptimalTestsPerWeek
	}
	if need <= 0 {
		return 100
	}
	return int(math.Round(100 * math.Min(math.Max(float64(have), 0)/float64(need), 1)))
}

// AllFeatureProgress returns one progress row per feature in display order.
func AllFeatureProgress(testCount, testsThisWeek int, earliest, latest *time.Time) []schema.FeatureProgress {
	rows := make([]schema.FeatureProgress, 0, len(schema.AllFeatures))
	for _, f := range schema.AllFeatures {
		req := FeatureRequirements[f]
		row := schema.FeatureProgress{
			Feature: f,
			Title:   req.Title,
			Percent: GetFeatureProgress(f, testCount, testsThisWeek),
		}
		switch f {
		case schema.ReadyScoreFeature:
			gate := CanCalculateReadyScore(testCount, testsThisWeek)
			row.Unlocked, row.Message = gate.CanShow, gate.Message
		case schema.BioAgeFeature, schema.ImpactFeature:
			gate := canCalculateSpan(req, testCount, earliest, latest)
			row.Unlocked, row.Message = gate.CanCalculate, gate.Message
		default:
			row.Unlocked, row.Message = true, req.Description
		}
		rows = append(rows, row)
	}
	return rows
}

func pluralTests(n int) string {
	if n == 1 {
		return "1 more test"
	}
	return fmt.Sprintf("%d more tests", n)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 more day"
	}
	return fmt.Sprintf("%d more days", n)
}
