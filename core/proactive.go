package core

import (
	"fmt"
	"math"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// Proactive message thresholds.
const (
	StabilitySamples         = 5
	StabilityMaxCV           = 0.10
	MilestoneTestCount       = 9
	defaultSignificantChange = 15.0
)

// SignificantChange is the percent change between consecutive same-hormone
// tests that earns a proactive message.
var SignificantChange = map[schema.HormoneType]float64{
	schema.Cortisol:     20,
	schema.Testosterone: 15,
	schema.DHEA:         15,
}

// Proactive rule names in priority order.
const (
	ProactiveChange    = "significant_change"
	ProactiveStability = "stability"
	ProactiveMilestone = "milestone"
)

type proactiveState struct {
	hormone   schema.HormoneType
	change    float64
	hasChange bool
	cv        float64
	stable    bool
	total     int
}

type proactiveRule struct {
	name  string
	match func(proactiveState) bool
	build func(proactiveState) schema.ProactiveMessage
}

var proactiveRules = []proactiveRule{
	{
		name: ProactiveChange,
		match: func(s proactiveState) bool {
			threshold, ok := SignificantChange[s.hormone]
			if !ok {
				threshold = defaultSignificantChange
			}
			return s.hasChange && math.Abs(s.change) > threshold
		},
		build: func(s proactiveState) schema.ProactiveMessage {
			label := HormoneLabel(s.hormone)
			improved := s.change > 0
			if lowerIsBetter[s.hormone] {
				improved = !improved
			}
			direction := "rose"
			if s.change < 0 {
				direction = "dropped"
			}
			if improved {
				return schema.ProactiveMessage{
					Title:   fmt.Sprintf("Big %s improvement", label),
					Message: fmt.Sprintf("Your %s %s %.0f%% since your last test. Whatever you're doing is working", label, direction, math.Abs(s.change)),
				}
			}
			return schema.ProactiveMessage{
				Title:   fmt.Sprintf("Notable %s change", label),
				Message: fmt.Sprintf("Your %s %s %.0f%% since your last test. Check in on your sleep and stress", label, direction, math.Abs(s.change)),
			}
		},
	},
	{
		name:  ProactiveStability,
		match: func(s proactiveState) bool { return s.stable },
		build: func(s proactiveState) schema.ProactiveMessage {
			return schema.ProactiveMessage{
				Title: "Rock steady",
				Message: fmt.Sprintf("Your last %d %s readings vary by only %.0f%%. Your routine is paying off",
					StabilitySamples, HormoneLabel(s.hormone), s.cv*100),
			}
		},
	},
	{
		name:  ProactiveMilestone,
		match: func(s proactiveState) bool { return s.total == MilestoneTestCount },
		build: func(proactiveState) schema.ProactiveMessage {
			return schema.ProactiveMessage{
				Title:   "One test away",
				Message: "Just 1 more test to unlock your BioAge",
			}
		},
	},
}

// ProactiveRuleOrder returns the proactive rule names in evaluation order.
func ProactiveRuleOrder() []string {
	names := make([]string, len(proactiveRules))
	for i, r := range proactiveRules {
		names[i] = r.name
	}
	return names
}

// GenerateProactiveMessage returns a nudge for a newly logged test, or nil
// when no rule applies and the caller should stay quiet.
func GenerateProactiveMessage(test schema.HormoneTest, previous []schema.HormoneTest) (*schema.ProactiveMessage, error) {
	if err := schema.ValidateTest(test); err != nil {
		return nil, err
	}
	if err := schema.ValidateTests(previous); err != nil {
		return nil, err
	}
	state := proactiveState{hormone: test.HormoneType, total: len(previous) + 1}

	same := algo.SortByTimeDesc(algo.FilterByHormone(previous, test.HormoneType))
	if len(same) > 0 && same[0].Value > 0 {
		state.hasChange = true
		state.change = algo.PercentChange(same[0].Value, test.Value)
	}
	if len(same)+1 >= StabilitySamples {
		window := append([]float64{test.Value}, algo.Values(same[:StabilitySamples-1])...)
		state.cv = algo.CoefficientOfVariation(window)
		state.stable = state.cv < StabilityMaxCV
	}

	for _, r := range proactiveRules {
		if r.match(state) {
			msg := r.build(state)
			msg.Rule = r.name
			return &msg, nil
		}
	}
	return nil, nil
}
