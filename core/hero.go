package core

import (
	"fmt"
	"math"
	"time"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// Hero insight thresholds.
const (
	InactiveDays      = 2
	HeroSwingPercent  = 15.0
	HeroPeakScore     = 80
	HeroLowScore      = 60
	NearUnlockMinimum = 7
	NearUnlockMaximum = 9
)

// Hero rule names in priority order.
const (
	HeroNoTests    = "no_tests"
	HeroInactive   = "inactive"
	HeroLargeSwing = "large_swing"
	HeroPeak       = "peak_score"
	HeroLow        = "low_score"
	HeroNearUnlock = "near_unlock"
	HeroSteady     = "steady"
)

// Call-to-action targets understood by the UI layer.
const (
	TargetLogTest   = "log_test"
	TargetImpact    = "impact"
	TargetProtocols = "protocols"
	TargetAsk       = "ask"
)

// HeroInput is everything the hero card looks at.
type HeroInput struct {
	Tests      []schema.HormoneTest
	ReadyScore *schema.ReadyScoreResult
	Now        time.Time
}

// heroState is derived once from the input and shared by all rules.
type heroState struct {
	count        int
	daysSince    int
	swingHormone schema.HormoneType
	swing        float64
	hasSwing     bool
	score        int
	hasScore     bool
	protocols    []string
}

type heroRule struct {
	name  string
	match func(heroState) bool
	build func(heroState) schema.HeroInsight
}

// heroRules are evaluated top to bottom; the first match wins.
var heroRules = []heroRule{
	{
		name:  HeroNoTests,
		match: func(s heroState) bool { return s.count == 0 },
		build: func(heroState) schema.HeroInsight {
			return schema.HeroInsight{
				Headline: "Log your first hormone test to unlock your ReadyScore",
				Actions:  []string{"Take a cortisol test within an hour of waking"},
				CTA:      schema.CallToAction{Label: "Log a test", Target: TargetLogTest},
			}
		},
	},
	{
		name:  HeroInactive,
		match: func(s heroState) bool { return s.daysSince >= InactiveDays },
		build: func(s heroState) schema.HeroInsight {
			return schema.HeroInsight{
				Headline: fmt.Sprintf("It's been %d days since your last test", s.daysSince),
				Actions:  []string{"Test today to keep your ReadyScore accurate"},
				CTA:      schema.CallToAction{Label: "Log a test", Target: TargetLogTest},
			}
		},
	},
	{
		name:  HeroLargeSwing,
		match: func(s heroState) bool { return s.hasSwing && math.Abs(s.swing) > HeroSwingPercent },
		build: func(s heroState) schema.HeroInsight {
			direction := "rose"
			if s.swing < 0 {
				direction = "dropped"
			}
			return schema.HeroInsight{
				Headline: fmt.Sprintf("Your %s %s %.0f%% since your last test", HormoneLabel(s.swingHormone), direction, math.Abs(s.swing)),
				Actions: []string{
					"Note your sleep, stress and training for this test",
					"Retest within 48 hours to confirm the change",
				},
				CTA: schema.CallToAction{Label: "View trends", Target: TargetImpact},
			}
		},
	},
	{
		name:  HeroPeak,
		match: func(s heroState) bool { return s.hasScore && s.score >= HeroPeakScore },
		build: func(s heroState) schema.HeroInsight {
			return schema.HeroInsight{
				Headline: fmt.Sprintf("ReadyScore %d: you're primed to perform today", s.score),
				Actions:  firstN(s.protocols, 2),
				CTA:      schema.CallToAction{Label: "See protocols", Target: TargetProtocols},
			}
		},
	},
	{
		name:  HeroLow,
		match: func(s heroState) bool { return s.hasScore && s.score < HeroLowScore },
		build: func(s heroState) schema.HeroInsight {
			return schema.HeroInsight{
				Headline: fmt.Sprintf("ReadyScore %d: make today a recovery day", s.score),
				Actions:  firstN(s.protocols, 2),
				CTA:      schema.CallToAction{Label: "See protocols", Target: TargetProtocols},
			}
		},
	},
	{
		name:  HeroNearUnlock,
		match: func(s heroState) bool { return s.count >= NearUnlockMinimum && s.count <= NearUnlockMaximum },
		build: func(s heroState) schema.HeroInsight {
			remaining := bioAgeMinTests - s.count
			return schema.HeroInsight{
				Headline: fmt.Sprintf("%s to unlock BioAge and Impact", pluralTests(remaining)),
				Actions:  []string{"Keep testing daily to build a 14 day history"},
				CTA:      schema.CallToAction{Label: "Log a test", Target: TargetLogTest},
			}
		},
	},
	{
		name:  HeroSteady,
		match: func(heroState) bool { return true },
		build: func(heroState) schema.HeroInsight {
			return schema.HeroInsight{
				Headline: "Your hormones are steady. Keep up the routine",
				Actions:  []string{"Test again tomorrow morning"},
				CTA:      schema.CallToAction{Label: "Ask your coach", Target: TargetAsk},
			}
		},
	},
}

// HeroRuleOrder returns the hero rule names in evaluation order.
func HeroRuleOrder() []string {
	names := make([]string, len(heroRules))
	for i, r := range heroRules {
		names[i] = r.name
	}
	return names
}

// GenerateHeroInsight returns the headline card for the home screen.
func GenerateHeroInsight(in HeroInput) (schema.HeroInsight, error) {
	if err := schema.ValidateTests(in.Tests); err != nil {
		return schema.HeroInsight{}, err
	}
	state := newHeroState(in)
	for _, r := range heroRules {
		if r.match(state) {
			insight := r.build(state)
			insight.Rule = r.name
			return insight, nil
		}
	}
	return schema.HeroInsight{}, nil
}

func newHeroState(in HeroInput) heroState {
	state := heroState{count: len(in.Tests)}
	if in.ReadyScore != nil {
		state.hasScore = true
		state.score = in.ReadyScore.Score
		state.protocols = in.ReadyScore.Protocols
	}
	sorted := algo.SortByTimeDesc(in.Tests)
	if len(sorted) == 0 {
		return state
	}
	latest := sorted[0]
	if elapsed := in.Now.Sub(latest.EffectiveTime()); elapsed > 0 {
		state.daysSince = int(elapsed.Hours() / 24)
	}
	same := algo.FilterByHormone(sorted, latest.HormoneType)
	if len(same) >= 2 && same[1].Value > 0 {
		state.hasSwing = true
		state.swingHormone = latest.HormoneType
		state.swing = algo.PercentChange(same[1].Value, same[0].Value)
	}
	return state
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
