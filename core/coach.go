package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/schema"
)

// CoachInput collects the engine outputs handed to the chat coach.
// Nil and locked results are left out of the context.
type CoachInput struct {
	Profile    schema.Profile
	Tests      []schema.HormoneTest
	ReadyScore *schema.ReadyScoreResult
	BioAge     *schema.BioAgeResult
	Impact     *schema.ImpactResult
	Streak     int
}

// BuildCoachContext renders the plain-text context string consumed by the
// external chat service, one fact per line.
func BuildCoachContext(in CoachInput) string {
	var lines []string
	if in.Profile.ChronologicalAge > 0 {
		sex := string(in.Profile.BiologicalSex)
		if sex == "" {
			sex = "unspecified"
		}
		lines = append(lines, fmt.Sprintf("Profile: age %d, sex %s", in.Profile.ChronologicalAge, sex))
	}
	lines = append(lines, fmt.Sprintf("Tests logged: %d", len(in.Tests)))

	latest := algo.SortByTimeDesc(in.Tests)
	for _, h := range supportedHormones {
		same := algo.FilterByHormone(latest, h)
		if len(same) == 0 {
			continue
		}
		line := fmt.Sprintf("Latest %s: %s", HormoneLabel(h), formatValue(same[0].Value))
		if rng, err := RangeFor(h, in.Profile.BiologicalSex); err == nil {
			line += fmt.Sprintf(" %s (%s)", rng.Unit, ClassifyStatus(same[0].Value, rng))
		}
		lines = append(lines, line)
	}

	if r := in.ReadyScore; r != nil {
		lines = append(lines, fmt.Sprintf("ReadyScore: %d (%s confidence), trend: %s", r.Score, r.Confidence, r.Trend))
	}
	if b := in.BioAge; b != nil && b.CanCalculate {
		lines = append(lines, fmt.Sprintf("BioAge: %.1f vs chronological %d (%s confidence)",
			b.BiologicalAge, b.ChronologicalAge, b.Confidence))
	}
	if i := in.Impact; i != nil && i.CanCalculate {
		line := fmt.Sprintf("Impact: %s (trend score %.1f)", i.OverallTrend, i.TrendScore)
		if i.MostImprovedHormone != "" {
			line += ", most improved " + HormoneLabel(i.MostImprovedHormone)
		}
		lines = append(lines, line)
	}
	if in.Streak > 0 {
		lines = append(lines, fmt.Sprintf("Streak: %d days", in.Streak))
	}
	return strings.Join(lines, "\n")
}
