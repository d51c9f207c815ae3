// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReadyScore prints the ReadyScore, or the gate message when it is locked.
func (ow *OutWriter) WriteReadyScore(result *schema.ReadyScoreResult, gate schema.ReadyScoreGate, cfg *contract.Config) error {
	return PrintReadyScore(result, gate, cfg)
}

// WriteBioAge prints the BioAge estimate.
func (ow *OutWriter) WriteBioAge(result schema.BioAgeResult, cfg *contract.Config) error {
	return PrintBioAge(result, cfg)
}

// WriteImpact prints the Impact analysis.
func (ow *OutWriter) WriteImpact(result schema.ImpactResult, cfg *contract.Config) error {
	return PrintImpact(result, cfg)
}

// WriteStreak prints the testing streak.
func (ow *OutWriter) WriteStreak(result schema.StreakResult, cfg *contract.Config) error {
	return PrintStreak(result, cfg)
}

// WriteHeroInsight prints the hero card.
func (ow *OutWriter) WriteHeroInsight(result schema.HeroInsight, cfg *contract.Config) error {
	return PrintHeroInsight(result, cfg)
}

// WriteFeatureProgress prints the unlock overview.
func (ow *OutWriter) WriteFeatureProgress(rows []schema.FeatureProgress, cfg *contract.Config) error {
	return PrintFeatureProgress(rows, cfg)
}

// WriteLogResult prints the feedback for a newly logged test.
func (ow *OutWriter) WriteLogResult(result schema.LogResult, cfg *contract.Config) error {
	return PrintLogResult(result, cfg)
}

// WriteCoachContext prints the chat coach context.
func (ow *OutWriter) WriteCoachContext(result schema.CoachContext, cfg *contract.Config) error {
	return PrintCoachContext(result, cfg)
}

// WriteHistory prints the stored tests.
func (ow *OutWriter) WriteHistory(tests []schema.EnrichedTest, cfg *contract.Config) error {
	return PrintHistory(tests, cfg)
}

// WriteProfile prints a user profile.
func (ow *OutWriter) WriteProfile(profile schema.Profile, cfg *contract.Config) error {
	return PrintProfile(profile, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for free-text cells in table output
// based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the label column, borders and padding
	available := termWidth - 30
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
