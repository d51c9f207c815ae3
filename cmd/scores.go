package cmd

import (
	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/spf13/cobra"
)

// readyCmd computes the daily ReadyScore.
var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Show today's ReadyScore from your latest hormone tests.",
	Long: `Score readiness from 0 to 100 using the latest test of each hormone
inside the recency window, the lifestyle context of the newest test and the
trend across your history.

The score unlocks with your first test. Three tests in the trailing week
give optimal accuracy.

Examples:
  # Score as of now
  hormetric ready

  # Score a past day with a wider window
  hormetric ready --as-of 2025-03-01T08:00:00Z --window "14 days"

  # Explain the score as CSV
  hormetric ready --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReady(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute ReadyScore", err)
		}
	},
}

// bioageCmd estimates biological age.
var bioageCmd = &cobra.Command{
	Use:   "bioage",
	Short: "Estimate your biological age from hormone balance.",
	Long: `Compare your average hormone levels with age norms to estimate a
biological age, then adjust for lifestyle habits.

Requires at least 10 tests spanning 14 days and a chronological age from
'hormetric profile set' or --age.

Examples:
  # Use the stored profile
  hormetric bioage

  # Override age and sex for a one-off estimate
  hormetric bioage --age 38 --sex female`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBioAge(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute BioAge", err)
		}
	},
}

// impactCmd analyzes longitudinal trends.
var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Show how your hormones trend and which habits you logged.",
	Long: `Compare the first and second half of each hormone's history and
summarize the lifestyle context attached to your tests.

Requires at least 5 tests spanning 14 days.

Examples:
  hormetric impact
  hormetric impact --output json --output-file impact.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteImpact(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot analyze impact", err)
		}
	},
}
