package cmd

import (
	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/spf13/cobra"
)

// streakCmd counts consecutive testing days.
var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show how many consecutive days you have tested.",
	Long: `Count consecutive calendar days with at least one test, ending at your
most recent test. Several tests on one day count once.

Examples:
  hormetric streak`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStreak(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute streak", err)
		}
	},
}

// heroCmd prints the headline card.
var heroCmd = &cobra.Command{
	Use:   "hero",
	Short: "Show the headline insight with suggested next actions.",
	Long: `Pick the single most relevant message for today: a first test prompt,
a missed day, a streak milestone, a ReadyScore band and so on.

Examples:
  hormetric hero`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHero(core.WithoutSnapshots(rootCtx), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build hero insight", err)
		}
	},
}

// gateCmd shows feature unlock progress.
var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Show how close every feature is to being unlocked.",
	Long: `List every feature with its unlock state, progress and the tests or
days still needed.

Examples:
  hormetric gate
  hormetric gate --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute feature progress", err)
		}
	},
}

// coachContextCmd prints the coach context string.
var coachContextCmd = &cobra.Command{
	Use:   "coach-context",
	Short: "Print the context handed to the hormone coach chat.",
	Long: `Assemble a plain-text summary of your profile, latest levels and every
unlocked score. Locked scores are left out.

Examples:
  hormetric coach-context
  hormetric coach-context --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCoachContext(core.WithoutSnapshots(rootCtx), cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build coach context", err)
		}
	},
}
