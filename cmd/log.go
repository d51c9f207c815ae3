package cmd

import (
	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/spf13/cobra"
)

// logCmd stores a new test.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a new hormone test and see how it compares.",
	Long: `Validate and store a test, then print its range status, the change
from your previous test of that hormone, any personal record and a nudge
when one applies.

Requires: --hormone and --value

Examples:
  # Morning cortisol with context
  hormetric log --hormone cortisol --value 14.2 --sleep 4 --stress 2 --exercised yes

  # Backfill a test from yesterday
  hormetric log --hormone dhea --value 210 --taken-at "1 day ago"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLog(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot log test", err)
		}
	},
}
