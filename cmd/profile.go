package cmd

import (
	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/spf13/cobra"
)

// profileCmd manages the user profile.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the age and sex used by the scores",
	Long: `Store the chronological age and biological sex of a user.

BioAge needs an age. Testosterone ranges depend on sex; an unspecified sex
uses the male table.

Subcommands:
  set  - Save --age and --sex
  show - Print the stored profile

Examples:
  hormetric profile set --age 41 --sex male
  hormetric profile show --user alice`,
}

// profileSetCmd saves the profile.
var profileSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Save the age and sex of the current user",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProfileSet(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot save profile", err)
		}
	},
}

// profileShowCmd prints the profile.
var profileShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the stored profile of the current user",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProfileShow(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show profile", err)
		}
	},
}
