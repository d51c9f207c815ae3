// Package cmd defines the command-line interface for hormetric.
package cmd

import (
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(bioageCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(heroCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(coachContextCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the profile subcommands to the parent profile command
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsStatusCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("user", "u", contract.DefaultUserID, "User whose history is read and written")
	rootCmd.PersistentFlags().Int("age", 0, "Chronological age override (1-120, 0 = stored profile)")
	rootCmd.PersistentFlags().String("sex", "", "Biological sex override: male or female")
	rootCmd.PersistentFlags().String("window", contract.DefaultWindow, "ReadyScore recency window (e.g., '7 days', '48 hours')")
	rootCmd.PersistentFlags().String("as-of", "", "Evaluation time in ISO8601 or time ago (defaults to now)")
	rootCmd.PersistentFlags().String("hormone", "", "Hormone: cortisol or testosterone or dhea")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of history rows to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Snapshot tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for snapshot tracking (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("pprof", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of logCmd to Viper
	logCmd.Flags().Float64("value", 0, "Measured value in the hormone's unit")
	logCmd.Flags().String("taken-at", "", "Sample time in ISO8601 or time ago (defaults to --as-of)")
	logCmd.Flags().Int("sleep", 0, "Sleep quality from 1 to 5")
	logCmd.Flags().String("exercised", "", "Whether you exercised (yes/no/true/false/1/0)")
	logCmd.Flags().Int("stress", 0, "Stress level from 1 to 5")
	logCmd.Flags().String("supplements", "", "Supplements taken, free text")
	if err := viper.BindPFlags(logCmd.Flags()); err != nil {
		contract.LogFatal("Error binding log flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
