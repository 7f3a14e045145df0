package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardwise",
	Short: "Credit card catalog and recommendation service",
	Long: `Cardwise serves a credit card catalog, a quiz-style recommendation
engine, and a newsletter signup API, backed by Postgres with a static
seed catalog as fallback.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
