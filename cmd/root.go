// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitboard",
	Short: "A GitHub profile-insight dashboard backend.",
	Long: `gitboard fetches a GitHub account's profile, repositories and
per-repository language breakdowns and derives a ranked language summary
plus a synthetic monthly activity series. The insight can be printed as
JSON or served over an HTTP API for the browser dashboard.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
