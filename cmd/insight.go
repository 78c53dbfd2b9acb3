// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitboard/gitboard/internal/domain"
	"github.com/gitboard/gitboard/internal/gateway"
	"github.com/gitboard/gitboard/internal/usecase"
)

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Fetches an account insight and outputs it as JSON",
	Long: `Runs one complete query session for the specified GitHub account
(profile, non-fork repositories, ranked language summary, synthetic
activity series) and outputs the terminal session in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := logrus.New()
		logger.SetOutput(io.Discard) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr)
			logger.SetLevel(logrus.DebugLevel)
		}

		user, _ := cmd.Flags().GetString("user")
		// The token is optional; without it the client is anonymous and
		// subject to the lower unauthenticated rate limit.
		token := os.Getenv("GITHUB_TOKEN")

		githubGateway, err := gateway.NewGitHubGateway(token, gateway.DefaultPolicy(), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		service := usecase.NewService(githubGateway, logger)

		session := service.Query(ctx, user)

		jsonData, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal session to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))

		if session.State == domain.StateFailed {
			fmt.Fprintf(os.Stderr, "Error: %s\n", session.Error)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(insightCmd)
	insightCmd.Flags().StringP("user", "u", "", "Target GitHub account name (required)")
	insightCmd.MarkFlagRequired("user")
}
