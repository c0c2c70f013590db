// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "yearwrap",
	Short: "A CLI tool to aggregate a GitHub user's yearly contribution statistics.",
	Long: `yearwrap turns a user's raw GitHub activity into yearly statistics:
commit counts, commits by month, language breakdown, top repositories,
pull request stats, and contribution streaks. It prefers the GraphQL
contributions endpoint and falls back to REST search when needed.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the structured logger shared by all commands. Logs go
// to stderr so the JSON result on stdout stays machine-readable.
func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func init() {
	cobra.OnInitialize(func() {
		// A missing .env is fine; the environment may carry the token already.
		_ = godotenv.Load()
	})
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
