package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/yearwrap/yearwrap/internal/domain"
	"github.com/yearwrap/yearwrap/internal/gateway"
	"github.com/yearwrap/yearwrap/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates yearly GitHub activity and outputs it as JSON",
	Long: `Aggregates a user's activity (commits, pull requests, languages,
streaks) over a calendar year or an explicit date range, and outputs
the result in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Ctrl-C aborts the run; every fetch is context-aware.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)

		user, _ := cmd.Flags().GetString("user")
		year, _ := cmd.Flags().GetInt("year")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		includeForks, _ := cmd.Flags().GetBool("forks")
		maxTopRepos, _ := cmd.Flags().GetInt("top")
		maxLanguages, _ := cmd.Flags().GetInt("langs")

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		opts := domain.OptionsForYear(user, year)
		const inputDateLayout = "2006-01-02"
		if fromStr != "" {
			fromTime, err := time.Parse(inputDateLayout, fromStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --from date format. Please use YYYY-MM-DD. Error: %v\n", err)
				os.Exit(1)
			}
			opts.From = fromTime
		}
		if toStr != "" {
			toTime, err := time.Parse(inputDateLayout, toStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --to date format. Please use YYYY-MM-DD. Error: %v\n", err)
				os.Exit(1)
			}
			opts.To = toTime.Add(24*time.Hour - time.Second)
		}
		opts.IncludeForks = includeForks
		opts.MaxTopRepos = maxTopRepos
		opts.MaxLanguages = maxLanguages
		opts = opts.Normalize()

		// Inject dependencies and run the main business logic.
		client, err := gateway.NewClient(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub client: %v\n", err)
			os.Exit(1)
		}
		orchestrator := usecase.NewOrchestrator(client, logger)

		result, err := orchestrator.Run(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate stats: %v\n", err)
			os.Exit(1)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("user", "u", "", "Target GitHub user name (defaults to the token's user)")
	statsCmd.Flags().Int("year", time.Now().Year(), "Calendar year to aggregate")
	statsCmd.Flags().String("from", "", "Start date overriding the year window (YYYY-MM-DD)")
	statsCmd.Flags().String("to", "", "End date overriding the year window (YYYY-MM-DD)")
	statsCmd.Flags().Bool("forks", false, "Include forked repositories")
	statsCmd.Flags().Int("top", domain.DefaultMaxTopRepos, "Number of top repositories to retain")
	statsCmd.Flags().Int("langs", domain.DefaultMaxLanguages, "Number of languages to retain")
}
