package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Aggregates a user's repositories and outputs as JSON",
	Long:  `Aggregates a GitHub user's repositories (total count, total stars, top language and language distribution) and outputs the result in JSON format.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		// Inject dependencies and run the main business logic.
		a, err := newApp(cmd, appOptions{repoLimit: limit})
		if err != nil {
			return err
		}
		defer a.close()

		stop := a.startSpinner("Fetching repositories of " + args[0] + "...")
		results, err := a.aggregator.Stats(cmd.Context(), args[0])
		stop()
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}

		// Print the final JSON to standard output.
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int("limit", 0, "Number of repositories to fetch, 1-100 (default from GH_DASHBOARD_REPO_LIMIT)")
}
