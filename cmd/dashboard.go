package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <username>",
	Short: "Shows a user's profile and repository statistics",
	Long: `Fetches a GitHub user's profile and their most recently updated repositories,
then prints total stars, the top language and the language distribution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		limit, _ := cmd.Flags().GetInt("limit")
		if err := validateFormat(format); err != nil {
			return err
		}

		a, err := newApp(cmd, appOptions{repoLimit: limit})
		if err != nil {
			return err
		}
		defer a.close()

		stop := a.startSpinner("Fetching " + args[0] + "...")
		dashboard, err := a.aggregator.Dashboard(cmd.Context(), args[0])
		stop()
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}

		if err := writeDashboard(cmd.OutOrStdout(), format, dashboard); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringP("output", "o", formatText, "Output format: json, markdown or text")
	dashboardCmd.Flags().Int("limit", 0, "Number of repositories to fetch, 1-100 (default from GH_DASHBOARD_REPO_LIMIT)")
}
