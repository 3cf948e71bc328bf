package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var repoCmd = &cobra.Command{
	Use:   "repo <owner>/<name>",
	Short: "Shows a repository's metadata, languages and open issues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		if err := validateFormat(format); err != nil {
			return err
		}
		owner, name, ok := strings.Cut(args[0], "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("repository must be given as <owner>/<name>, got %q", args[0])
		}

		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		stop := a.startSpinner("Fetching " + args[0] + "...")
		report, err := a.aggregator.Repository(cmd.Context(), owner, name)
		stop()
		if err != nil {
			return fmt.Errorf("failed to fetch repository: %w", err)
		}

		if err := writeRepoReport(cmd.OutOrStdout(), format, report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repoCmd)
	repoCmd.Flags().StringP("output", "o", formatText, "Output format: json, markdown or text")
}
