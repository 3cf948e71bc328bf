// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gh-dashboard",
	Short: "A CLI tool to summarize a GitHub user's repositories.",
	Long: `gh-dashboard shows a GitHub user's profile together with statistics
over their repositories (total stars, top language and the language
distribution), and drills into a single repository's metadata, languages
and open issues. It can also serve the same data as a JSON HTTP API.

Set GITHUB_TOKEN to raise the API rate limit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
