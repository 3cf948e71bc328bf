package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/naka-gawa/gh-dashboard/internal/config"
	"github.com/naka-gawa/gh-dashboard/internal/domain"
	"github.com/naka-gawa/gh-dashboard/internal/gateway"
	"github.com/naka-gawa/gh-dashboard/internal/logging"
	"github.com/naka-gawa/gh-dashboard/internal/output"
	"github.com/naka-gawa/gh-dashboard/internal/usecase"
)

// app bundles the dependencies shared by all commands.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	verbose    bool
	aggregator *usecase.Aggregator
}

type appOptions struct {
	// repoLimit overrides the configured repository limit when non-zero.
	repoLimit int
	// server selects the long-running server logger.
	server bool
}

// newApp loads configuration and injects dependencies.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.repoLimit != 0 {
		if opts.repoLimit < 1 || opts.repoLimit > config.MaxLimit {
			return nil, fmt.Errorf("--limit must be between 1 and %d", config.MaxLimit)
		}
		cfg.GitHub.RepoLimit = opts.repoLimit
	}

	newLogger := logging.New
	if opts.server {
		newLogger = logging.NewServer
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	if cfg.GitHub.Token == "" {
		logger.Debug("GITHUB_TOKEN is not set, using unauthenticated requests")
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		verbose: verbose,
		aggregator: usecase.NewAggregator(githubGateway, logger, usecase.Options{
			RepoLimit:  cfg.GitHub.RepoLimit,
			IssueLimit: cfg.GitHub.IssueLimit,
		}),
	}, nil
}

// startSpinner shows progress on stderr when it is a terminal and debug logs
// are not already being written there. The returned func stops it.
func (a *app) startSpinner(msg string) func() {
	if a.verbose || !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

func (a *app) close() {
	_ = a.logger.Sync()
}

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatText     = "text"
)

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatMarkdown, formatText:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (use json, markdown or text)", format)
}

func writeDashboard(w io.Writer, format string, d *domain.Dashboard) error {
	switch format {
	case formatJSON:
		return output.WriteJSON(w, d)
	case formatMarkdown:
		return output.WriteMarkdown(w, *d)
	default:
		return output.WriteText(w, *d)
	}
}

func writeRepoReport(w io.Writer, format string, r *domain.RepoReport) error {
	switch format {
	case formatJSON:
		return output.WriteJSON(w, r)
	case formatMarkdown:
		return output.WriteRepoMarkdown(w, *r)
	default:
		return output.WriteRepoText(w, *r)
	}
}
