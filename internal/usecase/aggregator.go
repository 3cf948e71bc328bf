// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gh-dashboard/internal/domain"
	"github.com/naka-gawa/gh-dashboard/internal/gateway"
)

const defaultLimit = 50

// Options tunes how much data is fetched per request.
type Options struct {
	RepoLimit  int
	IssueLimit int
}

// Aggregator is the use case for building GitHub dashboards.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *zap.Logger
	opts    Options
}

// NewAggregator creates a new Aggregator instance. Zero limits fall back to 50.
func NewAggregator(fetcher gateway.Fetcher, logger *zap.Logger, opts Options) *Aggregator {
	if opts.RepoLimit <= 0 {
		opts.RepoLimit = defaultLimit
	}
	if opts.IssueLimit <= 0 {
		opts.IssueLimit = defaultLimit
	}
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts,
	}
}

// Dashboard fetches the user's profile and repositories concurrently and
// aggregates the repositories into summary statistics.
func (a *Aggregator) Dashboard(ctx context.Context, username string) (*domain.Dashboard, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewBadRequest("username is required")
	}
	a.logger.Debug("starting dashboard aggregation", zap.String("user", username))

	var user *domain.User
	var repos []domain.Repository

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		user, err = a.fetcher.FetchUser(egCtx, username)
		return err
	})

	eg.Go(func() error {
		var err error
		repos, err = a.fetcher.FetchRepositories(egCtx, username, a.opts.RepoLimit)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if repos == nil {
		repos = []domain.Repository{}
	}

	summaries := domain.Summaries(repos)
	dashboard := &domain.Dashboard{
		User:         *user,
		Repositories: repos,
		Stats:        domain.ComputeStats(summaries),
		Stars:        domain.SummarizeStars(summaries),
	}
	// Repositories arrive sorted by last update.
	if len(repos) > 0 {
		last := repos[0]
		dashboard.LastUpdated = &last
	}

	a.logger.Debug("dashboard aggregation complete",
		zap.String("user", username),
		zap.Int("repositories", dashboard.Stats.TotalRepositories),
		zap.String("top_language", dashboard.Stats.TopLanguage),
	)
	return dashboard, nil
}

// Stats aggregates the user's repositories without fetching the profile.
func (a *Aggregator) Stats(ctx context.Context, username string) (domain.AggregateStats, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.AggregateStats{}, domain.NewBadRequest("username is required")
	}

	repos, err := a.fetcher.FetchRepositories(ctx, username, a.opts.RepoLimit)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	return domain.ComputeStats(domain.Summaries(repos)), nil
}

// Repository fetches a repository's metadata, languages and open issues concurrently.
func (a *Aggregator) Repository(ctx context.Context, owner, repo string) (*domain.RepoReport, error) {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, domain.NewBadRequest("owner and repository name are required")
	}
	a.logger.Debug("starting repository report", zap.String("owner", owner), zap.String("repo", repo))

	var detail *domain.RepositoryDetail
	var languages []domain.LanguageShare
	var issues []domain.Issue

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		detail, err = a.fetcher.FetchRepositoryDetail(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		languages, err = a.fetcher.FetchLanguages(egCtx, owner, repo)
		return err
	})

	eg.Go(func() error {
		var err error
		issues, err = a.fetcher.FetchOpenIssues(egCtx, owner, repo, a.opts.IssueLimit)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Encode empty results as [] rather than null.
	if languages == nil {
		languages = []domain.LanguageShare{}
	}
	if issues == nil {
		issues = []domain.Issue{}
	}

	a.logger.Debug("repository report complete", zap.String("repo", detail.FullName))
	return &domain.RepoReport{
		Detail:    *detail,
		Languages: languages,
		Issues:    issues,
	}, nil
}
