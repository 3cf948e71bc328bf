// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gh-dashboard/internal/config"
	"github.com/naka-gawa/gh-dashboard/internal/domain"
)

// defaultPageSize matches the page size the dashboard has always requested.
const defaultPageSize = 50

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (*domain.User, error)
	// FetchRepositories returns the user's repositories, most recently updated first.
	FetchRepositories(ctx context.Context, username string, limit int) ([]domain.Repository, error)
	FetchRepositoryDetail(ctx context.Context, owner, repo string) (*domain.RepositoryDetail, error)
	// FetchOpenIssues returns open issues, excluding pull requests.
	FetchOpenIssues(ctx context.Context, owner, repo string, limit int) ([]domain.Issue, error)
	// FetchLanguages returns the repository's languages by size, largest first.
	FetchLanguages(ctx context.Context, owner, repo string) ([]domain.LanguageShare, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	// authenticated reports whether a token is configured. GitHub's GraphQL
	// API rejects anonymous requests, so languages go through REST without one.
	authenticated bool
	logger        *zap.Logger
}

// repoLanguagesQuery fetches the language breakdown of a single repository.
type repoLanguagesQuery struct {
	Repository struct {
		Languages struct {
			TotalSize int
			Edges     []struct {
				Size int
				Node struct {
					Name string
				}
			}
		} `graphql:"languages(first: 100, orderBy: {field: SIZE, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(cfg config.GitHubConfig, logger *zap.Logger) (Fetcher, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	restClient := github.NewClient(httpClient)
	apiURL := cfg.APIURL
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
	}
	restClient.BaseURL = baseURL

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient),
		authenticated: cfg.Token != "",
		logger:        logger,
	}, nil
}

// newHTTPClient layers, outermost first: token auth, response caching and
// the secondary rate limit waiter.
func newHTTPClient(cfg config.GitHubConfig) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var cache httpcache.Cache
	if cfg.CacheDir != "" {
		cache = diskcache.New(cfg.CacheDir)
	} else {
		cache, err = newMemoryCache(cfg.CacheEntries)
		if err != nil {
			return nil, err
		}
	}
	cacheTransport := httpcache.NewTransport(cache)
	cacheTransport.Transport = rateLimitWaiter
	cacheTransport.MarkCachedResponses = true

	if cfg.Token == "" {
		return &http.Client{Transport: cacheTransport}, nil
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   cacheTransport,
			Source: ts,
		},
	}, nil
}

func (g *GitHubGateway) FetchUser(ctx context.Context, username string) (*domain.User, error) {
	g.logger.Debug("fetching user profile", zap.String("user", username))
	u, _, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("failed to fetch user %s", username), err)
	}
	return &domain.User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
	}, nil
}

func (g *GitHubGateway) FetchRepositories(ctx context.Context, username string, limit int) ([]domain.Repository, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	g.logger.Debug("fetching repositories", zap.String("user", username), zap.Int("limit", limit))
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: limit},
	}
	repos, _, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("failed to list repositories of %s", username), err)
	}

	result := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, toRepository(r))
	}
	g.logger.Debug("fetched repositories", zap.String("user", username), zap.Int("count", len(result)))
	return result, nil
}

func (g *GitHubGateway) FetchRepositoryDetail(ctx context.Context, owner, repo string) (*domain.RepositoryDetail, error) {
	g.logger.Debug("fetching repository detail", zap.String("owner", owner), zap.String("repo", repo))
	r, _, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("failed to fetch repository %s/%s", owner, repo), err)
	}
	return &domain.RepositoryDetail{
		Repository:    toRepository(r),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Watchers:      r.GetWatchersCount(),
		DefaultBranch: r.GetDefaultBranch(),
		License:       r.GetLicense().GetSPDXID(),
		Topics:        r.Topics,
		Archived:      r.GetArchived(),
		Fork:          r.GetFork(),
	}, nil
}

func (g *GitHubGateway) FetchOpenIssues(ctx context.Context, owner, repo string, limit int) ([]domain.Issue, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	g.logger.Debug("fetching open issues", zap.String("owner", owner), zap.String("repo", repo))
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: limit},
	}
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("failed to list issues of %s/%s", owner, repo), err)
	}

	result := make([]domain.Issue, 0, len(issues))
	for _, is := range issues {
		// The issues endpoint also returns pull requests.
		if is.IsPullRequest() {
			continue
		}
		result = append(result, domain.Issue{
			ID:              is.GetID(),
			Number:          is.GetNumber(),
			Title:           is.GetTitle(),
			State:           is.GetState(),
			Author:          is.GetUser().GetLogin(),
			AuthorAvatarURL: is.GetUser().GetAvatarURL(),
			Comments:        is.GetComments(),
			HTMLURL:         is.GetHTMLURL(),
		})
	}
	return result, nil
}

// FetchLanguages uses GraphQL when authenticated and the REST languages
// endpoint otherwise.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) ([]domain.LanguageShare, error) {
	if !g.authenticated {
		return g.fetchLanguagesREST(ctx, owner, repo)
	}

	g.logger.Debug("fetching languages using GraphQL API", zap.String("owner", owner), zap.String("repo", repo))
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	var q repoLanguagesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		op := fmt.Sprintf("failed to execute GraphQL query for languages of %s/%s", owner, repo)
		if strings.Contains(err.Error(), "Could not resolve") {
			return nil, domain.NewNotFound(op, err)
		}
		return nil, classifyError(op, err)
	}

	sizes := make([]languageSize, 0, len(q.Repository.Languages.Edges))
	for _, edge := range q.Repository.Languages.Edges {
		sizes = append(sizes, languageSize{name: edge.Node.Name, bytes: edge.Size})
	}
	return toShares(sizes, q.Repository.Languages.TotalSize), nil
}

func (g *GitHubGateway) fetchLanguagesREST(ctx context.Context, owner, repo string) ([]domain.LanguageShare, error) {
	g.logger.Debug("fetching languages using REST API", zap.String("owner", owner), zap.String("repo", repo))
	langs, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("failed to list languages of %s/%s", owner, repo), err)
	}

	sizes := make([]languageSize, 0, len(langs))
	total := 0
	for name, bytes := range langs {
		sizes = append(sizes, languageSize{name: name, bytes: bytes})
		total += bytes
	}
	// Map iteration order is random; sort by size, then name, for consistent output.
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].bytes != sizes[j].bytes {
			return sizes[i].bytes > sizes[j].bytes
		}
		return sizes[i].name < sizes[j].name
	})
	return toShares(sizes, total), nil
}

type languageSize struct {
	name  string
	bytes int
}

func toShares(sizes []languageSize, total int) []domain.LanguageShare {
	shares := make([]domain.LanguageShare, 0, len(sizes))
	for _, s := range sizes {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(s.bytes)*1000/float64(total)) / 10
		}
		shares = append(shares, domain.LanguageShare{Language: s.name, Bytes: s.bytes, Percent: pct})
	}
	return shares
}

func toRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		StarCount:   r.StargazersCount,
		Language:    r.Language,
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}

// classifyError maps client errors onto domain errors so callers can tell a
// missing user from an exhausted rate limit.
func classifyError(op string, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return domain.NewRateLimited(op, err)
	case errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound:
		return domain.NewNotFound(op, err)
	}
	return domain.NewUpstream(op, err)
}
