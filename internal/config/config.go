// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "https://api.github.com/"
	DefaultGraphQLURL = "https://api.github.com/graphql"
	DefaultLimit      = 50
	// DefaultCacheEntries bounds the in-memory response cache.
	DefaultCacheEntries = 512
	// MaxLimit is the largest page size the GitHub REST API accepts.
	MaxLimit = 100
)

// Config holds all configuration for the application
type Config struct {
	GitHub GitHubConfig
	HTTP   HTTPConfig
}

// GitHubConfig holds GitHub API configuration
type GitHubConfig struct {
	// Token is optional; unauthenticated requests have a lower rate limit
	// and per-repository languages fall back to the REST API.
	Token      string
	APIURL     string
	GraphQLURL string
	CacheDir   string
	// CacheEntries caps the in-memory cache used when CacheDir is empty.
	CacheEntries int
	RepoLimit    int
	IssueLimit   int
}

// HTTPConfig holds server configuration
type HTTPConfig struct {
	Addr string
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	repoLimit, err := getEnvAsInt("GH_DASHBOARD_REPO_LIMIT", DefaultLimit)
	if err != nil {
		return nil, err
	}
	issueLimit, err := getEnvAsInt("GH_DASHBOARD_ISSUE_LIMIT", DefaultLimit)
	if err != nil {
		return nil, err
	}
	cacheEntries, err := getEnvAsInt("GH_DASHBOARD_CACHE_ENTRIES", DefaultCacheEntries)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GitHub: GitHubConfig{
			Token:        os.Getenv("GITHUB_TOKEN"),
			APIURL:       getEnv("GITHUB_API_URL", DefaultAPIURL),
			GraphQLURL:   getEnv("GITHUB_GRAPHQL_URL", DefaultGraphQLURL),
			CacheDir:     os.Getenv("GH_DASHBOARD_CACHE_DIR"),
			CacheEntries: cacheEntries,
			RepoLimit:    repoLimit,
			IssueLimit:   issueLimit,
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateLimit("GH_DASHBOARD_REPO_LIMIT", c.GitHub.RepoLimit); err != nil {
		return err
	}
	if err := validateLimit("GH_DASHBOARD_ISSUE_LIMIT", c.GitHub.IssueLimit); err != nil {
		return err
	}
	if c.GitHub.CacheEntries < 1 {
		return fmt.Errorf("GH_DASHBOARD_CACHE_ENTRIES must be positive, got %d", c.GitHub.CacheEntries)
	}
	if err := validateURL("GITHUB_API_URL", c.GitHub.APIURL); err != nil {
		return err
	}
	if err := validateURL("GITHUB_GRAPHQL_URL", c.GitHub.GraphQLURL); err != nil {
		return err
	}
	return nil
}

// validateURL requires an absolute URL with a scheme and a host.
func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL with scheme and host, got %q", key, raw)
	}
	return nil
}

func validateLimit(key string, v int) error {
	if v < 1 || v > MaxLimit {
		return fmt.Errorf("%s must be between 1 and %d, got %d", key, MaxLimit, v)
	}
	return nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
