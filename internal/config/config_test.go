package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name           string
		env            map[string]string
		expected       *Config
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			expected: &Config{
				GitHub: GitHubConfig{
					APIURL:       DefaultAPIURL,
					GraphQLURL:   DefaultGraphQLURL,
					CacheEntries: DefaultCacheEntries,
					RepoLimit:    DefaultLimit,
					IssueLimit:   DefaultLimit,
				},
				HTTP: HTTPConfig{Addr: ":8080"},
			},
		},
		{
			name: "overrides from environment",
			env: map[string]string{
				"GITHUB_TOKEN":               "secret",
				"GITHUB_API_URL":             "https://ghe.example.com/api/v3/",
				"GITHUB_GRAPHQL_URL":         "https://ghe.example.com/api/graphql",
				"GH_DASHBOARD_CACHE_DIR":     "/tmp/gh-cache",
				"GH_DASHBOARD_CACHE_ENTRIES": "64",
				"GH_DASHBOARD_REPO_LIMIT":    "100",
				"GH_DASHBOARD_ISSUE_LIMIT":   "10",
				"HTTP_ADDR":                  "127.0.0.1:9000",
			},
			expected: &Config{
				GitHub: GitHubConfig{
					Token:        "secret",
					APIURL:       "https://ghe.example.com/api/v3/",
					GraphQLURL:   "https://ghe.example.com/api/graphql",
					CacheDir:     "/tmp/gh-cache",
					CacheEntries: 64,
					RepoLimit:    100,
					IssueLimit:   10,
				},
				HTTP: HTTPConfig{Addr: "127.0.0.1:9000"},
			},
		},
		{
			name:           "non-numeric limit",
			env:            map[string]string{"GH_DASHBOARD_REPO_LIMIT": "many"},
			expectError:    true,
			expectedErrMsg: "GH_DASHBOARD_REPO_LIMIT must be an integer",
		},
		{
			name:           "limit above the GitHub page cap",
			env:            map[string]string{"GH_DASHBOARD_ISSUE_LIMIT": "101"},
			expectError:    true,
			expectedErrMsg: "GH_DASHBOARD_ISSUE_LIMIT must be between 1 and 100",
		},
		{
			name:           "zero limit",
			env:            map[string]string{"GH_DASHBOARD_REPO_LIMIT": "0"},
			expectError:    true,
			expectedErrMsg: "configuration validation failed",
		},
		{
			name:           "non-positive cache size",
			env:            map[string]string{"GH_DASHBOARD_CACHE_ENTRIES": "0"},
			expectError:    true,
			expectedErrMsg: "GH_DASHBOARD_CACHE_ENTRIES must be positive",
		},
		{
			name:           "API URL without scheme",
			env:            map[string]string{"GITHUB_API_URL": "api.github.com"},
			expectError:    true,
			expectedErrMsg: "GITHUB_API_URL must be an absolute URL",
		},
		{
			name:           "malformed GraphQL URL",
			env:            map[string]string{"GITHUB_GRAPHQL_URL": "https://ghe example.com/%zz"},
			expectError:    true,
			expectedErrMsg: "GITHUB_GRAPHQL_URL is not a valid URL",
		},
	}

	keys := []string{
		"GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_GRAPHQL_URL", "GH_DASHBOARD_CACHE_DIR",
		"GH_DASHBOARD_CACHE_ENTRIES", "GH_DASHBOARD_REPO_LIMIT", "GH_DASHBOARD_ISSUE_LIMIT", "HTTP_ADDR",
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Run from an empty directory so no stray .env is picked up.
			chdir(t, t.TempDir())
			for _, k := range keys {
				t.Setenv(k, tc.env[k])
			}

			cfg, err := Load()
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, cfg)
			}
		})
	}
}

// chdir changes the working directory to dir for the duration of the test,
// restoring the previous directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
