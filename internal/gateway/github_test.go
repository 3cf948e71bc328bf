package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naka-gawa/gh-dashboard/internal/config"
	"github.com/naka-gawa/gh-dashboard/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler, authenticated bool) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		authenticated: authenticated,
		logger:        zap.NewNop(),
	}

	return gateway, server
}

func TestGitHubGateway_FetchUser(t *testing.T) {
	testCases := []struct {
		name         string
		handlerFunc  func(w http.ResponseWriter, r *http.Request)
		expectedUser *domain.User
		expectedCode domain.ErrorCode
	}{
		{
			name: "happy path - fetches the profile",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/octocat", r.URL.Path)
				fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","bio":"mascot","avatar_url":"https://avatars.example/1","html_url":"https://github.com/octocat","public_repos":8,"followers":100,"following":3}`)
			},
			expectedUser: &domain.User{
				Login:       "octocat",
				Name:        "The Octocat",
				Bio:         "mascot",
				AvatarURL:   "https://avatars.example/1",
				HTMLURL:     "https://github.com/octocat",
				PublicRepos: 8,
				Followers:   100,
				Following:   3,
			},
		},
		{
			name: "error case - unknown user",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
			},
			expectedCode: domain.ErrorCodeNotFound,
		},
		{
			name: "error case - primary rate limit exhausted",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
			},
			expectedCode: domain.ErrorCodeRateLimited,
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectedCode: domain.ErrorCodeUpstream,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc), false)
			defer server.Close()

			user, err := gateway.FetchUser(context.Background(), "octocat")
			if tc.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectedCode, domain.CodeOf(err))
				assert.Contains(t, err.Error(), "failed to fetch user octocat")
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedUser, user)
			}
		})
	}
}

func TestGitHubGateway_FetchRepositories(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[
			{"id":1,"name":"hello","full_name":"octocat/hello","stargazers_count":10,"language":"Go","updated_at":"2024-05-01T00:00:00Z","html_url":"https://github.com/octocat/hello"},
			{"id":2,"name":"notes","full_name":"octocat/notes","description":"plain text","language":null}
		]`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler), false)
	defer server.Close()

	repos, err := gateway.FetchRepositories(context.Background(), "octocat", 0)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, int64(1), repos[0].ID)
	assert.Equal(t, "octocat/hello", repos[0].FullName)
	require.NotNil(t, repos[0].StarCount)
	assert.Equal(t, 10, *repos[0].StarCount)
	require.NotNil(t, repos[0].Language)
	assert.Equal(t, "Go", *repos[0].Language)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), repos[0].UpdatedAt.UTC())

	// Missing fields stay absent so the aggregator can treat them as such.
	assert.Nil(t, repos[1].StarCount)
	assert.Nil(t, repos[1].Language)
	assert.Equal(t, "plain text", repos[1].Description)
}

func TestGitHubGateway_FetchRepositoryDetail(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello", r.URL.Path)
		fmt.Fprint(w, `{"id":1,"name":"hello","full_name":"octocat/hello","stargazers_count":5,"forks_count":2,
			"open_issues_count":1,"watchers_count":5,"language":"Go","default_branch":"main",
			"license":{"key":"mit","spdx_id":"MIT"},"topics":["cli","github"],"archived":true,"fork":false,
			"html_url":"https://github.com/octocat/hello"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler), false)
	defer server.Close()

	detail, err := gateway.FetchRepositoryDetail(context.Background(), "octocat", "hello")
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello", detail.FullName)
	assert.Equal(t, 2, detail.Forks)
	assert.Equal(t, 1, detail.OpenIssues)
	assert.Equal(t, 5, detail.Watchers)
	assert.Equal(t, "main", detail.DefaultBranch)
	assert.Equal(t, "MIT", detail.License)
	assert.Equal(t, []string{"cli", "github"}, detail.Topics)
	assert.True(t, detail.Archived)
	assert.False(t, detail.Fork)
}

func TestGitHubGateway_FetchOpenIssues(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello/issues", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[
			{"id":11,"number":3,"title":"Crash on start","state":"open","comments":2,"html_url":"https://github.com/octocat/hello/issues/3","user":{"login":"alice","avatar_url":"https://avatars.example/a"}},
			{"id":12,"number":4,"title":"Add flag","state":"open","user":{"login":"bob"},"pull_request":{"url":"https://api.github.com/repos/octocat/hello/pulls/4"}}
		]`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler), false)
	defer server.Close()

	issues, err := gateway.FetchOpenIssues(context.Background(), "octocat", "hello", 10)
	require.NoError(t, err)

	assert.Equal(t, []domain.Issue{
		{
			ID:              11,
			Number:          3,
			Title:           "Crash on start",
			State:           "open",
			Author:          "alice",
			AuthorAvatarURL: "https://avatars.example/a",
			Comments:        2,
			HTMLURL:         "https://github.com/octocat/hello/issues/3",
		},
	}, issues)
}

func TestGitHubGateway_FetchLanguages(t *testing.T) {
	testCases := []struct {
		name           string
		authenticated  bool
		handlerFunc    func(t *testing.T) http.HandlerFunc
		expected       []domain.LanguageShare
		expectedCode   domain.ErrorCode
		expectedErrMsg string
	}{
		{
			name:          "REST - sorts by size then name when unauthenticated",
			authenticated: false,
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/repos/octocat/hello/languages", r.URL.Path)
					fmt.Fprint(w, `{"Shell":100,"Go":300,"Makefile":100}`)
				}
			},
			expected: []domain.LanguageShare{
				{Language: "Go", Bytes: 300, Percent: 60},
				{Language: "Makefile", Bytes: 100, Percent: 20},
				{Language: "Shell", Bytes: 100, Percent: 20},
			},
		},
		{
			name:          "REST - repository without code",
			authenticated: false,
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					fmt.Fprint(w, `{}`)
				}
			},
			expected: []domain.LanguageShare{},
		},
		{
			name:          "GraphQL - keeps server order when authenticated",
			authenticated: true,
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					body, err := io.ReadAll(r.Body)
					require.NoError(t, err)
					assert.Contains(t, string(body), "languages(first: 100")
					assert.Contains(t, string(body), `"owner":"octocat"`)
					fmt.Fprint(w, `{"data":{"repository":{"languages":{"totalSize":300,"edges":[{"size":200,"node":{"name":"TypeScript"}},{"size":99,"node":{"name":"CSS"}},{"size":1,"node":{"name":"HTML"}}]}}}}`)
				}
			},
			expected: []domain.LanguageShare{
				{Language: "TypeScript", Bytes: 200, Percent: 66.7},
				{Language: "CSS", Bytes: 99, Percent: 33},
				{Language: "HTML", Bytes: 1, Percent: 0.3},
			},
		},
		{
			name:          "GraphQL - unknown repository",
			authenticated: true,
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					fmt.Fprint(w, `{"data":{"repository":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a Repository with the name 'octocat/hello'."}]}`)
				}
			},
			expectedCode:   domain.ErrorCodeNotFound,
			expectedErrMsg: "failed to execute GraphQL query",
		},
		{
			name:          "GraphQL - other errors",
			authenticated: true,
			handlerFunc: func(t *testing.T) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					fmt.Fprint(w, `{"errors":[{"message":"Something went wrong"}]}`)
				}
			},
			expectedCode:   domain.ErrorCodeUpstream,
			expectedErrMsg: "failed to execute GraphQL query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, tc.handlerFunc(t), tc.authenticated)
			defer server.Close()

			shares, err := gateway.FetchLanguages(context.Background(), "octocat", "hello")
			if tc.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectedCode, domain.CodeOf(err))
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, shares)
			}
		})
	}
}

func TestNewHTTPClient_CachesAndAuthenticates(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Cache-Control", "max-age=60")
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer server.Close()

	client, err := newHTTPClient(config.GitHubConfig{Token: "secret"})
	require.NoError(t, err)

	get := func() *http.Response {
		resp, err := client.Get(server.URL + "/users/octocat")
		require.NoError(t, err)
		_, err = io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		return resp
	}

	first := get()
	assert.Empty(t, first.Header.Get(httpcache.XFromCache))

	second := get()
	assert.Equal(t, "1", second.Header.Get(httpcache.XFromCache))
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewGitHubGateway(t *testing.T) {
	fetcher, err := NewGitHubGateway(config.GitHubConfig{
		APIURL:     "https://ghe.example.com/api/v3",
		GraphQLURL: "https://ghe.example.com/api/graphql",
		CacheDir:   t.TempDir(),
	}, zap.NewNop())
	require.NoError(t, err)

	gw, ok := fetcher.(*GitHubGateway)
	require.True(t, ok)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gw.restClient.BaseURL.String())
	assert.False(t, gw.authenticated)
}
