package domain

import "time"

// User is a GitHub account profile.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// DisplayName returns the user's name, or the login when no name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Repository is a repository as returned by a listing endpoint.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	HTMLURL     string    `json:"html_url"`
	StarCount   *int      `json:"stargazers_count"`
	Language    *string   `json:"language"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary returns the fields of r that feed ComputeStats.
func (r Repository) Summary() RepositorySummary {
	return RepositorySummary{
		StarCount:       r.StarCount,
		PrimaryLanguage: r.Language,
	}
}

// Summaries maps repos to their summaries, preserving order.
func Summaries(repos []Repository) []RepositorySummary {
	out := make([]RepositorySummary, len(repos))
	for i, r := range repos {
		out[i] = r.Summary()
	}
	return out
}

// RepositoryDetail is the full metadata of a single repository.
type RepositoryDetail struct {
	Repository
	Forks         int      `json:"forks_count"`
	OpenIssues    int      `json:"open_issues_count"`
	Watchers      int      `json:"watchers_count"`
	DefaultBranch string   `json:"default_branch"`
	License       string   `json:"license,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Archived      bool     `json:"archived"`
	Fork          bool     `json:"fork"`
}

// Issue is an open issue of a repository.
type Issue struct {
	ID              int64  `json:"id"`
	Number          int    `json:"number"`
	Title           string `json:"title"`
	State           string `json:"state"`
	Author          string `json:"author"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
	Comments        int    `json:"comments"`
	HTMLURL         string `json:"html_url"`
}

// LanguageShare is the portion of a repository's code written in Language.
type LanguageShare struct {
	Language string  `json:"language"`
	Bytes    int     `json:"bytes"`
	Percent  float64 `json:"percent"`
}

// Dashboard is everything shown for a single user.
type Dashboard struct {
	User         User           `json:"user"`
	Repositories []Repository   `json:"repositories"`
	Stats        AggregateStats `json:"stats"`
	Stars        StarSummary    `json:"stars"`
	// LastUpdated is the most recently updated repository, nil if there are none.
	LastUpdated *Repository `json:"last_updated,omitempty"`
}

// RepoReport is everything shown for a single repository.
type RepoReport struct {
	Detail    RepositoryDetail `json:"detail"`
	Languages []LanguageShare  `json:"languages"`
	Issues    []Issue          `json:"issues"`
}
