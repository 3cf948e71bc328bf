// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// UnknownLanguage is reported as the top language when no repository has one.
const UnknownLanguage = "Unknown"

// RepositorySummary is the minimal view of a repository needed for aggregation.
// A nil field means GitHub did not report a value.
type RepositorySummary struct {
	StarCount       *int
	PrimaryLanguage *string
}

// LanguageCount is the number of repositories whose primary language is Language.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// AggregateStats summarizes a list of repositories.
// It is the core domain entity of this application.
type AggregateStats struct {
	TotalRepositories    int             `json:"total_repositories"`
	TotalStars           int             `json:"total_stars"`
	TopLanguage          string          `json:"top_language"`
	LanguageDistribution []LanguageCount `json:"language_distribution"`
}

// ComputeStats aggregates repositories into an AggregateStats.
// LanguageDistribution is sorted by count, highest first; languages with equal
// counts keep the order in which they first appear in repos.
func ComputeStats(repos []RepositorySummary) AggregateStats {
	result := AggregateStats{
		TotalRepositories:    len(repos),
		TopLanguage:          UnknownLanguage,
		LanguageDistribution: make([]LanguageCount, 0),
	}

	index := make(map[string]int)
	for _, r := range repos {
		if r.StarCount != nil {
			result.TotalStars += *r.StarCount
		}
		if r.PrimaryLanguage == nil || *r.PrimaryLanguage == "" {
			continue
		}
		lang := *r.PrimaryLanguage
		i, ok := index[lang]
		if !ok {
			i = len(result.LanguageDistribution)
			index[lang] = i
			result.LanguageDistribution = append(result.LanguageDistribution, LanguageCount{Language: lang})
		}
		result.LanguageDistribution[i].Count++
	}

	sort.SliceStable(result.LanguageDistribution, func(i, j int) bool {
		return result.LanguageDistribution[i].Count > result.LanguageDistribution[j].Count
	})

	if len(result.LanguageDistribution) > 0 {
		result.TopLanguage = result.LanguageDistribution[0].Language
	}
	return result
}

// StarSummary describes how stars are spread across repositories.
type StarSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
}

// SummarizeStars computes mean, median and max star counts. Absent counts are zero.
func SummarizeStars(repos []RepositorySummary) StarSummary {
	if len(repos) == 0 {
		return StarSummary{}
	}

	data := make(stats.Float64Data, 0, len(repos))
	for _, r := range repos {
		var n int
		if r.StarCount != nil {
			n = *r.StarCount
		}
		data = append(data, float64(n))
	}

	// Errors only occur on empty input, which is handled above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	maxStars, _ := data.Max()
	mean, _ = stats.Round(mean, 2)

	return StarSummary{
		Mean:   mean,
		Median: median,
		Max:    int(maxStars),
	}
}
