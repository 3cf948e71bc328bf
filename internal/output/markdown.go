package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/gh-dashboard/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	none       = "-"
)

// WriteMarkdown writes the dashboard as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, d domain.Dashboard) error {
	fmt.Fprintf(w, "# %s (@%s)\n\n", d.User.DisplayName(), d.User.Login)
	if d.User.Bio != "" {
		fmt.Fprintf(w, "> %s\n\n", d.User.Bio)
	}

	// Summary totals
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Repositories | %d |\n", d.Stats.TotalRepositories)
	fmt.Fprintf(w, "| Stars | %d |\n", d.Stats.TotalStars)
	fmt.Fprintf(w, "| Top language | %s |\n", d.Stats.TopLanguage)
	fmt.Fprintf(w, "| Mean stars | %.2f |\n", d.Stars.Mean)
	fmt.Fprintf(w, "| Median stars | %.1f |\n", d.Stars.Median)
	fmt.Fprintf(w, "| Public repositories | %d |\n", d.User.PublicRepos)
	fmt.Fprintf(w, "| Followers | %d |\n", d.User.Followers)
	fmt.Fprintf(w, "| Following | %d |\n\n", d.User.Following)

	// Languages, already ranked by the aggregator.
	fmt.Fprintf(w, "## Languages\n\n")
	if len(d.Stats.LanguageDistribution) == 0 {
		fmt.Fprintf(w, "No language data.\n\n")
	} else {
		fmt.Fprintf(w, "| Language | Repositories |\n")
		fmt.Fprintf(w, "|----------|-------------:|\n")
		for _, lc := range d.Stats.LanguageDistribution {
			fmt.Fprintf(w, "| %s | %d |\n", lc.Language, lc.Count)
		}
		fmt.Fprintln(w)
	}

	// Per repository
	fmt.Fprintf(w, "## Repositories\n\n")
	if len(d.Repositories) == 0 {
		fmt.Fprintf(w, "No repositories.\n")
		return nil
	}
	fmt.Fprintf(w, "| Repository | Language | Stars | Updated |\n")
	fmt.Fprintf(w, "|------------|----------|------:|---------|\n")
	for _, r := range d.Repositories {
		fmt.Fprintf(w, "| [%s](%s) | %s | %d | %s |\n",
			r.Name, r.HTMLURL, language(r), stars(r), updated(r))
	}
	fmt.Fprintln(w)

	return nil
}

// WriteRepoMarkdown writes a repository report as GitHub-flavored markdown to w.
func WriteRepoMarkdown(w io.Writer, report domain.RepoReport) error {
	d := report.Detail
	fmt.Fprintf(w, "# [%s](%s)\n\n", d.FullName, d.HTMLURL)
	if d.Description != "" {
		fmt.Fprintf(w, "%s\n\n", d.Description)
	}

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Stars | %d |\n", stars(d.Repository))
	fmt.Fprintf(w, "| Forks | %d |\n", d.Forks)
	fmt.Fprintf(w, "| Open issues | %d |\n", d.OpenIssues)
	fmt.Fprintf(w, "| Watchers | %d |\n", d.Watchers)
	fmt.Fprintf(w, "| Language | %s |\n", language(d.Repository))
	fmt.Fprintf(w, "| Default branch | %s |\n", orNone(d.DefaultBranch))
	fmt.Fprintf(w, "| License | %s |\n", orNone(d.License))
	fmt.Fprintf(w, "| Topics | %s |\n", orNone(strings.Join(d.Topics, ", ")))
	fmt.Fprintf(w, "| Archived | %t |\n", d.Archived)
	fmt.Fprintf(w, "| Updated | %s |\n\n", updated(d.Repository))

	fmt.Fprintf(w, "## Languages\n\n")
	if len(report.Languages) == 0 {
		fmt.Fprintf(w, "No language data.\n\n")
	} else {
		fmt.Fprintf(w, "| Language | Bytes | Share |\n")
		fmt.Fprintf(w, "|----------|------:|------:|\n")
		for _, l := range report.Languages {
			fmt.Fprintf(w, "| %s | %d | %.1f%% |\n", l.Language, l.Bytes, l.Percent)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Open issues\n\n")
	if len(report.Issues) == 0 {
		fmt.Fprintf(w, "No open issues.\n")
		return nil
	}
	fmt.Fprintf(w, "| # | Title | Author | Comments |\n")
	fmt.Fprintf(w, "|--:|-------|--------|---------:|\n")
	for _, is := range report.Issues {
		fmt.Fprintf(w, "| [%d](%s) | %s | %s | %d |\n",
			is.Number, is.HTMLURL, escapePipes(is.Title), is.Author, is.Comments)
	}
	fmt.Fprintln(w)

	return nil
}

func language(r domain.Repository) string {
	if r.Language == nil || *r.Language == "" {
		return none
	}
	return *r.Language
}

func stars(r domain.Repository) int {
	if r.StarCount == nil {
		return 0
	}
	return *r.StarCount
}

func updated(r domain.Repository) string {
	if r.UpdatedAt.IsZero() {
		return none
	}
	return r.UpdatedAt.Format(dateLayout)
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
