package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-enry/go-enry/v2"

	"github.com/naka-gawa/gh-dashboard/internal/domain"
)

// barWidth is the length of the bar for the most frequent language.
const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// WriteText writes the dashboard as a terminal view with one colored bar per language.
func WriteText(w io.Writer, d domain.Dashboard) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (@%s)", d.User.DisplayName(), d.User.Login)))
	if d.User.Bio != "" {
		fmt.Fprintln(w, labelStyle.Render(d.User.Bio))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		labelStyle.Render("Repositories"), valueStyle.Render(fmt.Sprint(d.Stats.TotalRepositories)),
		labelStyle.Render("Stars"), valueStyle.Render(fmt.Sprint(d.Stats.TotalStars)),
		labelStyle.Render("Top language"), valueStyle.Render(d.Stats.TopLanguage),
	)
	fmt.Fprintf(w, "%s %s   %s %s\n",
		labelStyle.Render("Followers"), valueStyle.Render(fmt.Sprint(d.User.Followers)),
		labelStyle.Render("Following"), valueStyle.Render(fmt.Sprint(d.User.Following)),
	)
	if d.LastUpdated != nil {
		fmt.Fprintf(w, "%s %s (%s)\n",
			labelStyle.Render("Last updated"), valueStyle.Render(d.LastUpdated.Name), updated(*d.LastUpdated))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Languages"))
	dist := d.Stats.LanguageDistribution
	if len(dist) == 0 {
		fmt.Fprintln(w, labelStyle.Render("  No language data"))
		return nil
	}
	// The first entry holds the highest count.
	maxCount := dist[0].Count
	nameWidth := 0
	for _, lc := range dist {
		nameWidth = max(nameWidth, len(lc.Language))
	}
	for _, lc := range dist {
		fmt.Fprintf(w, "  %-*s %s %d\n", nameWidth, lc.Language, bar(lc.Language, lc.Count, maxCount), lc.Count)
	}
	return nil
}

// WriteRepoText writes a repository report as a terminal view.
func WriteRepoText(w io.Writer, report domain.RepoReport) error {
	d := report.Detail
	fmt.Fprintln(w, titleStyle.Render(d.FullName))
	if d.Description != "" {
		fmt.Fprintln(w, labelStyle.Render(d.Description))
	}
	fmt.Fprintln(w)

	fields := []struct{ label, value string }{
		{"Stars", fmt.Sprint(stars(d.Repository))},
		{"Forks", fmt.Sprint(d.Forks)},
		{"Open issues", fmt.Sprint(d.OpenIssues)},
		{"Watchers", fmt.Sprint(d.Watchers)},
		{"Language", language(d.Repository)},
		{"Default branch", orNone(d.DefaultBranch)},
		{"License", orNone(d.License)},
		{"Topics", orNone(strings.Join(d.Topics, ", "))},
		{"Updated", updated(d.Repository)},
		{"URL", d.HTMLURL},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", f.label)), f.value)
	}
	if d.Archived {
		fmt.Fprintln(w, "  "+valueStyle.Render("archived"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Languages"))
	if len(report.Languages) == 0 {
		fmt.Fprintln(w, labelStyle.Render("  No language data"))
	}
	nameWidth := 0
	for _, l := range report.Languages {
		nameWidth = max(nameWidth, len(l.Language))
	}
	for _, l := range report.Languages {
		fmt.Fprintf(w, "  %-*s %s %5.1f%%\n", nameWidth, l.Language,
			bar(l.Language, int(l.Percent*10), 1000), l.Percent)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Open issues (%d)", len(report.Issues))))
	for _, is := range report.Issues {
		fmt.Fprintf(w, "  #%-5d %s %s\n", is.Number, is.Title,
			labelStyle.Render(fmt.Sprintf("@%s, %d comments", is.Author, is.Comments)))
	}
	return nil
}

// bar renders value scaled against maxValue in the language's linguist color.
// Non-zero values always get at least one cell.
func bar(lang string, value, maxValue int) string {
	n := 0
	if maxValue > 0 {
		n = value * barWidth / maxValue
	}
	if n == 0 && value > 0 {
		n = 1
	}
	n = min(max(n, 0), barWidth)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(enry.GetColor(lang)))
	return style.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n)
}
