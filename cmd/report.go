package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/query"
	"github.com/Tiliavir/work-journal/internal/timecalc"
)

var (
	reportFrom   string
	reportTo     string
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"report"},
	Short:   "Show a cross-project activity summary (default this week)",
	Args:    cobra.NoArgs,
	RunE:    runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start of range (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End of range (YYYY-MM-DD, default today)")
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Summarize this week (default without --from)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	label := ""
	week := reportWeek || (reportFrom == "" && reportTo == "")
	if week {
		label = "Week " + timecalc.ISOWeekLabel(now)
	}

	from, to, err := dateRange(reportFrom, reportTo, week, now)
	if err != nil {
		return err
	}
	if to == "" {
		to = store.Today()
	}
	if from == "" {
		if dates := store.Dates(); len(dates) > 0 {
			from = dates[0]
		} else {
			from = to
		}
	}
	if label == "" {
		label = from + " – " + to
	}

	summary := engine().Summarize(from, to)
	w := cmd.OutOrStdout()

	switch reportFormat {
	case "csv":
		printSummaryCSV(w, summary)
	case "json":
		return writeJSON(w, summary)
	case "md":
		printSummaryMarkdown(w, label, summary)
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", reportFormat)
	}
	return nil
}

func printSummaryCSV(w io.Writer, s query.CrossProjectSummary) {
	fmt.Fprintln(w, "project,repo_path,commits,active_days,insertions,deletions,branches")
	for _, p := range s.Projects {
		fmt.Fprintf(w, "%s,%s,%d,%d,%d,%d,%s\n",
			csvEscape(p.ProjectID),
			csvEscape(p.RepoPath),
			p.TotalCommits,
			p.ActiveDays,
			p.DiffStats.Insertions,
			p.DiffStats.Deletions,
			csvEscape(strings.Join(p.Branches, " ")),
		)
	}
}

func printSummaryMarkdown(w io.Writer, label string, s query.CrossProjectSummary) {
	fmt.Fprintf(w, "# %s\n\n", label)
	if len(s.Projects) == 0 {
		fmt.Fprintln(w, "No recorded work activity.")
		return
	}
	fmt.Fprintf(w, "%d commits across %d projects on %d active days.\n",
		s.TotalCommits, len(s.Projects), s.TotalActiveDays)

	for _, p := range s.Projects {
		fmt.Fprintf(w, "\n## %s\n\n", p.ProjectID)
		fmt.Fprintf(w, "- Commits: %d on %d days (+%d -%d)\n",
			p.TotalCommits, p.ActiveDays, p.DiffStats.Insertions, p.DiffStats.Deletions)
		if len(p.Branches) > 0 {
			fmt.Fprintf(w, "- Branches: %s\n", strings.Join(p.Branches, ", "))
		}
		if len(p.Categories) > 0 {
			parts := make([]string, 0, len(p.Categories))
			for _, c := range p.Categories {
				parts = append(parts, fmt.Sprintf("%s %.0f%%", c.Name, c.Percentage))
			}
			fmt.Fprintf(w, "- Areas: %s\n", strings.Join(parts, ", "))
		}
		if len(p.TopFiles) > 0 {
			fmt.Fprintln(w, "- Top files:")
			for _, f := range p.TopFiles {
				fmt.Fprintf(w, "  - %s (%d)\n", f.Path, f.Frequency)
			}
		}
	}
}
