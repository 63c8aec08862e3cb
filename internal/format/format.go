// Package format renders snapshots as plain text for terminals and prompts.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Tiliavir/work-journal/internal/model"
)

// MaxPromptCommits caps the commits listed per snapshot in PromptContext.
const MaxPromptCommits = 15

// Summary renders one snapshot for terminal display.
func Summary(s model.WorkSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", s.Date, s.ProjectID)
	if s.RepoPath != "" {
		fmt.Fprintf(&b, "  Repo:     %s\n", s.RepoPath)
	}
	if s.CurrentBranch != "" {
		fmt.Fprintf(&b, "  Branch:   %s\n", s.CurrentBranch)
	}
	if len(s.ActiveBranches) > 0 {
		names := make([]string, 0, len(s.ActiveBranches))
		for _, br := range s.ActiveBranches {
			names = append(names, br.Name)
		}
		fmt.Fprintf(&b, "  Active:   %s\n", strings.Join(names, ", "))
	}
	if ds := s.DiffStats; ds != nil {
		fmt.Fprintf(&b, "  Diff:     %d files, +%d -%d\n", ds.FilesChanged, ds.Insertions, ds.Deletions)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(&b, "  Tags:     %s\n", strings.Join(s.Tags, ", "))
	}

	if len(s.TodayCommits) > 0 {
		fmt.Fprintf(&b, "\n  Commits (%d):\n", len(s.TodayCommits))
		for _, c := range s.TodayCommits {
			fmt.Fprintf(&b, "    %s %s %s\n", c.Date.Format("15:04"), shortHash(c), firstLine(c.Message))
		}
	}
	if len(s.PullRequests) > 0 {
		b.WriteString("\n  Pull requests:\n")
		for _, pr := range s.PullRequests {
			fmt.Fprintf(&b, "    #%d [%s] %s\n", pr.Number, pr.State, pr.Title)
		}
	}
	if len(s.Tickets) > 0 {
		b.WriteString("\n  Tickets:\n")
		for _, t := range s.Tickets {
			fmt.Fprintf(&b, "    %s %s\n", t.ID, t.Title)
		}
	}
	if len(s.Categories) > 0 {
		b.WriteString("\n  Work areas:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "    %-16s %3.0f%%\n", c.Name, c.Percentage)
		}
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "\n  Notes:\n%s\n", indent(s.Notes, "    "))
	}
	if s.AISummary != "" {
		fmt.Fprintf(&b, "\n  Summary:\n%s\n", indent(s.AISummary, "    "))
	}
	return b.String()
}

// PromptContext renders several snapshots as a block meant for an AI prompt.
// Snapshots are grouped by project and listed by date; each lists at most
// MaxPromptCommits of its most recent commits.
func PromptContext(snaps []model.WorkSnapshot) string {
	if len(snaps) == 0 {
		return "No recorded work activity.\n"
	}

	byProject := map[string][]model.WorkSnapshot{}
	var projects []string
	for _, s := range snaps {
		if _, ok := byProject[s.ProjectID]; !ok {
			projects = append(projects, s.ProjectID)
		}
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s)
	}
	sort.Strings(projects)

	var b strings.Builder
	for i, id := range projects {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## Project: %s\n", id)

		group := byProject[id]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date < group[j].Date })
		for _, s := range group {
			fmt.Fprintf(&b, "\n### %s (branch: %s)\n", s.Date, s.CurrentBranch)
			writePromptCommits(&b, s.TodayCommits)
			for _, pr := range s.PullRequests {
				fmt.Fprintf(&b, "- PR #%d (%s): %s\n", pr.Number, pr.State, pr.Title)
			}
			for _, t := range s.Tickets {
				fmt.Fprintf(&b, "- Ticket %s: %s\n", t.ID, t.Title)
			}
			if s.Notes != "" {
				fmt.Fprintf(&b, "Notes: %s\n", strings.ReplaceAll(s.Notes, "\n\n", " / "))
			}
			if s.AISummary != "" {
				fmt.Fprintf(&b, "Summary: %s\n", s.AISummary)
			}
		}
	}
	return b.String()
}

func writePromptCommits(b *strings.Builder, commits []model.Commit) {
	if len(commits) == 0 {
		return
	}
	// Commits are stored oldest first; keep the newest ones.
	shown := commits
	if len(shown) > MaxPromptCommits {
		shown = shown[len(shown)-MaxPromptCommits:]
	}
	fmt.Fprintf(b, "Commits (%d):\n", len(commits))
	for _, c := range shown {
		fmt.Fprintf(b, "- %s %s\n", shortHash(c), firstLine(c.Message))
	}
	if extra := len(commits) - len(shown); extra > 0 {
		fmt.Fprintf(b, "- ... and %d more commits\n", extra)
	}
}

func shortHash(c model.Commit) string {
	if c.ShortHash != "" {
		return c.ShortHash
	}
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
