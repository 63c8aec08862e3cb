package model

import (
	"slices"
	"time"
)

// Commit is a single git commit as recorded in a snapshot.
type Commit struct {
	Hash         string    `json:"hash"`
	ShortHash    string    `json:"short_hash,omitempty"`
	Message      string    `json:"message"`
	Author       string    `json:"author,omitempty"`
	Date         time.Time `json:"date"`
	FilesChanged []string  `json:"files_changed,omitempty"`
	Insertions   int       `json:"insertions,omitempty"`
	Deletions    int       `json:"deletions,omitempty"`
}

// Branch is a local branch that saw activity.
type Branch struct {
	Name           string     `json:"name"`
	LastCommitDate *time.Time `json:"last_commit_date,omitempty"`
	IsCurrent      bool       `json:"is_current,omitempty"`
	Ahead          int        `json:"ahead,omitempty"`
	Behind         int        `json:"behind,omitempty"`
}

// PullRequest mirrors the subset of a hosted pull request the journal keeps.
type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"` // "open", "closed", "merged"
	URL      string     `json:"url,omitempty"`
	Branch   string     `json:"branch,omitempty"`
	Labels   []string   `json:"labels,omitempty"`
	MergedAt *time.Time `json:"merged_at,omitempty"`
}

// Ticket is an issue-tracker reference (Linear, Jira, GitHub issue, ...).
type Ticket struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
}

// Category is a work area with its share of the day's changes.
type Category struct {
	Name       string   `json:"name"`
	Percentage float64  `json:"percentage"`
	Files      []string `json:"files,omitempty"`
}

// FileChange counts how often a path was touched.
type FileChange struct {
	Path      string `json:"path"`
	Frequency int    `json:"frequency"`
}

// DiffStats is an aggregate of a diff.
type DiffStats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// WorkSnapshot is the stored unit: one project's activity on one calendar date.
// At rest there is at most one WorkSnapshot per (Date, ProjectID).
type WorkSnapshot struct {
	Date            string        `json:"date"` // YYYY-MM-DD
	ProjectID       string        `json:"project_id"`
	TakenAt         time.Time     `json:"taken_at"`
	RepoPath        string        `json:"repo_path"`
	RemoteURL       string        `json:"remote_url,omitempty"`
	CurrentBranch   string        `json:"current_branch"`
	ActiveBranches  []Branch      `json:"active_branches"`
	TodayCommits    []Commit      `json:"today_commits"`
	RecentCommits   []Commit      `json:"recent_commits"`
	PullRequests    []PullRequest `json:"pull_requests"`
	Tickets         []Ticket      `json:"tickets"`
	Categories      []Category    `json:"categories"`
	TopChangedFiles []FileChange  `json:"top_changed_files"`
	DiffStats       *DiffStats    `json:"diff_stats,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	AISummary       string        `json:"ai_summary,omitempty"`
	Tags            []string      `json:"tags"`
}

// Clone returns a deep copy of s that shares no slices with it.
func (s WorkSnapshot) Clone() WorkSnapshot {
	out := s
	out.ActiveBranches = slices.Clone(s.ActiveBranches)
	for i := range out.ActiveBranches {
		if t := out.ActiveBranches[i].LastCommitDate; t != nil {
			tc := *t
			out.ActiveBranches[i].LastCommitDate = &tc
		}
	}
	out.TodayCommits = cloneCommits(s.TodayCommits)
	out.RecentCommits = cloneCommits(s.RecentCommits)
	out.PullRequests = slices.Clone(s.PullRequests)
	for i := range out.PullRequests {
		out.PullRequests[i].Labels = slices.Clone(out.PullRequests[i].Labels)
		if t := out.PullRequests[i].MergedAt; t != nil {
			tc := *t
			out.PullRequests[i].MergedAt = &tc
		}
	}
	out.Tickets = slices.Clone(s.Tickets)
	out.Categories = slices.Clone(s.Categories)
	for i := range out.Categories {
		out.Categories[i].Files = slices.Clone(out.Categories[i].Files)
	}
	out.TopChangedFiles = slices.Clone(s.TopChangedFiles)
	if s.DiffStats != nil {
		ds := *s.DiffStats
		out.DiffStats = &ds
	}
	out.Tags = slices.Clone(s.Tags)
	return out
}

func cloneCommits(in []Commit) []Commit {
	out := slices.Clone(in)
	for i := range out {
		out[i].FilesChanged = slices.Clone(out[i].FilesChanged)
	}
	return out
}
