// Package query answers read-only questions over stored snapshots: scored
// search, file history and cross-project summaries.
package query

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Tiliavir/work-journal/internal/model"
)

// Relative weights of the places a query can match. Only their ordering is
// meaningful.
const (
	weightBranch       = 10
	weightRequestedTag = 5
	weightActiveBranch = 5
	weightPullRequest  = 5
	weightTicket       = 5
	weightNotes        = 4
	weightCommit       = 3
	weightAISummary    = 3
	weightProject      = 3
	weightCommitFile   = 2
	weightTag          = 2
	weightTopFile      = 2
	weightRecentCommit = 1
)

// Source is the read side of the snapshot store.
type Source interface {
	Dates() []string
	ListForRange(projectID, from, to string) []model.WorkSnapshot
	Today() string
}

// Engine runs queries against a Source.
type Engine struct {
	src Source
}

// New returns an Engine reading from src.
func New(src Source) *Engine {
	return &Engine{src: src}
}

// SearchOptions narrows a search. Zero values mean "no restriction", except
// that To defaults to today.
type SearchOptions struct {
	ProjectID string
	From      string
	To        string
	Query     string
	Tags      []string
	Limit     int
}

// Search scores every snapshot in the requested window and returns the
// non-zero hits, best first and newest first among equal scores. Without a
// query or tags every snapshot in range matches with score 1.
func (e *Engine) Search(opts SearchOptions) []model.SearchResult {
	from, to := opts.From, opts.To
	if from == "" {
		if dates := e.src.Dates(); len(dates) > 0 {
			from = dates[0]
		}
	}
	if to == "" {
		to = e.src.Today()
	}

	m := newMatcher(opts.Query, opts.Tags)

	var results []model.SearchResult
	for _, snap := range e.src.ListForRange(opts.ProjectID, from, to) {
		score, reasons := m.score(snap)
		if score <= 0 {
			continue
		}
		results = append(results, model.SearchResult{Snapshot: snap, Score: score, MatchReasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Snapshot.Date != b.Snapshot.Date {
			return a.Snapshot.Date > b.Snapshot.Date
		}
		return a.Snapshot.ProjectID < b.Snapshot.ProjectID
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

type matcher struct {
	fold  cases.Caser
	query string
	tags  []string
}

func newMatcher(query string, tags []string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.fold.String(strings.TrimSpace(query))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			m.tags = append(m.tags, m.fold.String(t))
		}
	}
	return m
}

func (m *matcher) contains(field string) bool {
	return field != "" && strings.Contains(m.fold.String(field), m.query)
}

// reasons is an ordered set of match explanations.
type reasons []string

func (r *reasons) add(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if !slices.Contains(*r, s) {
		*r = append(*r, s)
	}
}

func (m *matcher) score(snap model.WorkSnapshot) (int, []string) {
	if m.query == "" && len(m.tags) == 0 {
		return 1, []string{}
	}

	score := 0
	why := reasons{}

	for _, want := range m.tags {
		for _, have := range snap.Tags {
			if m.fold.String(have) == want {
				score += weightRequestedTag
				why.add("tagged %s", have)
				break
			}
		}
	}

	if m.query == "" {
		return score, why
	}

	if m.contains(snap.CurrentBranch) {
		score += weightBranch
		why.add("branch: %s", snap.CurrentBranch)
	}
	for _, b := range snap.ActiveBranches {
		if m.contains(b.Name) {
			score += weightActiveBranch
			why.add("active branch: %s", b.Name)
		}
	}
	for _, c := range snap.TodayCommits {
		if m.contains(c.Message) {
			score += weightCommit
			why.add("commit: %s", firstLine(c.Message))
		}
		for _, f := range c.FilesChanged {
			if m.contains(f) {
				score += weightCommitFile
				why.add("file: %s", f)
			}
		}
	}
	for _, c := range snap.RecentCommits {
		if m.contains(c.Message) {
			score += weightRecentCommit
			why.add("recent commit: %s", firstLine(c.Message))
		}
	}
	for _, pr := range snap.PullRequests {
		if m.contains(pr.Title) {
			score += weightPullRequest
			why.add("PR #%d: %s", pr.Number, pr.Title)
		}
	}
	for _, tk := range snap.Tickets {
		if m.contains(tk.ID) || m.contains(tk.Title) {
			score += weightTicket
			why.add("ticket: %s", tk.ID)
		}
	}
	if m.contains(snap.Notes) {
		score += weightNotes
		why.add("notes")
	}
	if m.contains(snap.AISummary) {
		score += weightAISummary
		why.add("AI summary")
	}
	for _, tag := range snap.Tags {
		if m.contains(tag) {
			score += weightTag
			why.add("tag: %s", tag)
		}
	}
	for _, f := range snap.TopChangedFiles {
		if m.contains(f.Path) {
			score += weightTopFile
			why.add("changed file: %s", f.Path)
		}
	}
	if m.contains(snap.ProjectID) {
		score += weightProject
		why.add("project: %s", snap.ProjectID)
	}
	return score, why
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
