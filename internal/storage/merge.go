package storage

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/work-journal/internal/model"
)

// Merge reconciles an incoming snapshot with the stored one for the same
// date and project. Scalars come from incoming, keyed lists are deduplicated
// with incoming entries replacing existing ones, notes are concatenated, the
// AI summary is replaced only by a non-empty value and tags are unioned.
//
// Merge is order sensitive for notes, the AI summary and scalars: callers must
// merge writes in the order they happened.
func Merge(existing, incoming model.WorkSnapshot, now time.Time) model.WorkSnapshot {
	merged := incoming.Clone()
	merged.TakenAt = now

	merged.TodayCommits = mergeCommits(existing.TodayCommits, incoming.TodayCommits)
	merged.RecentCommits = mergeCommits(existing.RecentCommits, incoming.RecentCommits)
	merged.ActiveBranches = mergeBranches(existing.ActiveBranches, incoming.ActiveBranches)
	merged.PullRequests = mergePullRequests(existing.PullRequests, incoming.PullRequests)
	merged.Notes = joinNotes(existing.Notes, incoming.Notes)
	if strings.TrimSpace(incoming.AISummary) == "" {
		merged.AISummary = existing.AISummary
	}
	merged.Tags = unionTags(existing.Tags, incoming.Tags)

	// Fields a producer may omit on a partial write keep their stored value.
	if merged.RepoPath == "" {
		merged.RepoPath = existing.RepoPath
	}
	if merged.RemoteURL == "" {
		merged.RemoteURL = existing.RemoteURL
	}
	if merged.CurrentBranch == "" {
		merged.CurrentBranch = existing.CurrentBranch
	}
	return merged
}

// dedupe applies the key rules of Merge to a single snapshot so that a
// first write never stores duplicate commits, branches, PRs or tags.
func dedupe(s model.WorkSnapshot) model.WorkSnapshot {
	s = s.Clone()
	s.TodayCommits = mergeCommits(nil, s.TodayCommits)
	s.RecentCommits = mergeCommits(nil, s.RecentCommits)
	s.ActiveBranches = mergeBranches(nil, s.ActiveBranches)
	s.PullRequests = mergePullRequests(nil, s.PullRequests)
	s.Tags = unionTags(nil, s.Tags)
	return s
}

func mergeCommits(existing, incoming []model.Commit) []model.Commit {
	out := mergeByKey(existing, incoming, func(c model.Commit) string { return c.Hash })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func mergeBranches(existing, incoming []model.Branch) []model.Branch {
	return mergeByKey(existing, incoming, func(b model.Branch) string { return b.Name })
}

func mergePullRequests(existing, incoming []model.PullRequest) []model.PullRequest {
	return mergeByKey(existing, incoming, func(p model.PullRequest) int { return p.Number })
}

// mergeByKey keeps first-seen order; a later item with the same key replaces
// the earlier one in place.
func mergeByKey[T any, K comparable](existing, incoming []T, key func(T) K) []T {
	out := make([]T, 0, len(existing)+len(incoming))
	pos := make(map[K]int, len(existing)+len(incoming))
	for _, list := range [][]T{existing, incoming} {
		for _, item := range list {
			k := key(item)
			if i, ok := pos[k]; ok {
				out[i] = item
				continue
			}
			pos[k] = len(out)
			out = append(out, item)
		}
	}
	return out
}

func joinNotes(existing, incoming string) string {
	switch {
	case existing == "":
		return incoming
	case incoming == "":
		return existing
	}
	return existing + "\n\n" + incoming
}

func unionTags(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	for _, list := range [][]string{existing, incoming} {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" || slices.Contains(out, tag) {
				continue
			}
			out = append(out, tag)
		}
	}
	return out
}
