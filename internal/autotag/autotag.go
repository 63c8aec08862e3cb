// Package autotag derives topical tags from a snapshot's contents.
package autotag

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Tiliavir/work-journal/internal/model"
)

// MinCategoryPercentage is the share a work category needs to become a tag.
const MinCategoryPercentage = 20

var branchPrefixes = []struct {
	prefix string
	tag    string
}{
	{"feature/", "feature"},
	{"fix/", "bugfix"},
	{"bugfix/", "bugfix"},
	{"hotfix/", "hotfix"},
	{"chore/", "chore"},
	{"refactor/", "refactor"},
	{"docs/", "docs"},
	{"test/", "test"},
	{"release/", "release"},
}

var (
	conventionalRe = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|test|chore|perf|ci|build)(\([^)]*\))?!?:`)
	ticketKeyRe    = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)
	issueNumberRe  = regexp.MustCompile(`(?:^|[^\w&])(#\d+)\b`)
)

// Tags returns the sorted, de-duplicated tags suggested for snap. It does not
// modify snap.
func Tags(snap model.WorkSnapshot) []string {
	set := map[string]struct{}{}
	add := func(tag string) {
		if tag = strings.TrimSpace(tag); tag != "" {
			set[tag] = struct{}{}
		}
	}

	branch := strings.ToLower(snap.CurrentBranch)
	for _, bp := range branchPrefixes {
		if strings.HasPrefix(branch, bp.prefix) {
			add(bp.tag)
			break
		}
	}

	commits := make([]model.Commit, 0, len(snap.TodayCommits)+len(snap.RecentCommits))
	commits = append(commits, snap.TodayCommits...)
	commits = append(commits, snap.RecentCommits...)
	for _, c := range commits {
		if m := conventionalRe.FindStringSubmatch(strings.TrimSpace(c.Message)); m != nil {
			add(strings.ToLower(m[1]))
		}
		for _, key := range ticketKeyRe.FindAllString(c.Message, -1) {
			add(key)
		}
		for _, m := range issueNumberRe.FindAllStringSubmatch(c.Message, -1) {
			add(m[1])
		}
	}

	for _, cat := range snap.Categories {
		if cat.Percentage >= MinCategoryPercentage {
			add(strings.ToLower(cat.Name))
		}
	}

	for _, pr := range snap.PullRequests {
		for _, label := range pr.Labels {
			add(strings.ToLower(label))
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
