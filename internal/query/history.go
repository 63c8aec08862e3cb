package query

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Tiliavir/work-journal/internal/model"
	"github.com/Tiliavir/work-journal/internal/timecalc"
)

// FileHistoryEntry lists the commits of one snapshot that touched a file.
type FileHistoryEntry struct {
	Date      string         `json:"date"`
	ProjectID string         `json:"project_id"`
	Commits   []model.Commit `json:"commits"`
}

// FindFileHistory returns, newest first, every snapshot in the last maxDays
// days whose commits touched a path matching filePath. filePath is matched as
// a case-insensitive substring, or as a doublestar glob when it contains glob
// metacharacters. maxDays <= 0 searches the whole journal.
func (e *Engine) FindFileHistory(filePath, projectID string, maxDays int) []FileHistoryEntry {
	match := fileMatcher(filePath)

	from := ""
	if maxDays > 0 {
		if today, err := timecalc.ParseDate(e.src.Today()); err == nil {
			from = timecalc.DaysAgo(today, maxDays)
		}
	}

	snaps := e.src.ListForRange(projectID, from, e.src.Today())
	var out []FileHistoryEntry
	for i := len(snaps) - 1; i >= 0; i-- {
		snap := snaps[i]
		var hits []model.Commit
		for _, c := range snap.TodayCommits {
			for _, f := range c.FilesChanged {
				if match(f) {
					hits = append(hits, c)
					break
				}
			}
		}
		if len(hits) > 0 {
			out = append(out, FileHistoryEntry{Date: snap.Date, ProjectID: snap.ProjectID, Commits: hits})
		}
	}
	return out
}

func fileMatcher(pattern string) func(string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return func(string) bool { return false }
	}

	if strings.ContainsAny(pattern, "*?[{") && doublestar.ValidatePattern(pattern) {
		baseOnly := !strings.Contains(pattern, "/")
		return func(f string) bool {
			f = strings.ToLower(f)
			if ok, _ := doublestar.Match(pattern, f); ok {
				return true
			}
			if baseOnly {
				ok, _ := doublestar.Match(pattern, path.Base(f))
				return ok
			}
			return false
		}
	}

	return func(f string) bool {
		return strings.Contains(strings.ToLower(f), pattern)
	}
}
