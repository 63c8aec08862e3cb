package query

import (
	"sort"

	"github.com/Tiliavir/work-journal/internal/model"
)

const topFilesPerProject = 10

// CategoryAverage is a work category's mean share across the snapshots that
// reported it.
type CategoryAverage struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// ProjectSummary aggregates one project's snapshots.
type ProjectSummary struct {
	ProjectID    string             `json:"project_id"`
	RepoPath     string             `json:"repo_path"`
	TotalCommits int                `json:"total_commits"`
	ActiveDays   int                `json:"active_days"`
	Branches     []string           `json:"branches"`
	TopFiles     []model.FileChange `json:"top_files"`
	Categories   []CategoryAverage  `json:"categories"`
	DiffStats    model.DiffStats    `json:"diff_stats"`
}

// CrossProjectSummary aggregates all projects over a date range.
// TotalActiveDays counts distinct dates with any snapshot, not the sum of
// per-project active days.
type CrossProjectSummary struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Projects        []ProjectSummary `json:"projects"`
	TotalCommits    int              `json:"total_commits"`
	TotalActiveDays int              `json:"total_active_days"`
}

// Summarize folds every snapshot dated within [from, to] into per-project
// totals, busiest project first.
func (e *Engine) Summarize(from, to string) CrossProjectSummary {
	return Aggregate(from, to, e.src.ListForRange("", from, to))
}

// Aggregate summarises an already loaded set of snapshots.
func Aggregate(from, to string, snaps []model.WorkSnapshot) CrossProjectSummary {
	type acc struct {
		summary  ProjectSummary
		days     map[string]struct{}
		branches map[string]struct{}
		files    map[string]int
		catSum   map[string]float64
		catN     map[string]int
		catOrder []string
	}

	groups := map[string]*acc{}
	var order []string
	allDays := map[string]struct{}{}

	for _, snap := range snaps {
		g, ok := groups[snap.ProjectID]
		if !ok {
			g = &acc{
				summary:  ProjectSummary{ProjectID: snap.ProjectID},
				days:     map[string]struct{}{},
				branches: map[string]struct{}{},
				files:    map[string]int{},
				catSum:   map[string]float64{},
				catN:     map[string]int{},
			}
			groups[snap.ProjectID] = g
			order = append(order, snap.ProjectID)
		}
		allDays[snap.Date] = struct{}{}
		g.days[snap.Date] = struct{}{}
		if snap.RepoPath != "" {
			g.summary.RepoPath = snap.RepoPath
		}
		g.summary.TotalCommits += len(snap.TodayCommits)

		if snap.CurrentBranch != "" {
			g.branches[snap.CurrentBranch] = struct{}{}
		}
		for _, b := range snap.ActiveBranches {
			g.branches[b.Name] = struct{}{}
		}
		for _, f := range snap.TopChangedFiles {
			g.files[f.Path] += f.Frequency
		}
		for _, c := range snap.Categories {
			if _, seen := g.catN[c.Name]; !seen {
				g.catOrder = append(g.catOrder, c.Name)
			}
			g.catSum[c.Name] += c.Percentage
			g.catN[c.Name]++
		}
		if ds := snap.DiffStats; ds != nil {
			g.summary.DiffStats.FilesChanged += ds.FilesChanged
			g.summary.DiffStats.Insertions += ds.Insertions
			g.summary.DiffStats.Deletions += ds.Deletions
		}
	}

	out := CrossProjectSummary{From: from, To: to, Projects: make([]ProjectSummary, 0, len(order))}
	for _, id := range order {
		g := groups[id]
		ps := g.summary
		ps.ActiveDays = len(g.days)

		ps.Branches = make([]string, 0, len(g.branches))
		for b := range g.branches {
			ps.Branches = append(ps.Branches, b)
		}
		sort.Strings(ps.Branches)

		ps.TopFiles = make([]model.FileChange, 0, len(g.files))
		for p, n := range g.files {
			ps.TopFiles = append(ps.TopFiles, model.FileChange{Path: p, Frequency: n})
		}
		sort.Slice(ps.TopFiles, func(i, j int) bool {
			if ps.TopFiles[i].Frequency != ps.TopFiles[j].Frequency {
				return ps.TopFiles[i].Frequency > ps.TopFiles[j].Frequency
			}
			return ps.TopFiles[i].Path < ps.TopFiles[j].Path
		})
		if len(ps.TopFiles) > topFilesPerProject {
			ps.TopFiles = ps.TopFiles[:topFilesPerProject]
		}

		ps.Categories = make([]CategoryAverage, 0, len(g.catOrder))
		for _, name := range g.catOrder {
			ps.Categories = append(ps.Categories, CategoryAverage{
				Name:       name,
				Percentage: g.catSum[name] / float64(g.catN[name]),
			})
		}
		sort.SliceStable(ps.Categories, func(i, j int) bool {
			return ps.Categories[i].Percentage > ps.Categories[j].Percentage
		})

		out.TotalCommits += ps.TotalCommits
		out.Projects = append(out.Projects, ps)
	}

	sort.SliceStable(out.Projects, func(i, j int) bool {
		if out.Projects[i].TotalCommits != out.Projects[j].TotalCommits {
			return out.Projects[i].TotalCommits > out.Projects[j].TotalCommits
		}
		return out.Projects[i].ProjectID < out.Projects[j].ProjectID
	})
	out.TotalActiveDays = len(allDays)
	return out
}
