package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Tiliavir/work-journal/internal/model"
)

// Index loads the project index. A missing or corrupt index yields a fresh,
// empty one.
func (s *Store) Index() model.JournalIndex {
	fresh := model.JournalIndex{Version: model.IndexVersion, Projects: []model.ProjectRegistryEntry{}}

	path := s.indexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("reading project index", "path", path, "err", err)
		}
		return fresh
	}
	ix, err := decodeIndex(data)
	if err != nil {
		s.log.Warn("ignoring corrupt project index", "path", path, "err", err)
		return fresh
	}
	if ix.Projects == nil {
		ix.Projects = []model.ProjectRegistryEntry{}
	}
	return ix
}

func (s *Store) writeIndex(ix model.JournalIndex) error {
	ix.Version = model.IndexVersion
	ix.LastUpdated = s.now()
	sort.Slice(ix.Projects, func(i, j int) bool { return ix.Projects[i].ProjectID < ix.Projects[j].ProjectID })

	data, err := encodeIndex(ix)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.indexPath(), data)
}

// recordInIndex folds a freshly written snapshot into the registry. The
// snapshot count only grows when a new (date, project) record was created so
// that the incremental index agrees with RebuildIndex.
func (s *Store) recordInIndex(snap model.WorkSnapshot, isNew bool) error {
	ix := s.Index()

	entry, ok := ix.Project(snap.ProjectID)
	if !ok {
		ix.Projects = append(ix.Projects, model.ProjectRegistryEntry{
			ProjectID:        snap.ProjectID,
			RepoPath:         snap.RepoPath,
			RemoteURL:        snap.RemoteURL,
			FirstSeen:        snap.Date,
			LastSnapshotDate: snap.Date,
			SnapshotCount:    1,
		})
		return s.writeIndex(ix)
	}

	if snap.RepoPath != "" {
		entry.RepoPath = snap.RepoPath
	}
	if snap.RemoteURL != "" {
		entry.RemoteURL = snap.RemoteURL
	}
	if entry.FirstSeen == "" || snap.Date < entry.FirstSeen {
		entry.FirstSeen = snap.Date
	}
	if snap.Date > entry.LastSnapshotDate {
		entry.LastSnapshotDate = snap.Date
	}
	if isNew {
		entry.SnapshotCount++
	}
	return s.writeIndex(ix)
}

// RebuildIndex discards index.json and reconstructs it from every record in
// every date shard.
func (s *Store) RebuildIndex() (model.JournalIndex, error) {
	if err := os.Remove(s.indexPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("removing project index", "err", err)
	}

	byProject := map[string]*model.ProjectRegistryEntry{}

	// Dates are ascending, so the last record seen per project is its newest.
	for _, date := range s.Dates() {
		for _, name := range s.recordFiles(date) {
			snap, ok := s.readSnapshot(filepath.Join(s.root, date, name))
			if !ok {
				continue
			}
			id := snap.ProjectID
			if id == "" {
				id = strings.TrimSuffix(name, recordExt)
			}
			entry, ok := byProject[id]
			if !ok {
				entry = &model.ProjectRegistryEntry{ProjectID: id, FirstSeen: date}
				byProject[id] = entry
			}
			entry.SnapshotCount++
			entry.LastSnapshotDate = date
			if snap.RepoPath != "" {
				entry.RepoPath = snap.RepoPath
			}
			if snap.RemoteURL != "" {
				entry.RemoteURL = snap.RemoteURL
			}
		}
	}

	ix := model.JournalIndex{Projects: make([]model.ProjectRegistryEntry, 0, len(byProject))}
	for _, entry := range byProject {
		ix.Projects = append(ix.Projects, *entry)
	}
	if err := s.writeIndex(ix); err != nil {
		return model.JournalIndex{}, fmt.Errorf("rebuilding index: %w", err)
	}
	s.log.Info("rebuilt project index", "projects", len(ix.Projects))
	return s.Index(), nil
}

// Latest returns the newest snapshot for projectID, located through the
// index and then read from its record file.
func (s *Store) Latest(projectID string) (model.WorkSnapshot, bool) {
	ix := s.Index()
	entry, ok := ix.Project(projectID)
	if !ok || entry.LastSnapshotDate == "" {
		return model.WorkSnapshot{}, false
	}
	return s.Get(entry.LastSnapshotDate, projectID)
}

// Projects returns the registry ordered by most recent activity.
func (s *Store) Projects() []model.ProjectRegistryEntry {
	projects := s.Index().Projects
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].LastSnapshotDate != projects[j].LastSnapshotDate {
			return projects[i].LastSnapshotDate > projects[j].LastSnapshotDate
		}
		return projects[i].ProjectID < projects[j].ProjectID
	})
	return projects
}
