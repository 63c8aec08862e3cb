package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Stats describes the journal on disk.
type Stats struct {
	TotalSnapshots int    `json:"total_snapshots"`
	TotalDates     int    `json:"total_dates"`
	TotalProjects  int    `json:"total_projects"`
	OldestEntry    string `json:"oldest_entry,omitempty"`
	NewestEntry    string `json:"newest_entry,omitempty"`
	StorageBytes   int64  `json:"storage_bytes"`
}

// Stats counts records by file name without decoding them.
func (s *Store) Stats() Stats {
	var st Stats
	projects := map[string]struct{}{}

	for _, date := range s.Dates() {
		names := s.recordFiles(date)
		if len(names) == 0 {
			continue
		}
		st.TotalDates++
		if st.OldestEntry == "" {
			st.OldestEntry = date
		}
		st.NewestEntry = date

		for _, name := range names {
			st.TotalSnapshots++
			projects[strings.TrimSuffix(name, recordExt)] = struct{}{}
			if info, err := os.Stat(filepath.Join(s.root, date, name)); err == nil {
				st.StorageBytes += info.Size()
			}
		}
	}
	if info, err := os.Stat(s.indexPath()); err == nil {
		st.StorageBytes += info.Size()
	}
	st.TotalProjects = len(projects)
	return st
}
