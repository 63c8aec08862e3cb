package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/work-journal/internal/timecalc"
)

// PruneResult reports what Prune deleted.
type PruneResult struct {
	RemovedDates     []string `json:"removed_dates"`
	RemovedSnapshots int      `json:"removed_snapshots"`
}

// Prune deletes every date shard older than today minus maxAgeDays. Only
// snapshot files are removed; a shard directory that still holds other files
// afterwards is left in place. Per-entry failures are logged and skipped.
// Today's shard is never touched. When anything was removed the project index
// is rebuilt.
func (s *Store) Prune(maxAgeDays int) (PruneResult, error) {
	if maxAgeDays < 0 {
		maxAgeDays = 0
	}
	now := s.now()
	today := timecalc.DateKey(now)
	cutoff := timecalc.DaysAgo(now, maxAgeDays)

	res := PruneResult{RemovedDates: []string{}}
	for _, date := range s.Dates() {
		if date >= cutoff || date == today {
			continue
		}

		removed := false
		dir := filepath.Join(s.root, date)
		for _, name := range s.recordFiles(date) {
			path := filepath.Join(dir, name)
			s.cache.forget(path)
			if err := os.Remove(path); err != nil {
				s.log.Warn("pruning snapshot", "path", path, "err", err)
				continue
			}
			res.RemovedSnapshots++
			removed = true
		}
		if err := os.Remove(dir); err != nil {
			s.log.Debug("keeping non-empty date shard", "path", dir, "err", err)
		} else {
			removed = true
		}
		if removed {
			res.RemovedDates = append(res.RemovedDates, date)
		}
	}

	if len(res.RemovedDates) == 0 {
		return res, nil
	}
	s.log.Info("pruned journal", "dates", len(res.RemovedDates), "snapshots", res.RemovedSnapshots, "cutoff", cutoff)
	if _, err := s.RebuildIndex(); err != nil {
		return res, fmt.Errorf("pruning: %w", err)
	}
	return res, nil
}
