package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/work-journal/internal/logger"
	"github.com/Tiliavir/work-journal/internal/model"
	"github.com/Tiliavir/work-journal/internal/timecalc"
)

const (
	indexFileName = "index.json"
	recordExt     = ".json"
)

// BaseDir returns the default journal directory (~/.wj/journal).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wj", "journal"), nil
}

// Options tunes a Store. The zero value is usable.
type Options struct {
	// Now is the clock used for "today" and write timestamps. Defaults to time.Now.
	Now func() time.Time
	// Logger receives warnings about skipped files. Defaults to a discard logger.
	Logger *slog.Logger
	// CacheSize bounds the decoded-record cache. 0 picks a default, <0 disables it.
	CacheSize int
}

// Store persists one WorkSnapshot per (date, project) under root:
//
//	<root>/index.json
//	<root>/<YYYY-MM-DD>/<projectID>.json
//
// Reads never fail: a missing or unparsable record is reported as absent.
// There is no cross-process locking; two writers racing on the same key can
// lose the earlier writer's update.
type Store struct {
	root  string
	now   func() time.Time
	log   *slog.Logger
	cache *recordCache
}

// New returns a Store rooted at root. The directory is created lazily on the
// first write.
func New(root string, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Store{
		root:  root,
		now:   opts.Now,
		log:   opts.Logger,
		cache: newRecordCache(opts.CacheSize),
	}
}

// Root returns the journal directory.
func (s *Store) Root() string { return s.root }

// Today returns the current date key according to the store's clock.
func (s *Store) Today() string { return timecalc.DateKey(s.now()) }

func (s *Store) snapshotPath(date, projectID string) string {
	return filepath.Join(s.root, date, projectID+recordExt)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, indexFileName)
}

// readSnapshot loads and decodes the record at path. Any failure is logged
// and reported as absent.
func (s *Store) readSnapshot(path string) (model.WorkSnapshot, bool) {
	info, err := os.Stat(path)
	if err != nil {
		s.cache.forget(path)
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("skipping unreadable snapshot", "path", path, "err", err)
		}
		return model.WorkSnapshot{}, false
	}
	if snap, ok := s.cache.get(path, info.Size(), info.ModTime()); ok {
		return snap, true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("skipping unreadable snapshot", "path", path, "err", err)
		return model.WorkSnapshot{}, false
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		s.log.Warn("skipping corrupt snapshot", "path", path, "err", err)
		return model.WorkSnapshot{}, false
	}
	s.cache.put(path, info.Size(), info.ModTime(), snap)
	return snap, true
}

func (s *Store) writeSnapshot(snap model.WorkSnapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	path := s.snapshotPath(snap.Date, snap.ProjectID)
	s.cache.forget(path)
	return writeFileAtomic(path, data)
}

// Save stores snap, merging it with any record already stored for the same
// date and project, and updates the project index. It returns the record as
// written. A corrupt existing record is overwritten rather than merged.
func (s *Store) Save(snap model.WorkSnapshot) (model.WorkSnapshot, error) {
	if err := validateKey(snap.Date, snap.ProjectID); err != nil {
		return model.WorkSnapshot{}, err
	}

	// A record that does not decode was never counted by RebuildIndex, so
	// replacing it counts as a new snapshot.
	path := s.snapshotPath(snap.Date, snap.ProjectID)
	existing, isOld := s.readSnapshot(path)
	isNew := !isOld

	var out model.WorkSnapshot
	if isOld {
		out = Merge(existing, snap, s.now())
	} else {
		out = dedupe(snap)
		if out.TakenAt.IsZero() {
			out.TakenAt = s.now()
		}
	}

	if err := s.writeSnapshot(out); err != nil {
		return model.WorkSnapshot{}, err
	}
	s.log.Debug("saved snapshot", "date", out.Date, "project", out.ProjectID, "new", isNew)

	if err := s.recordInIndex(out, isNew); err != nil {
		// The index is a cache; the snapshot itself is already durable.
		s.log.Warn("updating project index", "err", err)
	}
	return normalizeLists(out), nil
}

// Get returns the snapshot for date and projectID.
func (s *Store) Get(date, projectID string) (model.WorkSnapshot, bool) {
	if validateKey(date, projectID) != nil {
		return model.WorkSnapshot{}, false
	}
	return s.readSnapshot(s.snapshotPath(date, projectID))
}

// HasToday reports whether a snapshot for projectID exists for today.
func (s *Store) HasToday(projectID string) bool {
	if validateProjectID(projectID) != nil {
		return false
	}
	_, err := os.Stat(s.snapshotPath(s.Today(), projectID))
	return err == nil
}

// Dates returns the names of all date shards in ascending order. Anything
// under root that is not a YYYY-MM-DD directory is ignored.
func (s *Store) Dates() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("listing journal root", "path", s.root, "err", err)
		}
		return nil
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() && timecalc.IsDateKey(e.Name()) {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates
}

// recordFiles lists the snapshot file names inside a date shard.
func (s *Store) recordFiles(date string) []string {
	dir := filepath.Join(s.root, date)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("listing date shard", "path", dir, "err", err)
		}
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), recordExt) && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ListForDate returns every project's snapshot for date, ordered by project
// id. Unparsable records are skipped.
func (s *Store) ListForDate(date string) []model.WorkSnapshot {
	if !timecalc.IsDateKey(date) {
		return nil
	}
	var out []model.WorkSnapshot
	for _, name := range s.recordFiles(date) {
		if snap, ok := s.readSnapshot(filepath.Join(s.root, date, name)); ok {
			out = append(out, snap)
		}
	}
	return out
}

// ListForRange returns snapshots dated within [from, to], inclusive, sorted
// ascending by date. An empty projectID selects all projects; an empty bound
// is open.
func (s *Store) ListForRange(projectID, from, to string) []model.WorkSnapshot {
	var out []model.WorkSnapshot
	for _, date := range s.Dates() {
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		if projectID == "" {
			out = append(out, s.ListForDate(date)...)
			continue
		}
		if snap, ok := s.Get(date, projectID); ok {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Recent returns all snapshots from the last days days, today included.
func (s *Store) Recent(days int) []model.WorkSnapshot {
	if days < 0 {
		days = 0
	}
	now := s.now()
	return s.ListForRange("", timecalc.DaysAgo(now, days), timecalc.DateKey(now))
}

// AddNote appends note to the snapshot's notes. date defaults to today.
// found is false when there is no snapshot to update.
func (s *Store) AddNote(projectID, note, date string) (bool, error) {
	return s.update(projectID, date, func(snap *model.WorkSnapshot) {
		snap.Notes = joinNotes(snap.Notes, note)
	})
}

// SetAISummary replaces the snapshot's AI summary. date defaults to today.
func (s *Store) SetAISummary(projectID, summary, date string) (bool, error) {
	return s.update(projectID, date, func(snap *model.WorkSnapshot) {
		snap.AISummary = summary
	})
}

// AddTags unions tags into the snapshot's tag set. date defaults to today.
func (s *Store) AddTags(projectID string, tags []string, date string) (bool, error) {
	return s.update(projectID, date, func(snap *model.WorkSnapshot) {
		snap.Tags = unionTags(snap.Tags, tags)
	})
}

// update rewrites a whole record after applying fn to it.
func (s *Store) update(projectID, date string, fn func(*model.WorkSnapshot)) (bool, error) {
	if date == "" {
		date = s.Today()
	}
	if err := validateKey(date, projectID); err != nil {
		return false, err
	}
	snap, ok := s.Get(date, projectID)
	if !ok {
		return false, nil
	}
	fn(&snap)
	snap.TakenAt = s.now()
	if err := s.writeSnapshot(snap); err != nil {
		return true, err
	}
	return true, nil
}
