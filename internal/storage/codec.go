package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/Tiliavir/work-journal/internal/model"
)

// EncodeSnapshot renders a snapshot as indented JSON. Nil lists are written
// as empty arrays so records stay uniform on disk.
func EncodeSnapshot(snap model.WorkSnapshot) ([]byte, error) {
	snap = normalizeLists(snap)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling snapshot %s/%s: %w", snap.Date, snap.ProjectID, err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a snapshot record. A record without a date or project
// id is rejected.
func DecodeSnapshot(data []byte) (model.WorkSnapshot, error) {
	var snap model.WorkSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.WorkSnapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Date == "" || snap.ProjectID == "" {
		return model.WorkSnapshot{}, errors.New("parsing snapshot: missing date or project_id")
	}
	return normalizeLists(snap), nil
}

func encodeIndex(ix model.JournalIndex) ([]byte, error) {
	if ix.Projects == nil {
		ix.Projects = []model.ProjectRegistryEntry{}
	}
	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeIndex(data []byte) (model.JournalIndex, error) {
	var ix model.JournalIndex
	if err := json.Unmarshal(data, &ix); err != nil {
		return model.JournalIndex{}, fmt.Errorf("parsing index: %w", err)
	}
	return ix, nil
}

// writeFileAtomic replaces path with data in a single rename.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("storage error writing %s: %w", path, err)
	}
	return nil
}

func normalizeLists(s model.WorkSnapshot) model.WorkSnapshot {
	if s.ActiveBranches == nil {
		s.ActiveBranches = []model.Branch{}
	}
	if s.TodayCommits == nil {
		s.TodayCommits = []model.Commit{}
	}
	if s.RecentCommits == nil {
		s.RecentCommits = []model.Commit{}
	}
	if s.PullRequests == nil {
		s.PullRequests = []model.PullRequest{}
	}
	if s.Tickets == nil {
		s.Tickets = []model.Ticket{}
	}
	if s.Categories == nil {
		s.Categories = []model.Category{}
	}
	if s.TopChangedFiles == nil {
		s.TopChangedFiles = []model.FileChange{}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s
}
