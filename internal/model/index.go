package model

import "time"

// IndexVersion is written into every index file.
const IndexVersion = 1

// ProjectRegistryEntry summarises one project across all stored snapshots.
// It is derived data and can always be rebuilt from the date shards.
type ProjectRegistryEntry struct {
	ProjectID        string `json:"project_id"`
	RepoPath         string `json:"repo_path"`
	RemoteURL        string `json:"remote_url,omitempty"`
	FirstSeen        string `json:"first_seen"`
	LastSnapshotDate string `json:"last_snapshot_date"`
	SnapshotCount    int    `json:"snapshot_count"`
}

// JournalIndex is the persisted project registry (index.json).
type JournalIndex struct {
	Version     int                    `json:"version"`
	LastUpdated time.Time              `json:"last_updated"`
	Projects    []ProjectRegistryEntry `json:"projects"`
}

// Project returns the registry entry for id and whether it exists.
func (ix *JournalIndex) Project(id string) (*ProjectRegistryEntry, bool) {
	for i := range ix.Projects {
		if ix.Projects[i].ProjectID == id {
			return &ix.Projects[i], true
		}
	}
	return nil, false
}

// SearchResult is a scored search hit. It only exists at query time.
type SearchResult struct {
	Snapshot     WorkSnapshot `json:"snapshot"`
	Score        int          `json:"score"`
	MatchReasons []string     `json:"match_reasons"`
}
