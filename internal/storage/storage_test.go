package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-journal/internal/model"
	"github.com/Tiliavir/work-journal/internal/storage"
)

var fixedNow = time.Date(2024, 6, 20, 15, 4, 5, 0, time.Local)

func newStore(t *testing.T) (*storage.Store, string) {
	t.Helper()
	base := t.TempDir()
	return storage.New(base, storage.Options{Now: func() time.Time { return fixedNow }}), base
}

func commit(hash, msg string, at time.Time, files ...string) model.Commit {
	return model.Commit{Hash: hash, Message: msg, Date: at, FilesChanged: files}
}

func snapshot(date, project string) model.WorkSnapshot {
	return model.WorkSnapshot{
		Date:          date,
		ProjectID:     project,
		RepoPath:      "/src/" + project,
		CurrentBranch: "main",
	}
}

func writeRaw(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func dates(snaps []model.WorkSnapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.Date)
	}
	return out
}

func TestGetMissing(t *testing.T) {
	store, _ := newStore(t)
	if _, ok := store.Get("2024-06-15", "proj"); ok {
		t.Fatal("Get on empty journal reported a snapshot")
	}
	if _, ok := store.Get("not-a-date", "proj"); ok {
		t.Fatal("Get with invalid date reported a snapshot")
	}
	if _, ok := store.Get("2024-06-15", "../escape"); ok {
		t.Fatal("Get with path-like project id reported a snapshot")
	}
}

func TestSaveAndGet(t *testing.T) {
	store, base := newStore(t)
	at := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	snap := snapshot("2024-06-15", "proj")
	snap.TodayCommits = []model.Commit{commit("aaa111", "feat: login", at, "src/login.go")}
	snap.Tags = []string{"feat"}

	saved, err := store.Save(snap)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(base, "2024-06-15", "proj.json"))

	got, ok := store.Get("2024-06-15", "proj")
	require.True(t, ok, "saved snapshot should be readable")
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Errorf("Get mismatch (-saved +got):\n%s", diff)
	}
	if !got.TakenAt.Equal(fixedNow) {
		t.Errorf("TakenAt = %v, want %v", got.TakenAt, fixedNow)
	}
}

func TestSaveRejectsInvalidKeys(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Save(snapshot("15/06/2024", "proj"))
	if !errors.Is(err, storage.ErrInvalidDate) {
		t.Errorf("Save with bad date: err = %v, want ErrInvalidDate", err)
	}
	_, err = store.Save(snapshot("2024-06-15", "a/b"))
	if !errors.Is(err, storage.ErrInvalidProjectID) {
		t.Errorf("Save with bad project: err = %v, want ErrInvalidProjectID", err)
	}
	for _, id := range []string{"", ".", "..", ".dotfiles", `a\b`} {
		_, err = store.Save(snapshot("2024-06-15", id))
		if !errors.Is(err, storage.ErrInvalidProjectID) {
			t.Errorf("Save(project %q): err = %v, want ErrInvalidProjectID", id, err)
		}
	}
	if dates := store.Dates(); len(dates) != 0 {
		t.Errorf("rejected saves left shards behind: %v", dates)
	}
}

func TestSaveMergesSameKey(t *testing.T) {
	store, base := newStore(t)
	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	a := snapshot("2024-06-15", "proj")
	a.TodayCommits = []model.Commit{commit("aaa111", "feat: a", at)}
	a.Tags = []string{"feat"}
	_, err := store.Save(a)
	require.NoError(t, err)

	b := snapshot("2024-06-15", "proj")
	b.TodayCommits = []model.Commit{commit("bbb222", "fix: b", at.Add(time.Hour))}
	b.Tags = []string{"fix"}
	_, err = store.Save(b)
	require.NoError(t, err)

	got, ok := store.Get("2024-06-15", "proj")
	require.True(t, ok)

	var hashes []string
	for _, c := range got.TodayCommits {
		hashes = append(hashes, c.Hash)
	}
	if diff := cmp.Diff([]string{"aaa111", "bbb222"}, hashes); diff != "" {
		t.Errorf("commit hashes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"feat", "fix"}, got.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Join(base, "2024-06-15"))
	require.NoError(t, err)
	if len(entries) != 1 {
		t.Errorf("date shard holds %d files, want exactly 1", len(entries))
	}
}

func TestSaveTwiceIsIdempotentForSets(t *testing.T) {
	store, _ := newStore(t)
	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	snap := snapshot("2024-06-15", "proj")
	snap.TodayCommits = []model.Commit{commit("aaa", "one", at), commit("bbb", "two", at.Add(time.Minute))}
	snap.ActiveBranches = []model.Branch{{Name: "main"}, {Name: "feature/x"}}
	snap.PullRequests = []model.PullRequest{{Number: 7, Title: "X", State: "open"}}
	snap.Tags = []string{"feat", "api"}

	first, err := store.Save(snap)
	require.NoError(t, err)
	second, err := store.Save(snap)
	require.NoError(t, err)

	if diff := cmp.Diff(first.TodayCommits, second.TodayCommits); diff != "" {
		t.Errorf("commits changed on re-save (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Tags, second.Tags); diff != "" {
		t.Errorf("tags changed on re-save (-first +second):\n%s", diff)
	}
	if len(second.ActiveBranches) != 2 || len(second.PullRequests) != 1 {
		t.Errorf("branches=%d prs=%d, want 2 and 1", len(second.ActiveBranches), len(second.PullRequests))
	}

	ix := store.Index()
	entry, ok := ix.Project("proj")
	require.True(t, ok)
	if entry.SnapshotCount != 1 {
		t.Errorf("SnapshotCount = %d, want 1", entry.SnapshotCount)
	}
}

func TestSaveDedupesFirstWrite(t *testing.T) {
	store, _ := newStore(t)
	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	snap := snapshot("2024-06-15", "proj")
	snap.TodayCommits = []model.Commit{commit("aaa", "old", at), commit("aaa", "new", at)}
	snap.Tags = []string{"x", "x", " "}

	got, err := store.Save(snap)
	require.NoError(t, err)
	if len(got.TodayCommits) != 1 || got.TodayCommits[0].Message != "new" {
		t.Errorf("TodayCommits = %+v, want single commit with message %q", got.TodayCommits, "new")
	}
	if diff := cmp.Diff([]string{"x"}, got.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}

func TestCorruptRecordReadsAsAbsentAndIsOverwritten(t *testing.T) {
	store, base := newStore(t)
	path := filepath.Join(base, "2024-06-15", "proj.json")
	writeRaw(t, path, "{bad json")

	if _, ok := store.Get("2024-06-15", "proj"); ok {
		t.Fatal("corrupt record should read as absent")
	}
	if got := store.ListForDate("2024-06-15"); len(got) != 0 {
		t.Fatalf("ListForDate returned %d snapshots for a corrupt shard", len(got))
	}

	snap := snapshot("2024-06-15", "proj")
	snap.Notes = "fresh"
	_, err := store.Save(snap)
	require.NoError(t, err)

	got, ok := store.Get("2024-06-15", "proj")
	require.True(t, ok)
	if got.Notes != "fresh" {
		t.Errorf("Notes = %q, want %q", got.Notes, "fresh")
	}
}

func TestOverwritingCorruptRecordCountsInIndex(t *testing.T) {
	store, base := newStore(t)
	writeRaw(t, filepath.Join(base, "2024-06-15", "proj.json"), "{bad json")
	_, err := store.Save(snapshot("2024-06-14", "proj"))
	require.NoError(t, err)
	_, err = store.Save(snapshot("2024-06-15", "proj"))
	require.NoError(t, err)

	ix := store.Index()
	entry, ok := ix.Project("proj")
	require.True(t, ok)
	if entry.SnapshotCount != 2 {
		t.Errorf("incremental SnapshotCount = %d, want 2", entry.SnapshotCount)
	}

	rebuilt, err := store.RebuildIndex()
	require.NoError(t, err)
	again, ok := rebuilt.Project("proj")
	require.True(t, ok)
	if again.SnapshotCount != entry.SnapshotCount {
		t.Errorf("rebuilt SnapshotCount = %d, incremental %d", again.SnapshotCount, entry.SnapshotCount)
	}
}

func TestListForDateSkipsBadFiles(t *testing.T) {
	store, base := newStore(t)
	for _, p := range []string{"web", "api"} {
		_, err := store.Save(snapshot("2024-06-15", p))
		require.NoError(t, err)
	}
	writeRaw(t, filepath.Join(base, "2024-06-15", "broken.json"), "[]")
	writeRaw(t, filepath.Join(base, "2024-06-15", "notes.txt"), "ignore me")

	got := store.ListForDate("2024-06-15")
	var ids []string
	for _, s := range got {
		ids = append(ids, s.ProjectID)
	}
	if diff := cmp.Diff([]string{"api", "web"}, ids); diff != "" {
		t.Errorf("ListForDate ids (-want +got):\n%s", diff)
	}
}

func TestListForRangeOrder(t *testing.T) {
	store, base := newStore(t)
	for _, d := range []string{"2024-06-12", "2024-06-10", "2024-06-14", "2024-06-11"} {
		_, err := store.Save(snapshot(d, "proj"))
		require.NoError(t, err)
		_, err = store.Save(snapshot(d, "other"))
		require.NoError(t, err)
	}
	// Not a date shard; must be ignored.
	writeRaw(t, filepath.Join(base, "backup", "proj.json"), "{}")

	got := store.ListForRange("proj", "2024-06-11", "2024-06-14")
	if diff := cmp.Diff([]string{"2024-06-11", "2024-06-12", "2024-06-14"}, dates(got)); diff != "" {
		t.Errorf("ListForRange dates (-want +got):\n%s", diff)
	}

	all := store.ListForRange("", "", "")
	if len(all) != 8 {
		t.Fatalf("ListForRange(all) = %d snapshots, want 8", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date < all[i-1].Date {
			t.Fatalf("ListForRange not sorted: %v", dates(all))
		}
	}
}

func TestRecentAndHasToday(t *testing.T) {
	store, _ := newStore(t)
	today := "2024-06-20"

	if store.HasToday("proj") {
		t.Fatal("HasToday on empty journal = true")
	}
	for _, d := range []string{"2024-06-01", "2024-06-18", today} {
		_, err := store.Save(snapshot(d, "proj"))
		require.NoError(t, err)
	}
	if !store.HasToday("proj") {
		t.Error("HasToday after saving today = false")
	}
	if diff := cmp.Diff([]string{"2024-06-18", today}, dates(store.Recent(7))); diff != "" {
		t.Errorf("Recent(7) dates (-want +got):\n%s", diff)
	}
}

func TestExternalRewriteIsVisible(t *testing.T) {
	store, base := newStore(t)
	snap := snapshot("2024-06-15", "proj")
	snap.Notes = "first"
	_, err := store.Save(snap)
	require.NoError(t, err)

	_, ok := store.Get("2024-06-15", "proj")
	require.True(t, ok)

	// Another process rewrites the record behind the store's back.
	other := snapshot("2024-06-15", "proj")
	other.Notes = "rewritten by a git hook"
	data, err := storage.EncodeSnapshot(other)
	require.NoError(t, err)
	path := filepath.Join(base, "2024-06-15", "proj.json")
	writeRaw(t, path, string(data))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	got, ok := store.Get("2024-06-15", "proj")
	require.True(t, ok)
	if got.Notes != "rewritten by a git hook" {
		t.Errorf("Notes = %q, want external rewrite to be visible", got.Notes)
	}
}

func TestCachedRecordsAreNotShared(t *testing.T) {
	store, _ := newStore(t)
	snap := snapshot("2024-06-15", "proj")
	snap.Tags = []string{"a"}
	_, err := store.Save(snap)
	require.NoError(t, err)

	first, _ := store.Get("2024-06-15", "proj")
	first.Tags[0] = "mutated"

	second, _ := store.Get("2024-06-15", "proj")
	if second.Tags[0] != "a" {
		t.Errorf("Tags[0] = %q after caller mutation, want %q", second.Tags[0], "a")
	}
}

func TestMutators(t *testing.T) {
	store, _ := newStore(t)
	snap := snapshot("2024-06-20", "proj")
	snap.Notes = "morning"
	snap.Tags = []string{"api"}
	_, err := store.Save(snap)
	require.NoError(t, err)

	found, err := store.AddNote("proj", "afternoon", "")
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.SetAISummary("proj", "Shipped login.", "2024-06-20")
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.AddTags("proj", []string{"api", "auth"}, "")
	require.NoError(t, err)
	require.True(t, found)

	got, ok := store.Get("2024-06-20", "proj")
	require.True(t, ok)
	if got.Notes != "morning\n\nafternoon" {
		t.Errorf("Notes = %q, want %q", got.Notes, "morning\n\nafternoon")
	}
	if got.AISummary != "Shipped login." {
		t.Errorf("AISummary = %q, want %q", got.AISummary, "Shipped login.")
	}
	if diff := cmp.Diff([]string{"api", "auth"}, got.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}

	found, err = store.AddNote("missing", "x", "")
	require.NoError(t, err)
	if found {
		t.Error("AddNote on missing snapshot reported found")
	}
}
