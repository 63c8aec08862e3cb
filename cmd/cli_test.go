package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-journal/internal/model"
)

const loginSnapshot = `{
  "repo_path": "/src/Web App",
  "current_branch": "feature/login-form",
  "today_commits": [
    {"hash": "0123456789abcdef", "message": "feat(auth): add login form PROJ-42", "files_changed": ["src/login.tsx"]}
  ],
  "pull_requests": [{"number": 7, "title": "Login form", "state": "open", "labels": ["Frontend"]}],
  "notes": "paired on validation"
}`

type cli struct {
	t       *testing.T
	journal string
	config  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return &cli{
		t:       t,
		journal: filepath.Join(dir, "journal"),
		config:  filepath.Join(dir, "config.json"),
	}
}

// run executes one wj invocation. Flag values are reset first because cobra
// keeps them in package variables between runs.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--journal", c.journal, "--config", c.config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func TestSaveShowSearch(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(loginSnapshot, "save")
	require.NoError(t, err)
	require.Contains(t, out, "Saved web-app")

	out, err = c.run("", "show", "web-app", "--json")
	require.NoError(t, err)
	var snap model.WorkSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Equal(t, "web-app", snap.ProjectID)
	for _, tag := range []string{"feature", "feat", "PROJ-42", "frontend"} {
		require.Contains(t, snap.Tags, tag)
	}

	out, err = c.run("", "search", "login")
	require.NoError(t, err)
	require.Contains(t, out, "web-app")
	require.Contains(t, out, "branch: feature/login-form")

	_, err = c.run("", "search", "nothing-like-this")
	require.Equal(t, 1, exitCode(err))
}

func TestSaveTwiceMerges(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(loginSnapshot, "save", "--no-auto-tag")
	require.NoError(t, err)
	second := `{"project_id": "web-app", "today_commits": [{"hash": "fedcba9876543210", "message": "fix: typo"}], "notes": "second pass"}`
	_, err = c.run(second, "save", "--no-auto-tag")
	require.NoError(t, err)

	out, err := c.run("", "show", "web-app", "--json")
	require.NoError(t, err)
	var snap model.WorkSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Len(t, snap.TodayCommits, 2)
	require.Equal(t, "paired on validation\n\nsecond pass", snap.Notes)
	require.Equal(t, "/src/Web App", snap.RepoPath)
	require.Empty(t, snap.Tags)

	out, err = c.run("", "projects")
	require.NoError(t, err)
	require.Contains(t, out, "web-app")
	require.Contains(t, out, "1 snapshots")
}

func TestAnnotateAndExitCodes(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "note", "web-app", "forgot", "to", "save")
	require.Equal(t, 1, exitCode(err))

	_, err = c.run(loginSnapshot, "save")
	require.NoError(t, err)

	_, err = c.run("", "note", "web-app", "reviewed", "PR")
	require.NoError(t, err)
	_, err = c.run("", "ai-summary", "web-app", "Built the login form.")
	require.NoError(t, err)
	_, err = c.run("", "tag", "web-app", "Release")
	require.NoError(t, err)

	out, err := c.run("", "show", "web-app")
	require.NoError(t, err)
	require.Contains(t, out, "reviewed PR")
	require.Contains(t, out, "Built the login form.")
	require.Contains(t, out, "Tags:     PROJ-42, feat, feature, frontend, Release")

	_, err = c.run("", "show", "web-app", "--date", "not-a-date")
	require.Error(t, err)
	_, err = c.run("", "show", "api", "--date", "2020-01-01")
	require.Equal(t, 1, exitCode(err))
}

func TestPromptAndStats(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(loginSnapshot, "save")
	require.NoError(t, err)

	out, err := c.run("", "prompt")
	require.NoError(t, err)
	require.Contains(t, out, "## Project: web-app")
	require.Contains(t, out, "add login form")

	out, err = c.run("", "history", "login.tsx")
	require.NoError(t, err)
	require.Contains(t, out, "0123456")

	out, err = c.run("", "stats")
	require.NoError(t, err)
	require.Contains(t, out, "Snapshots: 1")

	out, err = c.run("", "reindex")
	require.NoError(t, err)
	require.Contains(t, out, "Indexed 1 projects.")
}

func TestSummaryFormats(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(loginSnapshot, "save")
	require.NoError(t, err)

	out, err := c.run("", "summary")
	require.NoError(t, err)
	require.Contains(t, out, "# Week ")
	require.Contains(t, out, "## web-app")
	require.Contains(t, out, "- Branches: feature/login-form")

	out, err = c.run("", "summary", "--format", "csv")
	require.NoError(t, err)
	require.Contains(t, out, "project,repo_path,commits,active_days,insertions,deletions,branches\n")
	require.Contains(t, out, "web-app,/src/Web App,1,1,")

	_, err = c.run("", "summary", "--format", "xml")
	require.Error(t, err)
}

func TestSaveRejectsBadKeysAsUsage(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(loginSnapshot, "save", "--project", ".dotfiles")
	require.Error(t, err)
	require.Equal(t, 1, exitCode(err))

	_, err = c.run(loginSnapshot, "save", "--date", "2024-13-01")
	require.Error(t, err)
	require.Equal(t, 1, exitCode(err))

	_, err = c.run(`{"notes": "no key"}`, "save")
	require.Error(t, err)
	require.Equal(t, 1, exitCode(err))
}
