package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/autotag"
	"github.com/Tiliavir/work-journal/internal/model"
	"github.com/Tiliavir/work-journal/internal/storage"
)

var (
	saveDate      string
	saveProject   string
	saveNoAutoTag bool
)

var saveCmd = &cobra.Command{
	Use:   "save [file|-]",
	Short: "Save a work snapshot (JSON) into the journal, merging with today's record",
	Long: `Reads a WorkSnapshot JSON document from a file or stdin and stores it.
If a snapshot already exists for the same date and project the two are merged.
Missing date defaults to today; missing project_id is derived from repo_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveDate, "date", "", "Override the snapshot date (YYYY-MM-DD)")
	saveCmd.Flags().StringVar(&saveProject, "project", "", "Override the project id")
	saveCmd.Flags().BoolVar(&saveNoAutoTag, "no-auto-tag", false, "Do not add derived tags")
}

func runSave(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening snapshot file: %w", err)
		}
		defer f.Close()
		in = f
	}

	snap, err := readSnapshot(in)
	if err != nil {
		return err
	}

	if saveDate != "" {
		snap.Date = saveDate
	}
	if snap.Date == "" {
		snap.Date = store.Today()
	}
	if saveProject != "" {
		snap.ProjectID = saveProject
	}
	if snap.ProjectID == "" {
		if snap.RepoPath == "" {
			return errors.New("snapshot has neither project_id nor repo_path")
		}
		snap.ProjectID = storage.ProjectIDFromPath(snap.RepoPath)
	}
	if cfg.AutoTagEnabled() && !saveNoAutoTag {
		snap.Tags = append(snap.Tags, autotag.Tags(snap)...)
	}

	saved, err := store.Save(snap)
	if errors.Is(err, storage.ErrInvalidDate) || errors.Is(err, storage.ErrInvalidProjectID) {
		return err
	}
	if err != nil {
		return storageFailure(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s for %s (%d commits, %d tags)\n",
		saved.ProjectID, saved.Date, len(saved.TodayCommits), len(saved.Tags))
	return nil
}

// readSnapshot decodes producer input. Unlike stored records, it may omit the
// date and project id.
func readSnapshot(r io.Reader) (model.WorkSnapshot, error) {
	var snap model.WorkSnapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return model.WorkSnapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
