package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	pruneDays int
	statsJSON bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete date shards older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal size and coverage",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild index.json from the snapshot files",
	Args:  cobra.NoArgs,
	RunE:  runReindex,
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDays, "days", -1, "Keep this many days (default retention_days from config)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print stats as JSON")
}

func runPrune(cmd *cobra.Command, args []string) error {
	days := pruneDays
	if days < 0 {
		days = cfg.RetentionDays
	}
	res, err := store.Prune(days)
	if err != nil {
		return storageFailure(err)
	}

	w := cmd.OutOrStdout()
	if len(res.RemovedDates) == 0 {
		fmt.Fprintf(w, "Nothing older than %d days.\n", days)
		return nil
	}
	fmt.Fprintf(w, "Removed %d snapshots from %d days (%s).\n",
		res.RemovedSnapshots, len(res.RemovedDates), strings.Join(res.RemovedDates, ", "))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	st := store.Stats()
	w := cmd.OutOrStdout()
	if statsJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Journal:   %s\n", store.Root())
	fmt.Fprintf(w, "Snapshots: %d\n", st.TotalSnapshots)
	fmt.Fprintf(w, "Projects:  %d\n", st.TotalProjects)
	fmt.Fprintf(w, "Days:      %d\n", st.TotalDates)
	if st.OldestEntry != "" {
		fmt.Fprintf(w, "Range:     %s – %s\n", st.OldestEntry, st.NewestEntry)
	}
	fmt.Fprintf(w, "Size:      %s\n", humanize.Bytes(uint64(st.StorageBytes)))
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	ix, err := store.RebuildIndex()
	if err != nil {
		return storageFailure(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d projects.\n", len(ix.Projects))
	return nil
}
