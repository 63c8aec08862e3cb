package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/query"
)

var (
	searchTags    []string
	searchProject string
	searchFrom    string
	searchTo      string
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the journal by text and tags, best matches first",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "Tag to match (repeatable)")
	searchCmd.Flags().StringVar(&searchProject, "project", "", "Only this project")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Start of range (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "End of range (YYYY-MM-DD, default today)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results (default search_limit from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if _, _, err := dateRange(searchFrom, searchTo, false, time.Now()); err != nil {
		return err
	}
	limit := searchLimit
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	results := engine().Search(query.SearchOptions{
		ProjectID: searchProject,
		From:      searchFrom,
		To:        searchTo,
		Query:     strings.Join(args, " "),
		Tags:      searchTags,
		Limit:     limit,
	})

	w := cmd.OutOrStdout()
	if searchJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		return notFound("no matching snapshots")
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s  %-24s score %d\n", r.Snapshot.Date, r.Snapshot.ProjectID, r.Score)
		for _, reason := range r.MatchReasons {
			fmt.Fprintf(w, "    %s\n", reason)
		}
	}
	return nil
}
