package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var annotateDate string

var noteCmd = &cobra.Command{
	Use:   "note <project> <text...>",
	Short: "Append a note to a project's snapshot",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return annotate(cmd, args[0], "note added", func(date string) (bool, error) {
			return store.AddNote(args[0], strings.Join(args[1:], " "), date)
		})
	},
}

var aiSummaryCmd = &cobra.Command{
	Use:   "ai-summary <project> <text...>",
	Short: "Set the AI-generated summary of a project's snapshot",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return annotate(cmd, args[0], "summary set", func(date string) (bool, error) {
			return store.SetAISummary(args[0], strings.Join(args[1:], " "), date)
		})
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <project> <tag...>",
	Short: "Add tags to a project's snapshot",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return annotate(cmd, args[0], "tags added", func(date string) (bool, error) {
			return store.AddTags(args[0], args[1:], date)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{noteCmd, aiSummaryCmd, tagCmd} {
		c.Flags().StringVar(&annotateDate, "date", "", "Day of the snapshot (YYYY-MM-DD, default today)")
	}
}

// annotate runs a store mutator against an existing snapshot.
func annotate(cmd *cobra.Command, projectID, done string, apply func(date string) (bool, error)) error {
	date, err := dateOrToday(annotateDate)
	if err != nil {
		return err
	}
	found, err := apply(date)
	if err != nil {
		return storageFailure(err)
	}
	if !found {
		return notFound("no snapshot for %s on %s; save one first", projectID, date)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s for %s\n", projectID, done, date)
	return nil
}
