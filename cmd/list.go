package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/model"
)

var (
	listDate    string
	listFrom    string
	listTo      string
	listWeek    bool
	listProject string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal snapshots (default today)",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Show a single day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Start of range (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "End of range (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's snapshots")
	listCmd.Flags().StringVar(&listProject, "project", "", "Only this project")
}

func runList(cmd *cobra.Command, args []string) error {
	var snaps []model.WorkSnapshot
	if listFrom == "" && listTo == "" && !listWeek {
		date, err := dateOrToday(listDate)
		if err != nil {
			return err
		}
		snaps = store.ListForRange(listProject, date, date)
	} else {
		from, to, err := dateRange(listFrom, listTo, listWeek, time.Now())
		if err != nil {
			return err
		}
		snaps = store.ListForRange(listProject, from, to)
	}

	printList(cmd.OutOrStdout(), snaps)
	return nil
}

// printList groups snapshots by date and prints one line per project.
func printList(w io.Writer, snaps []model.WorkSnapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return
	}

	var currentDay string
	for _, s := range snaps {
		if s.Date != currentDay {
			fmt.Fprintln(w, s.Date)
			currentDay = s.Date
		}

		branch := ""
		if s.CurrentBranch != "" {
			branch = "  [" + s.CurrentBranch + "]"
		}
		fmt.Fprintf(w, "  %-24s%3d commits%s\n", s.ProjectID, len(s.TodayCommits), branch)
	}
}
