package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-journal/internal/format"
	"github.com/Tiliavir/work-journal/internal/model"
)

var (
	showDate string
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show the snapshot of a project for a day (default today)",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var latestCmd = &cobra.Command{
	Use:   "latest <project>",
	Short: "Show the most recent snapshot of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runLatest,
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "Day to show (YYYY-MM-DD, default today)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw snapshot JSON")
	latestCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw snapshot JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	date, err := dateOrToday(showDate)
	if err != nil {
		return err
	}
	snap, ok := store.Get(date, args[0])
	if !ok {
		return notFound("no snapshot for %s on %s", args[0], date)
	}
	return printSnapshot(cmd, snap)
}

func runLatest(cmd *cobra.Command, args []string) error {
	snap, ok := store.Latest(args[0])
	if !ok {
		return notFound("no snapshots recorded for %s", args[0])
	}
	return printSnapshot(cmd, snap)
}

func printSnapshot(cmd *cobra.Command, snap model.WorkSnapshot) error {
	if showJSON {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), format.Summary(snap))
	return err
}
