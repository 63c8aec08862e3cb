package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyProject string
	historyDays    int
	historyJSON    bool
)

var historyCmd = &cobra.Command{
	Use:   "history <file-or-glob>",
	Short: "Show which days' commits touched a file",
	Long: `Lists, newest first, the snapshots whose commits touched a file.
The argument is matched as a case-insensitive substring of the changed paths,
or as a glob ("*.css", "src/**/*.go") when it contains glob characters.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyProject, "project", "", "Only this project")
	historyCmd.Flags().IntVar(&historyDays, "days", 30, "How many days back to look (0 = whole journal)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	entries := engine().FindFileHistory(args[0], historyProject, historyDays)

	w := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		return notFound("no commits touching %q", args[0])
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", e.Date, e.ProjectID)
		for _, c := range e.Commits {
			hash := c.ShortHash
			if hash == "" && len(c.Hash) >= 7 {
				hash = c.Hash[:7]
			}
			fmt.Fprintf(w, "    %s %s\n", hash, firstLine(c.Message))
		}
	}
	return nil
}
